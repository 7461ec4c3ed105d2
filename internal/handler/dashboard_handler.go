package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/khoabkhn-byte/quizdesk-api/internal/service"
	"github.com/khoabkhn-byte/quizdesk-api/internal/utils"
)

// StudentDashboardHandler wires the per-student progress endpoint.
type StudentDashboardHandler struct {
	service service.StudentDashboardService
	logger  zerolog.Logger
}

// NewStudentDashboardHandler constructs the handler.
func NewStudentDashboardHandler(service service.StudentDashboardService, logger zerolog.Logger) *StudentDashboardHandler {
	return &StudentDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint to the router group.
func (h *StudentDashboardHandler) Register(router fiber.Router) {
	router.Get("/students/:id/dashboard", h.get)
}

func (h *StudentDashboardHandler) get(c *fiber.Ctx) error {
	dashboard, err := h.service.GetDashboard(c.Context(), c.Params("id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendInternalError(c, err)
	}

	return c.JSON(dashboard)
}
