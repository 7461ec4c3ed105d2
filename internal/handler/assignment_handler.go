package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/observability"
	"github.com/khoabkhn-byte/quizdesk-api/internal/service"
	"github.com/khoabkhn-byte/quizdesk-api/internal/utils"
)

// AssignmentHandler wires assignment HTTP routes.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment endpoints to the router group.
func (h *AssignmentHandler) Register(api fiber.Router) {
	api.Post("/assign-test", h.assign)
	api.Get("/assignments", h.list)
	api.Get("/assignments/:id", h.get)
	api.Put("/assignments/:id", h.patch)
	api.Post("/assignments/:id/start", h.start)
	api.Post("/submit-assignment/:id", h.submit)
}

func (h *AssignmentHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	count, err := h.service.Assign(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.AssignmentsCreated().Add(float64(count))

	return c.Status(fiber.StatusCreated).JSON(dto.AssignResult{Success: true, Count: count})
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	var studentID, testID *string
	if value := c.Query("studentId"); value != "" {
		studentID = &value
	}
	if value := c.Query("testId"); value != "" {
		testID = &value
	}

	assignments, err := h.service.List(c.Context(), studentID, testID)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(assignments)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	assignment, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(assignment)
}

func (h *AssignmentHandler) patch(c *fiber.Ctx) error {
	var payload dto.AssignmentPatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.Patch(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(assignment)
}

func (h *AssignmentHandler) start(c *fiber.Ctx) error {
	assignment, err := h.service.Start(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(assignment)
}

func (h *AssignmentHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	score, err := h.service.Submit(c.Context(), c.Params("id"), payload.Answers)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.SubmissionsGraded().Inc()

	return c.JSON(dto.SubmitResult{Success: true, Score: score})
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		return utils.SendMessage(c, fiber.StatusNotFound, "Test not found")
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendMessage(c, fiber.StatusNotFound, "Assignment not found")
	case errors.As(err, &validationErrors):
		return utils.SendMessage(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendInternalError(c, err)
	}
}
