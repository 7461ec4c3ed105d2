package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
	"github.com/khoabkhn-byte/quizdesk-api/internal/service"
	"github.com/khoabkhn-byte/quizdesk-api/internal/utils"
)

// TestHandler wires test definition HTTP routes.
type TestHandler struct {
	service service.TestService
	logger  zerolog.Logger
}

// NewTestHandler constructs the handler.
func NewTestHandler(service service.TestService, logger zerolog.Logger) *TestHandler {
	return &TestHandler{
		service: service,
		logger:  logger.With().Str("component", "test_handler").Logger(),
	}
}

// Register attaches test endpoints to the router group.
func (h *TestHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *TestHandler) list(c *fiber.Ctx) error {
	filter := repository.TestFilter{
		TeacherID: c.Query("teacherId"),
		Subject:   c.Query("subject"),
	}

	tests, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(tests)
}

func (h *TestHandler) get(c *fiber.Ctx) error {
	test, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(test)
}

func (h *TestHandler) create(c *fiber.Ctx) error {
	var payload dto.TestCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	test, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(test)
}

func (h *TestHandler) update(c *fiber.Ctx) error {
	var payload dto.TestUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	test, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(test)
}

func (h *TestHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *TestHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		return utils.SendMessage(c, fiber.StatusNotFound, "Test not found")
	case errors.As(err, &validationErrors):
		return utils.SendMessage(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrInvalidQuestionList):
		return utils.SendMessage(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendInternalError(c, err)
	}
}
