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

// QuestionHandler wires question bank HTTP routes.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler constructs the handler.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches question endpoints to the router group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *QuestionHandler) list(c *fiber.Ctx) error {
	filter := repository.QuestionFilter{
		Subject: c.Query("subject"),
		Level:   c.Query("level"),
		Search:  c.Query("search"),
	}

	questions, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(questions)
}

func (h *QuestionHandler) get(c *fiber.Ctx) error {
	question, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(question)
}

func (h *QuestionHandler) create(c *fiber.Ctx) error {
	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (h *QuestionHandler) update(c *fiber.Ctx) error {
	var payload dto.QuestionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(question)
}

func (h *QuestionHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *QuestionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendMessage(c, fiber.StatusNotFound, "Question not found")
	case errors.As(err, &validationErrors):
		return utils.SendMessage(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendInternalError(c, err)
	}
}
