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

// UserHandler wires account HTTP routes.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches user endpoints to the router group.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// Login handles the credential exchange endpoint.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Login(c.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendMessage(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		return h.handleError(c, err)
	}

	return c.JSON(result)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	filter := repository.UserFilter{Role: c.Query("role")}

	users, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(users)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	user, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(user)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(user)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *UserHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendMessage(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrUsernameTaken):
		return utils.SendMessage(c, fiber.StatusConflict, "Username already exists")
	case errors.As(err, &validationErrors):
		return utils.SendMessage(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendInternalError(c, err)
	}
}
