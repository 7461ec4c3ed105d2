package utils

import "github.com/gofiber/fiber/v2"

// MessageResponse is the body used for recognized HTTP-level errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// InternalErrorResponse carries the raw underlying error alongside the
// generic message, matching the service's error contract.
type InternalErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SendMessage sends a plain message body with the given status code.
func SendMessage(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(MessageResponse{Message: message})
}

// SendInternalError sends a 500 response exposing the underlying error string.
func SendInternalError(c *fiber.Ctx, err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}

	return c.Status(fiber.StatusInternalServerError).JSON(InternalErrorResponse{
		Message: "Internal server error",
		Error:   detail,
	})
}
