package dto

import (
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// UserCreateRequest describes the payload for registering an account.
type UserCreateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"omitempty,oneof=student teacher"`
}

// UserUpdateRequest describes a partial account update.
type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" validate:"omitempty,min=1"`
	Role     *string `json:"role" validate:"omitempty,oneof=student teacher"`
}

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the serialized representation returned to API clients. The
// password hash never leaves the service.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginResponse bundles the issued token with the authenticated account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:       model.ID,
		Username: model.Username,
		Name:     model.Name,
		Role:     model.Role,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}
