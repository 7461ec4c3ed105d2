package dto

import (
	"encoding/json"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// TestCreateRequest describes the payload for authoring a test. Questions may
// be a list of question bank IDs or a list of embedded question objects; the
// storage mode is recorded explicitly, inferred from the list when omitted.
type TestCreateRequest struct {
	Name         string          `json:"name" validate:"required"`
	TimeLimit    int             `json:"time" validate:"omitempty,min=0"`
	Subject      string          `json:"subject"`
	Level        string          `json:"level"`
	TeacherID    string          `json:"teacherId"`
	QuestionMode string          `json:"questionMode" validate:"omitempty,oneof=reference inline"`
	Questions    json.RawMessage `json:"questions"`
}

// TestUpdateRequest describes a partial update to a test definition.
type TestUpdateRequest struct {
	Name         *string         `json:"name" validate:"omitempty,min=1"`
	TimeLimit    *int            `json:"time" validate:"omitempty,min=0"`
	Subject      *string         `json:"subject"`
	Level        *string         `json:"level"`
	QuestionMode *string         `json:"questionMode" validate:"omitempty,oneof=reference inline"`
	Questions    json.RawMessage `json:"questions"`
}

// TestResponse is the serialized representation returned to API clients.
type TestResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TimeLimit    int             `json:"time"`
	Subject      string          `json:"subject"`
	Level        string          `json:"level"`
	TeacherID    string          `json:"teacherId"`
	QuestionMode string          `json:"questionMode"`
	Questions    json.RawMessage `json:"questions"`
}

// NewTestResponse converts a model into a DTO.
func NewTestResponse(model models.Test) TestResponse {
	questions := json.RawMessage(model.Questions)
	if len(questions) == 0 {
		questions = json.RawMessage("[]")
	}

	return TestResponse{
		ID:           model.ID,
		Name:         model.Name,
		TimeLimit:    model.TimeLimit,
		Subject:      model.Subject,
		Level:        model.Level,
		TeacherID:    model.TeacherID,
		QuestionMode: model.QuestionMode,
		Questions:    questions,
	}
}

// NewTestResponseSlice converts a slice of models into DTOs.
func NewTestResponseSlice(tests []models.Test) []TestResponse {
	responses := make([]TestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, NewTestResponse(test))
	}

	return responses
}
