package dto

import (
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// QuestionCreateRequest describes the payload for adding a bank question.
type QuestionCreateRequest struct {
	Text     string          `json:"text" validate:"required"`
	ImageURL string          `json:"imageUrl"`
	Type     string          `json:"type"`
	Points   int             `json:"points" validate:"omitempty,min=0"`
	Subject  string          `json:"subject"`
	Level    string          `json:"level"`
	Options  []models.Option `json:"options"`
}

// QuestionUpdateRequest describes a partial update to a bank question.
type QuestionUpdateRequest struct {
	Text     *string          `json:"text" validate:"omitempty,min=1"`
	ImageURL *string          `json:"imageUrl"`
	Type     *string          `json:"type"`
	Points   *int             `json:"points" validate:"omitempty,min=0"`
	Subject  *string          `json:"subject"`
	Level    *string          `json:"level"`
	Options  *[]models.Option `json:"options"`
}

// QuestionResponse is the serialized representation returned to API clients.
type QuestionResponse struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Type     string          `json:"type"`
	Points   int             `json:"points"`
	Subject  string          `json:"subject"`
	Level    string          `json:"level"`
	Options  []models.Option `json:"options"`
}

// NewQuestionResponse converts a model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	options := model.OptionList()
	if options == nil {
		options = []models.Option{}
	}

	return QuestionResponse{
		ID:       model.ID,
		Text:     model.Text,
		ImageURL: model.ImageURL,
		Type:     model.Type,
		Points:   model.Points,
		Subject:  model.Subject,
		Level:    model.Level,
		Options:  options,
	}
}

// NewQuestionResponseSlice converts a slice of models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}
