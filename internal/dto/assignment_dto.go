package dto

import (
	"time"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// AssignTestRequest is the payload for fanning a test out to students.
type AssignTestRequest struct {
	TestID     string   `json:"testId" validate:"required"`
	StudentIDs []string `json:"studentIds" validate:"required,min=1,dive,required"`
}

// SubmitAssignmentRequest carries a student's answer list, index-aligned with
// the assignment's question snapshot.
type SubmitAssignmentRequest struct {
	Answers []any `json:"answers"`
}

// AssignmentPatchRequest is the administrative escape hatch: any subset of
// assignment fields may be supplied and is merged into the stored document.
type AssignmentPatchRequest struct {
	TestName    *string    `json:"testName"`
	StudentID   *string    `json:"studentId"`
	Status      *string    `json:"status" validate:"omitempty,oneof=not_started in_progress completed"`
	Score       *int       `json:"score"`
	Answers     *[]any     `json:"answers"`
	StartedAt   *time.Time `json:"startedAt"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          string            `json:"id"`
	TestID      string            `json:"testId"`
	TestName    string            `json:"testName"`
	StudentID   string            `json:"studentId"`
	Questions   []models.Question `json:"questions"`
	Status      string            `json:"status"`
	Score       *int              `json:"score"`
	Answers     []any             `json:"answers"`
	AssignedAt  time.Time         `json:"assignedAt"`
	StartedAt   *time.Time        `json:"startedAt"`
	SubmittedAt *time.Time        `json:"submittedAt"`
}

// AssignResult reports the outcome of an assign-test request.
type AssignResult struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	Success bool `json:"success"`
	Score   int  `json:"score"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	questions := model.QuestionList()
	if questions == nil {
		questions = []models.Question{}
	}

	answers := model.AnswerList()
	if answers == nil {
		answers = []any{}
	}

	return AssignmentResponse{
		ID:          model.ID,
		TestID:      model.TestID,
		TestName:    model.TestName,
		StudentID:   model.StudentID,
		Questions:   questions,
		Status:      model.Status,
		Score:       model.Score,
		Answers:     answers,
		AssignedAt:  model.AssignedAt,
		StartedAt:   model.StartedAt,
		SubmittedAt: model.SubmittedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
