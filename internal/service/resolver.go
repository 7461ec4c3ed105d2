package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

// QuestionResolver turns a test's question list into concrete question
// snapshots, looking up bank references or decoding embedded copies.
type QuestionResolver struct {
	questions repository.QuestionRepository
	logger    zerolog.Logger
}

// NewQuestionResolver builds a resolver backed by the question bank.
func NewQuestionResolver(questions repository.QuestionRepository, logger zerolog.Logger) *QuestionResolver {
	return &QuestionResolver{
		questions: questions,
		logger:    logger.With().Str("component", "question_resolver").Logger(),
	}
}

// Resolve returns the test's questions in authored order. Reference lists are
// looked up in the bank; IDs that no longer resolve are dropped silently so
// that a deleted question never fails the whole resolution. Inline lists are
// returned as stored, without lookup.
func (r *QuestionResolver) Resolve(ctx context.Context, test models.Test) ([]models.Question, error) {
	if len(test.Questions) == 0 {
		return []models.Question{}, nil
	}

	mode := test.QuestionMode
	if mode == "" {
		// Tests authored before the mode field was recorded.
		mode = models.DetectQuestionMode([]byte(test.Questions))
	}

	if mode != models.QuestionModeReference {
		questions := test.InlineQuestions()
		if questions == nil {
			return []models.Question{}, nil
		}
		return questions, nil
	}

	ids := test.QuestionIDs()
	if len(ids) == 0 {
		return []models.Question{}, nil
	}

	found, err := r.questions.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Question, len(found))
	for _, question := range found {
		byID[question.ID] = question
	}

	resolved := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		question, ok := byID[id]
		if !ok {
			r.logger.Warn().Str("test_id", test.ID).Str("question_id", id).Msg("question reference no longer resolves, dropping")
			continue
		}
		resolved = append(resolved, question)
	}

	return resolved, nil
}
