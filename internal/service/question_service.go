package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

// ErrQuestionNotFound indicates the requested question does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionService exposes question bank use cases.
type QuestionService interface {
	List(ctx context.Context, filter repository.QuestionFilter) ([]dto.QuestionResponse, error)
	Get(ctx context.Context, id string) (dto.QuestionResponse, error)
	Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Update(ctx context.Context, id string, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	Delete(ctx context.Context, id string) error
}

type questionService struct {
	questions repository.QuestionRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuestionService builds a new question bank service. Question and option
// text is sanitized before persistence since it is user-authored content.
func NewQuestionService(questions repository.QuestionRepository, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "question_service").Logger(),
		now:       time.Now,
	}
}

func (s *questionService) List(ctx context.Context, filter repository.QuestionFilter) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Get(ctx context.Context, id string) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		ID:       uuid.NewString(),
		Text:     s.sanitizer.Sanitize(payload.Text),
		ImageURL: payload.ImageURL,
		Type:     payload.Type,
		Points:   payload.Points,
		Subject:  payload.Subject,
		Level:    payload.Level,
	}
	question.SetOptions(s.sanitizeOptions(payload.Options))

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Str("question_id", question.ID).Msg("question created")

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Update(ctx context.Context, id string, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	if payload.Text != nil {
		question.Text = s.sanitizer.Sanitize(*payload.Text)
	}

	if payload.ImageURL != nil {
		question.ImageURL = *payload.ImageURL
	}

	if payload.Type != nil {
		question.Type = *payload.Type
	}

	if payload.Points != nil {
		question.Points = *payload.Points
	}

	if payload.Subject != nil {
		question.Subject = *payload.Subject
	}

	if payload.Level != nil {
		question.Level = *payload.Level
	}

	if payload.Options != nil {
		question.SetOptions(s.sanitizeOptions(*payload.Options))
	}

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Str("question_id", question.ID).Msg("question updated")

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	s.logger.Info().Str("question_id", id).Msg("question deleted")
	return nil
}

func (s *questionService) sanitizeOptions(options []models.Option) []models.Option {
	sanitized := make([]models.Option, 0, len(options))
	for _, option := range options {
		sanitized = append(sanitized, models.Option{
			Text:    s.sanitizer.Sanitize(option.Text),
			Correct: option.Correct,
		})
	}
	return sanitized
}
