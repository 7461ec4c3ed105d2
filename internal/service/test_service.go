package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

// questionListSchema validates the questions document at the store boundary:
// a list whose elements are bank ID strings or embedded question objects.
const questionListSchema = `{
	"type": "array",
	"items": {
		"anyOf": [
			{"type": "string", "minLength": 1},
			{
				"type": "object",
				"required": ["text"],
				"properties": {
					"id": {"type": "string"},
					"text": {"type": "string", "minLength": 1},
					"imageUrl": {"type": "string"},
					"type": {"type": "string"},
					"points": {"type": "integer", "minimum": 0},
					"subject": {"type": "string"},
					"level": {"type": "string"},
					"options": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["text"],
							"properties": {
								"text": {"type": "string"},
								"correct": {"type": "boolean"}
							}
						}
					}
				}
			}
		]
	}
}`

var compiledQuestionListSchema = jsonschema.MustCompileString("questions.json", questionListSchema)

// ErrInvalidQuestionList indicates the questions document failed schema validation.
var ErrInvalidQuestionList = errors.New("invalid questions document")

// TestService exposes test definition use cases.
type TestService interface {
	List(ctx context.Context, filter repository.TestFilter) ([]dto.TestResponse, error)
	Get(ctx context.Context, id string) (dto.TestResponse, error)
	Create(ctx context.Context, payload dto.TestCreateRequest) (dto.TestResponse, error)
	Update(ctx context.Context, id string, payload dto.TestUpdateRequest) (dto.TestResponse, error)
	Delete(ctx context.Context, id string) error
}

type testService struct {
	tests     repository.TestRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTestService builds a new test service.
func NewTestService(tests repository.TestRepository, validate *validator.Validate, logger zerolog.Logger) TestService {
	return &testService{
		tests:     tests,
		validator: validate,
		logger:    logger.With().Str("component", "test_service").Logger(),
		now:       time.Now,
	}
}

func (s *testService) List(ctx context.Context, filter repository.TestFilter) ([]dto.TestResponse, error) {
	tests, err := s.tests.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewTestResponseSlice(tests), nil
}

func (s *testService) Get(ctx context.Context, id string) (dto.TestResponse, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestResponse{}, ErrTestNotFound
		}
		return dto.TestResponse{}, err
	}

	return dto.NewTestResponse(test), nil
}

func (s *testService) Create(ctx context.Context, payload dto.TestCreateRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	questions := payload.Questions
	if len(questions) == 0 {
		questions = json.RawMessage("[]")
	}

	if err := validateQuestionList(questions); err != nil {
		return dto.TestResponse{}, err
	}

	mode := payload.QuestionMode
	if mode == "" {
		mode = models.DetectQuestionMode(questions)
	}

	test := models.Test{
		ID:           uuid.NewString(),
		Name:         payload.Name,
		TimeLimit:    payload.TimeLimit,
		Subject:      payload.Subject,
		Level:        payload.Level,
		TeacherID:    payload.TeacherID,
		QuestionMode: mode,
		Questions:    datatypes.JSON(questions),
	}

	if err := s.tests.Create(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	s.logger.Info().Str("test_id", test.ID).Str("question_mode", mode).Msg("test created")

	return dto.NewTestResponse(test), nil
}

func (s *testService) Update(ctx context.Context, id string, payload dto.TestUpdateRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestResponse{}, ErrTestNotFound
		}
		return dto.TestResponse{}, err
	}

	if payload.Name != nil {
		test.Name = *payload.Name
	}

	if payload.TimeLimit != nil {
		test.TimeLimit = *payload.TimeLimit
	}

	if payload.Subject != nil {
		test.Subject = *payload.Subject
	}

	if payload.Level != nil {
		test.Level = *payload.Level
	}

	if len(payload.Questions) > 0 {
		if err := validateQuestionList(payload.Questions); err != nil {
			return dto.TestResponse{}, err
		}

		test.Questions = datatypes.JSON(payload.Questions)
		if payload.QuestionMode != nil {
			test.QuestionMode = *payload.QuestionMode
		} else {
			test.QuestionMode = models.DetectQuestionMode(payload.Questions)
		}
	} else if payload.QuestionMode != nil {
		test.QuestionMode = *payload.QuestionMode
	}

	if err := s.tests.Update(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	s.logger.Info().Str("test_id", test.ID).Msg("test updated")

	return dto.NewTestResponse(test), nil
}

func (s *testService) Delete(ctx context.Context, id string) error {
	if err := s.tests.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestNotFound
		}
		return err
	}

	s.logger.Info().Str("test_id", id).Msg("test deleted")
	return nil
}

func validateQuestionList(raw json.RawMessage) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestionList, err)
	}

	if err := compiledQuestionListSchema.Validate(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestionList, err)
	}

	return nil
}
