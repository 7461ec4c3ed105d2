package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

// ErrTestNotFound indicates the referenced test does not exist.
var ErrTestNotFound = errors.New("test not found")

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentService owns the assignment fan-out, lifecycle and grading flows.
type AssignmentService interface {
	Assign(ctx context.Context, payload dto.AssignTestRequest) (int, error)
	List(ctx context.Context, studentID, testID *string) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id string) (dto.AssignmentResponse, error)
	Start(ctx context.Context, id string) (dto.AssignmentResponse, error)
	Submit(ctx context.Context, id string, answers []any) (int, error)
	Patch(ctx context.Context, id string, payload dto.AssignmentPatchRequest) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	tests       repository.TestRepository
	resolver    *QuestionResolver
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, tests repository.TestRepository, resolver *QuestionResolver, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		tests:       tests,
		resolver:    resolver,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

// Assign resolves the test's questions once and stamps out one assignment per
// student ID, all sharing the same frozen snapshot and the same assignedAt
// timestamp. Duplicate student IDs produce duplicate assignments. The whole
// batch is persisted with a single insert; a storage failure is surfaced,
// never reported as partial success.
func (s *assignmentService) Assign(ctx context.Context, payload dto.AssignTestRequest) (int, error) {
	if err := s.validator.Struct(payload); err != nil {
		return 0, err
	}

	test, err := s.tests.GetByID(ctx, payload.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTestNotFound
		}
		return 0, err
	}

	resolved, err := s.resolver.Resolve(ctx, test)
	if err != nil {
		return 0, err
	}

	snapshot, err := json.Marshal(resolved)
	if err != nil {
		return 0, err
	}

	assignedAt := s.now()
	assignments := make([]models.Assignment, 0, len(payload.StudentIDs))
	for _, studentID := range payload.StudentIDs {
		assignments = append(assignments, models.Assignment{
			ID:         uuid.NewString(),
			TestID:     test.ID,
			TestName:   test.Name,
			StudentID:  studentID,
			Questions:  datatypes.JSON(append([]byte(nil), snapshot...)),
			Status:     models.AssignmentStatusNotStarted,
			Answers:    datatypes.JSON([]byte("[]")),
			AssignedAt: assignedAt,
		})
	}

	if err := s.assignments.CreateBatch(ctx, assignments); err != nil {
		return 0, err
	}

	s.logger.Info().
		Str("test_id", test.ID).
		Int("count", len(assignments)).
		Int("questions", len(resolved)).
		Msg("test assigned")

	return len(assignments), nil
}

func (s *assignmentService) List(ctx context.Context, studentID, testID *string) ([]dto.AssignmentResponse, error) {
	filter := repository.AssignmentFilter{
		StudentID: studentID,
		TestID:    testID,
	}

	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id string) (dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

// Start moves the assignment into in_progress and stamps startedAt with the
// current time, overwriting any previous value.
func (s *assignmentService) Start(ctx context.Context, id string) (dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	startedAt := s.now()
	assignment.Status = models.AssignmentStatusInProgress
	assignment.StartedAt = &startedAt

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID).Msg("assignment started")

	return dto.NewAssignmentResponse(assignment), nil
}

// Submit grades the answer list against the frozen snapshot and persists the
// outcome. Re-submitting always replaces the previous answers and score; the
// latest call wins. The grading total is computed but intentionally not part
// of the returned contract.
func (s *assignmentService) Submit(ctx context.Context, id string, answers []any) (int, error) {
	tracer := otel.Tracer("github.com/khoabkhn-byte/quizdesk-api/internal/service/assignment")
	ctx, span := tracer.Start(ctx, "assignment.submit")
	span.SetAttributes(
		attribute.String("assignment.id", id),
		attribute.Int("assignment.answers", len(answers)),
	)
	defer span.End()

	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assignment_lookup_failed")
		return 0, err
	}

	score, total := scoreAnswers(assignment.QuestionList(), answers)

	if answers == nil {
		answers = []any{}
	}
	assignment.SetAnswers(answers)
	assignment.Score = &score
	assignment.Status = models.AssignmentStatusCompleted
	submittedAt := s.now()
	assignment.SubmittedAt = &submittedAt

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assignment_update_failed")
		return 0, err
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID).
		Int("score", score).
		Int("total", total).
		Msg("assignment graded")

	return score, nil
}

// Patch merges an arbitrary subset of assignment fields into the stored
// document. A supplied status of in_progress or completed always restamps the
// matching timestamp, regardless of any previous value. Writing score or
// answers directly through here bypasses grading; the endpoint exists as an
// explicit administrative escape hatch.
func (s *assignmentService) Patch(ctx context.Context, id string, payload dto.AssignmentPatchRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.TestName != nil {
		assignment.TestName = *payload.TestName
	}

	if payload.StudentID != nil {
		assignment.StudentID = *payload.StudentID
	}

	if payload.Score != nil {
		assignment.Score = payload.Score
	}

	if payload.Answers != nil {
		assignment.SetAnswers(*payload.Answers)
	}

	if payload.StartedAt != nil {
		assignment.StartedAt = payload.StartedAt
	}

	if payload.SubmittedAt != nil {
		assignment.SubmittedAt = payload.SubmittedAt
	}

	if payload.Status != nil {
		assignment.Status = *payload.Status
		switch *payload.Status {
		case models.AssignmentStatusInProgress:
			startedAt := s.now()
			assignment.StartedAt = &startedAt
		case models.AssignmentStatusCompleted:
			submittedAt := s.now()
			assignment.SubmittedAt = &submittedAt
		}
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID).Msg("assignment patched")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) getAssignment(ctx context.Context, id string) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	return assignment, nil
}
