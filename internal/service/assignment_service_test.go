package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

type memoryTestRepo struct {
	tests map[string]models.Test
}

func newMemoryTestRepo(tests ...models.Test) *memoryTestRepo {
	repo := &memoryTestRepo{tests: make(map[string]models.Test)}
	for _, test := range tests {
		repo.tests[test.ID] = test
	}
	return repo
}

func (m *memoryTestRepo) List(ctx context.Context, filter repository.TestFilter) ([]models.Test, error) {
	results := make([]models.Test, 0, len(m.tests))
	for _, test := range m.tests {
		results = append(results, test)
	}
	return results, nil
}

func (m *memoryTestRepo) GetByID(ctx context.Context, id string) (models.Test, error) {
	test, ok := m.tests[id]
	if !ok {
		return models.Test{}, gorm.ErrRecordNotFound
	}
	return test, nil
}

func (m *memoryTestRepo) Create(ctx context.Context, test *models.Test) error {
	m.tests[test.ID] = *test
	return nil
}

func (m *memoryTestRepo) Update(ctx context.Context, test *models.Test) error {
	if _, ok := m.tests[test.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.tests[test.ID] = *test
	return nil
}

func (m *memoryTestRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.tests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.tests, id)
	return nil
}

type memoryAssignmentRepo struct {
	assignments map[string]models.Assignment
	order       []string
	batchErr    error
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: make(map[string]models.Assignment)}
}

func (m *memoryAssignmentRepo) List(ctx context.Context, filter repository.AssignmentFilter) ([]models.Assignment, error) {
	results := make([]models.Assignment, 0, len(m.order))
	for _, id := range m.order {
		assignment := m.assignments[id]
		if filter.StudentID != nil && assignment.StudentID != *filter.StudentID {
			continue
		}
		if filter.TestID != nil && assignment.TestID != *filter.TestID {
			continue
		}
		if filter.Status != nil && assignment.Status != *filter.Status {
			continue
		}
		results = append(results, assignment)
	}
	return results, nil
}

func (m *memoryAssignmentRepo) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) CreateBatch(ctx context.Context, assignments []models.Assignment) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for _, assignment := range assignments {
		m.assignments[assignment.ID] = assignment
		m.order = append(m.order, assignment.ID)
	}
	return nil
}

func (m *memoryAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

func newAssignmentFixture(t *testing.T) (*memoryAssignmentRepo, *memoryQuestionRepo, AssignmentService) {
	t.Helper()

	questionRepo := newMemoryQuestionRepo(
		bankQuestion("q1", "first"),
		bankQuestion("q2", "second"),
	)
	testRepo := newMemoryTestRepo(referenceTest("q1", "q2"))
	assignmentRepo := newMemoryAssignmentRepo()

	resolver := NewQuestionResolver(questionRepo, testLogger())
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAssignmentService(assignmentRepo, testRepo, resolver, validate, testLogger())

	return assignmentRepo, questionRepo, svc
}

func TestAssignFanOut(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	count, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1", "s2", "s3"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, count)

	assignments, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, assignments, 3)

	seen := make(map[string]bool)
	for i, assignment := range assignments {
		require.NotEmpty(t, assignment.ID)
		require.False(t, seen[assignment.ID], "assignment IDs must be distinct")
		seen[assignment.ID] = true

		require.Equal(t, []string{"s1", "s2", "s3"}[i], assignment.StudentID)
		require.Equal(t, "test-1", assignment.TestID)
		require.Equal(t, "Algebra Midterm", assignment.TestName)
		require.Equal(t, models.AssignmentStatusNotStarted, assignment.Status)
		require.Nil(t, assignment.Score)
		require.Empty(t, assignment.Answers)
		require.Nil(t, assignment.StartedAt)
		require.Nil(t, assignment.SubmittedAt)
		require.Len(t, assignment.Questions, 2)
		require.Equal(t, assignments[0].Questions, assignment.Questions)
		require.Equal(t, assignments[0].AssignedAt, assignment.AssignedAt, "one batch shares one timestamp")
	}
}

func TestAssignDuplicateStudentsProduceDuplicates(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	count, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1", "s1"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	studentID := "s1"
	assignments, err := svc.List(context.Background(), &studentID, nil)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.NotEqual(t, assignments[0].ID, assignments[1].ID)
}

func TestAssignValidation(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	var validationErrors validator.ValidationErrors

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{StudentIDs: []string{"s1"}})
	require.ErrorAs(t, err, &validationErrors)

	_, err = svc.Assign(context.Background(), dto.AssignTestRequest{TestID: "test-1"})
	require.ErrorAs(t, err, &validationErrors)

	_, err = svc.Assign(context.Background(), dto.AssignTestRequest{TestID: "test-1", StudentIDs: []string{}})
	require.ErrorAs(t, err, &validationErrors)
}

func TestAssignUnknownTest(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "missing",
		StudentIDs: []string{"s1"},
	})
	require.ErrorIs(t, err, ErrTestNotFound)
}

func TestAssignBatchFailureSurfaces(t *testing.T) {
	assignmentRepo, _, svc := newAssignmentFixture(t)
	assignmentRepo.batchErr = errors.New("connection reset")

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1", "s2"},
	})
	require.EqualError(t, err, "connection reset")
	require.Empty(t, assignmentRepo.assignments, "no partial batch may be reported as success")
}

func TestAssignSnapshotIsolation(t *testing.T) {
	_, questionRepo, svc := newAssignmentFixture(t)

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1"},
	})
	require.NoError(t, err)

	// Rewrite the bank question after assignment; the frozen snapshot must
	// keep the original text.
	mutated := bankQuestion("q1", "rewritten")
	require.NoError(t, questionRepo.Update(context.Background(), &mutated))

	assignments, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.Equal(t, "first", assignments[0].Questions[0].Text)
}

func TestSubmitGradesAndStamps(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1"},
	})
	require.NoError(t, err)

	assignments, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	id := assignments[0].ID

	score, err := svc.Submit(context.Background(), id, []any{"A", "B"})
	require.NoError(t, err)
	require.Equal(t, 1, score)

	graded, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusCompleted, graded.Status)
	require.NotNil(t, graded.Score)
	require.Equal(t, 1, *graded.Score)
	require.NotNil(t, graded.SubmittedAt)
	require.Equal(t, []any{"A", "B"}, graded.Answers)
}

func TestSubmitLatestCallWins(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1"},
	})
	require.NoError(t, err)

	assignments, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	id := assignments[0].ID

	score, err := svc.Submit(context.Background(), id, []any{"A", "A"})
	require.NoError(t, err)
	require.Equal(t, 2, score)

	score, err = svc.Submit(context.Background(), id, []any{"B", "B"})
	require.NoError(t, err)
	require.Equal(t, 0, score)

	graded, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 0, *graded.Score)
	require.Equal(t, []any{"B", "B"}, graded.Answers)
}

func TestSubmitUnknownAssignment(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Submit(context.Background(), "missing", []any{"A"})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestStartOverwritesTimestamp(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1"},
	})
	require.NoError(t, err)

	assignments, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	id := assignments[0].ID

	first := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	second := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	impl := svc.(*assignmentService)
	impl.now = func() time.Time { return first }

	started, err := svc.Start(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusInProgress, started.Status)
	require.Equal(t, first, *started.StartedAt)

	impl.now = func() time.Time { return second }

	started, err = svc.Start(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, second, *started.StartedAt, "a repeated start restamps startedAt")
}

func TestPatchStatusStamping(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1"},
	})
	require.NoError(t, err)

	assignments, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	id := assignments[0].ID

	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	impl := svc.(*assignmentService)
	impl.now = func() time.Time { return stamp }

	inProgress := models.AssignmentStatusInProgress
	patched, err := svc.Patch(context.Background(), id, dto.AssignmentPatchRequest{Status: &inProgress})
	require.NoError(t, err)
	require.Equal(t, inProgress, patched.Status)
	require.Equal(t, stamp, *patched.StartedAt)
	require.Nil(t, patched.SubmittedAt)

	completed := models.AssignmentStatusCompleted
	patched, err = svc.Patch(context.Background(), id, dto.AssignmentPatchRequest{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, completed, patched.Status)
	require.Equal(t, stamp, *patched.SubmittedAt)
}

func TestPatchDirectFieldWrites(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Assign(context.Background(), dto.AssignTestRequest{
		TestID:     "test-1",
		StudentIDs: []string{"s1"},
	})
	require.NoError(t, err)

	assignments, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	id := assignments[0].ID

	// The escape hatch lets a caller write score and answers directly,
	// bypassing grading.
	score := 42
	answers := []any{"A"}
	name := "Renamed"
	patched, err := svc.Patch(context.Background(), id, dto.AssignmentPatchRequest{
		TestName: &name,
		Score:    &score,
		Answers:  &answers,
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", patched.TestName)
	require.Equal(t, 42, *patched.Score)
	require.Equal(t, []any{"A"}, patched.Answers)
	require.Equal(t, models.AssignmentStatusNotStarted, patched.Status, "untouched fields keep their values")
}

func TestPatchUnknownAssignment(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Patch(context.Background(), "missing", dto.AssignmentPatchRequest{})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
