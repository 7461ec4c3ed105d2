package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

func setupTestDB(t *testing.T, tables ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(tables...))
	for _, table := range tables {
		require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error)
	}
	return db
}

func storedAssignment(id, testID, studentID, status string, assignedAt time.Time) models.Assignment {
	return models.Assignment{
		ID:         id,
		TestID:     testID,
		StudentID:  studentID,
		Status:     status,
		Questions:  datatypes.JSON([]byte(`[]`)),
		Answers:    datatypes.JSON([]byte(`[]`)),
		AssignedAt: assignedAt,
	}
}

func TestAssignmentRepositoryCreateBatchAndGet(t *testing.T) {
	db := setupTestDB(t, &models.Assignment{})
	repo := NewAssignmentRepository(db)

	now := time.Now()
	batch := []models.Assignment{
		storedAssignment("a1", "t1", "s1", models.AssignmentStatusNotStarted, now),
		storedAssignment("a2", "t1", "s2", models.AssignmentStatusNotStarted, now),
	}
	batch[0].SetQuestions([]models.Question{{ID: "q1", Text: "first", Points: 2}})

	require.NoError(t, repo.CreateBatch(context.Background(), batch))

	stored, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, "s1", stored.StudentID)
	require.Len(t, stored.QuestionList(), 1)
	require.Equal(t, "first", stored.QuestionList()[0].Text)

	_, err = repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignmentRepositoryCreateBatchEmpty(t *testing.T) {
	db := setupTestDB(t, &models.Assignment{})
	repo := NewAssignmentRepository(db)

	require.NoError(t, repo.CreateBatch(context.Background(), nil))
}

func TestAssignmentRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t, &models.Assignment{})
	repo := NewAssignmentRepository(db)

	now := time.Now()
	require.NoError(t, repo.CreateBatch(context.Background(), []models.Assignment{
		storedAssignment("a1", "t1", "s1", models.AssignmentStatusNotStarted, now.Add(-2*time.Hour)),
		storedAssignment("a2", "t1", "s2", models.AssignmentStatusCompleted, now.Add(-time.Hour)),
		storedAssignment("a3", "t2", "s1", models.AssignmentStatusInProgress, now),
	}))

	all, err := repo.List(context.Background(), AssignmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "a3", all[0].ID, "newest assignment first")

	studentID := "s1"
	mine, err := repo.List(context.Background(), AssignmentFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	testID := "t1"
	status := models.AssignmentStatusCompleted
	done, err := repo.List(context.Background(), AssignmentFilter{TestID: &testID, Status: &status})
	require.NoError(t, err)
	require.Len(t, done, 1)
	require.Equal(t, "a2", done[0].ID)
}

func TestAssignmentRepositoryUpdatePersistsGrading(t *testing.T) {
	db := setupTestDB(t, &models.Assignment{})
	repo := NewAssignmentRepository(db)

	now := time.Now()
	require.NoError(t, repo.CreateBatch(context.Background(), []models.Assignment{
		storedAssignment("a1", "t1", "s1", models.AssignmentStatusNotStarted, now),
	}))

	assignment, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)

	score := 4
	submittedAt := now.Add(30 * time.Minute)
	assignment.Status = models.AssignmentStatusCompleted
	assignment.Score = &score
	assignment.SubmittedAt = &submittedAt
	assignment.SetAnswers([]any{"A", "B"})

	require.NoError(t, repo.Update(context.Background(), &assignment))

	stored, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusCompleted, stored.Status)
	require.NotNil(t, stored.Score)
	require.Equal(t, 4, *stored.Score)
	require.NotNil(t, stored.SubmittedAt)
	require.Equal(t, []any{"A", "B"}, stored.AnswerList())
}

func TestAssignmentRepositoryDelete(t *testing.T) {
	db := setupTestDB(t, &models.Assignment{})
	repo := NewAssignmentRepository(db)

	require.NoError(t, repo.CreateBatch(context.Background(), []models.Assignment{
		storedAssignment("a1", "t1", "s1", models.AssignmentStatusNotStarted, time.Now()),
	}))

	require.NoError(t, repo.Delete(context.Background(), "a1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "a1"), gorm.ErrRecordNotFound)
}
