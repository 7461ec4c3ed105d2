package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryQuestionRepo struct {
	questions map[string]models.Question
}

func newMemoryQuestionRepo(questions ...models.Question) *memoryQuestionRepo {
	repo := &memoryQuestionRepo{questions: make(map[string]models.Question)}
	for _, question := range questions {
		repo.questions[question.ID] = question
	}
	return repo
}

func (m *memoryQuestionRepo) List(ctx context.Context, filter repository.QuestionFilter) ([]models.Question, error) {
	results := make([]models.Question, 0, len(m.questions))
	for _, question := range m.questions {
		results = append(results, question)
	}
	return results, nil
}

func (m *memoryQuestionRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	results := make([]models.Question, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		if question, ok := m.questions[id]; ok && !seen[id] {
			results = append(results, question)
			seen[id] = true
		}
	}
	return results, nil
}

func (m *memoryQuestionRepo) GetByID(ctx context.Context, id string) (models.Question, error) {
	question, ok := m.questions[id]
	if !ok {
		return models.Question{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (m *memoryQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	m.questions[question.ID] = *question
	return nil
}

func (m *memoryQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	if _, ok := m.questions[question.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.questions[question.ID] = *question
	return nil
}

func (m *memoryQuestionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.questions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.questions, id)
	return nil
}

func bankQuestion(id, text string) models.Question {
	question := models.Question{ID: id, Text: text, Points: 1}
	question.SetOptions([]models.Option{{Text: "A", Correct: true}, {Text: "B"}})
	return question
}

func referenceTest(ids ...string) models.Test {
	data, _ := json.Marshal(ids)
	return models.Test{
		ID:           "test-1",
		Name:         "Algebra Midterm",
		QuestionMode: models.QuestionModeReference,
		Questions:    datatypes.JSON(data),
	}
}

func TestResolverReferenceModePreservesOrder(t *testing.T) {
	repo := newMemoryQuestionRepo(
		bankQuestion("q1", "first"),
		bankQuestion("q2", "second"),
		bankQuestion("q3", "third"),
	)
	resolver := NewQuestionResolver(repo, testLogger())

	resolved, err := resolver.Resolve(context.Background(), referenceTest("q3", "q1", "q2"))
	require.NoError(t, err)
	require.Len(t, resolved, 3)
	require.Equal(t, "q3", resolved[0].ID)
	require.Equal(t, "q1", resolved[1].ID)
	require.Equal(t, "q2", resolved[2].ID)
}

func TestResolverDropsDanglingReferences(t *testing.T) {
	repo := newMemoryQuestionRepo(
		bankQuestion("q1", "first"),
		bankQuestion("q3", "third"),
	)
	resolver := NewQuestionResolver(repo, testLogger())

	resolved, err := resolver.Resolve(context.Background(), referenceTest("q1", "q2", "q3"))
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	require.Equal(t, "q1", resolved[0].ID)
	require.Equal(t, "q3", resolved[1].ID)
}

func TestResolverEmptyQuestionList(t *testing.T) {
	resolver := NewQuestionResolver(newMemoryQuestionRepo(), testLogger())

	resolved, err := resolver.Resolve(context.Background(), models.Test{ID: "test-1"})
	require.NoError(t, err)
	require.Empty(t, resolved)

	resolved, err = resolver.Resolve(context.Background(), models.Test{
		ID:           "test-2",
		QuestionMode: models.QuestionModeReference,
		Questions:    datatypes.JSON([]byte("[]")),
	})
	require.NoError(t, err)
	require.Empty(t, resolved)
}

func TestResolverInlineModeSkipsLookup(t *testing.T) {
	// The bank is empty: inline snapshots must come back without any lookup.
	resolver := NewQuestionResolver(newMemoryQuestionRepo(), testLogger())

	inline := []models.Question{bankQuestion("q9", "embedded")}
	data, err := json.Marshal(inline)
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), models.Test{
		ID:           "test-1",
		QuestionMode: models.QuestionModeInline,
		Questions:    datatypes.JSON(data),
	})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, "q9", resolved[0].ID)
	require.Equal(t, "embedded", resolved[0].Text)
}

func TestResolverMixedListDegradesToInline(t *testing.T) {
	// A list mixing bare IDs and objects is not a reference list; mode
	// detection must classify the whole list as inline.
	raw := []byte(`["q1", {"id": "q2", "text": "embedded"}]`)
	require.Equal(t, models.QuestionModeInline, models.DetectQuestionMode(raw))

	allStrings := []byte(`["q1", "q2"]`)
	require.Equal(t, models.QuestionModeReference, models.DetectQuestionMode(allStrings))
}

func TestResolverLegacyTestWithoutMode(t *testing.T) {
	repo := newMemoryQuestionRepo(bankQuestion("q1", "first"))
	resolver := NewQuestionResolver(repo, testLogger())

	test := models.Test{ID: "test-1", Questions: datatypes.JSON([]byte(`["q1"]`))}
	resolved, err := resolver.Resolve(context.Background(), test)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, "q1", resolved[0].ID)
}
