package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// QuestionFilter narrows question bank queries.
type QuestionFilter struct {
	Subject string
	Level   string
	Search  string
}

// QuestionRepository defines persistence operations for the question bank.
type QuestionRepository interface {
	List(ctx context.Context, filter QuestionFilter) ([]models.Question, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Question, error)
	GetByID(ctx context.Context, id string) (models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates a GORM-backed repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter) ([]models.Question, error) {
	query := r.db.WithContext(ctx).Model(&models.Question{})

	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}

	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(text) LIKE ?", pattern)
	}

	var questions []models.Question
	if err := query.Order("created_at ASC").Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return []models.Question{}, nil
	}

	var questions []models.Question
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
