package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// TestFilter narrows test queries.
type TestFilter struct {
	TeacherID string
	Subject   string
}

// TestRepository defines persistence operations for test definitions.
type TestRepository interface {
	List(ctx context.Context, filter TestFilter) ([]models.Test, error)
	GetByID(ctx context.Context, id string) (models.Test, error)
	Create(ctx context.Context, test *models.Test) error
	Update(ctx context.Context, test *models.Test) error
	Delete(ctx context.Context, id string) error
}

type testRepository struct {
	db *gorm.DB
}

// NewTestRepository instantiates a GORM-backed repository.
func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) List(ctx context.Context, filter TestFilter) ([]models.Test, error) {
	query := r.db.WithContext(ctx).Model(&models.Test{})

	if filter.TeacherID != "" {
		query = query.Where("teacher_id = ?", filter.TeacherID)
	}

	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}

	var tests []models.Test
	if err := query.Order("created_at DESC").Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testRepository) GetByID(ctx context.Context, id string) (models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).First(&test, "id = ?", id).Error; err != nil {
		return models.Test{}, err
	}

	return test, nil
}

func (r *testRepository) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) Update(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *testRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Test{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
