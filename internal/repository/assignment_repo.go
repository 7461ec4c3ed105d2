package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// AssignmentFilter narrows assignment queries. Nil fields are omitted from
// the query entirely.
type AssignmentFilter struct {
	StudentID *string
	TestID    *string
	Status    *string
}

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error)
	GetByID(ctx context.Context, id string) (models.Assignment, error)
	CreateBatch(ctx context.Context, assignments []models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.TestID != nil {
		query = query.Where("test_id = ?", *filter.TestID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var assignments []models.Assignment
	if err := query.Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

// CreateBatch inserts the whole fan-out as a single multi-row insert. The
// store's atomicity guarantee for that statement is inherited as-is; a failure
// is surfaced to the caller, never reported as partial success.
func (r *assignmentRepository) CreateBatch(ctx context.Context, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
