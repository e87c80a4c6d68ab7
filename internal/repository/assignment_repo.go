package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/evalio-go-api/internal/models"
)

// AssignmentRepository defines the data operations the pipeline needs over
// assignments.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id int64) (models.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}
