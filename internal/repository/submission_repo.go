package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/evalio-go-api/internal/models"
)

// SubmissionRepository defines the data operations the evaluation pipeline
// needs over submissions.
type SubmissionRepository interface {
	ListByIDs(ctx context.Context, assignmentID int64, ids []int64) ([]models.Submission, error)
	GetByID(ctx context.Context, id int64) (models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) ListByIDs(ctx context.Context, assignmentID int64, ids []int64) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("assignment_id = ?", assignmentID)

	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	var submissions []models.Submission
	if err := query.Order("id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id int64) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
