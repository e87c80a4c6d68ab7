package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/evalio-go-api/internal/models"
)

// GradeRepository maintains the relational mirror of evaluation aggregates.
type GradeRepository interface {
	Upsert(ctx context.Context, grade *models.SubmissionGrade) error
	GetBySubmission(ctx context.Context, submissionID int64) (models.SubmissionGrade, error)
	DeleteByAssignment(ctx context.Context, assignmentID int64) error
	// WithTx runs fn inside one transaction; the relational mirror for a run
	// commits atomically or not at all.
	WithTx(ctx context.Context, fn func(repo GradeRepository) error) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Upsert(ctx context.Context, grade *models.SubmissionGrade) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "submission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_score", "plagiarism_score", "ai_detection_score",
			"grammar_score", "feedback", "question_scores", "updated_at",
		}),
	}).Create(grade).Error
}

func (r *gradeRepository) GetBySubmission(ctx context.Context, submissionID int64) (models.SubmissionGrade, error) {
	var grade models.SubmissionGrade
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&grade).Error; err != nil {
		return models.SubmissionGrade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&models.SubmissionGrade{}).Error
}

func (r *gradeRepository) WithTx(ctx context.Context, fn func(repo GradeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gradeRepository{db: tx})
	})
}
