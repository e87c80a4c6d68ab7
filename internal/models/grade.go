package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmissionGrade is the denormalized relational mirror of a submission's
// evaluation aggregate, kept for systems that cannot query the document store.
// One row per submission, overwritten on re-evaluation.
type SubmissionGrade struct {
	ID               int64             `gorm:"primaryKey" json:"id"`
	SubmissionID     int64             `gorm:"not null;uniqueIndex" json:"submission_id"`
	AssignmentID     int64             `gorm:"not null;index" json:"assignment_id"`
	CourseID         int64             `gorm:"not null;index" json:"course_id"`
	TotalScore       float64           `json:"total_score"`
	PlagiarismScore  *float64          `json:"plagiarism_score"`
	AIDetectionScore *float64          `gorm:"column:ai_detection_score" json:"ai_detection_score"`
	GrammarScore     *float64          `json:"grammar_score"`
	Feedback         string            `gorm:"type:text" json:"feedback"`
	QuestionScores   datatypes.JSONMap `json:"question_scores"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
