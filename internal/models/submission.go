package models

import "time"

// Submission represents a document submitted by a student for an assignment.
// The extracted answer text lives in the QA-extraction store; only the local
// path of the source document is tracked here.
type Submission struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	AssignmentID int64      `gorm:"not null;index" json:"assignment_id"`
	StudentID    int64      `gorm:"not null;index" json:"student_id"`
	FilePath     string     `gorm:"size:512" json:"file_path"`
	Status       string     `gorm:"size:32;not null" json:"status"`
	Grade        *float64   `json:"grade"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
}

const (
	// SubmissionStatusSubmitted indicates the submission has been uploaded but not evaluated.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded indicates the evaluation pipeline has produced a grade.
	SubmissionStatusGraded = "graded"
)

// IsGraded reports whether the submission has a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
