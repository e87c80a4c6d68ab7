package models

import "time"

// Assignment represents an assignment whose submissions are evaluated.
type Assignment struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	CourseID    int64   `gorm:"not null;index" json:"course_id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	TotalGrade  float64 `gorm:"not null;default:100" json:"total_grade"`
	// AnswerKeyPath is the local path of the teacher's answer-key document.
	AnswerKeyPath string       `gorm:"size:512" json:"answer_key_path"`
	DueDate       time.Time    `json:"due_date"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Submissions   []Submission `json:"submissions,omitempty"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
