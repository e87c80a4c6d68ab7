package dto

import (
	"time"

	"github.com/noah-isme/evalio-go-api/internal/evaluation"
)

// EvaluateOptions toggles the optional scoring stages. Omitted fields fall
// back to the service defaults; a disabled stage leaves its component absent
// on the record, it is never zero-filled.
type EvaluateOptions struct {
	EnablePlagiarism  *bool `json:"enable_plagiarism"`
	EnableAIDetection *bool `json:"enable_ai_detection"`
	EnableGrammar     *bool `json:"enable_grammar"`
}

// EvaluateRequest triggers one evaluation run over an assignment's batch.
type EvaluateRequest struct {
	CourseID      int64           `json:"course_id" validate:"required,gt=0"`
	AssignmentID  int64           `json:"assignment_id" validate:"required,gt=0"`
	SubmissionIDs []int64         `json:"submission_ids" validate:"required,min=1,dive,gt=0"`
	TotalGrade    float64         `json:"total_grade" validate:"gte=0"`
	Options       EvaluateOptions `json:"options"`
}

// ScoreComponentResponse mirrors one stored score component.
type ScoreComponentResponse struct {
	Score       float64   `json:"score"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// FeedbackResponse mirrors stored feedback.
type FeedbackResponse struct {
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}

// QuestionEvaluationResponse is the per-question slice of the run result.
type QuestionEvaluationResponse struct {
	QuestionNumber int                     `json:"question_number"`
	Context        *ScoreComponentResponse `json:"context,omitempty"`
	Plagiarism     *ScoreComponentResponse `json:"plagiarism,omitempty"`
	AIDetection    *ScoreComponentResponse `json:"ai_detection,omitempty"`
	Grammar        *ScoreComponentResponse `json:"grammar,omitempty"`
	Total          *ScoreComponentResponse `json:"total,omitempty"`
	Feedback       *FeedbackResponse       `json:"feedback,omitempty"`
}

// SubmissionEvaluationResponse is one submission's aggregate in the run result.
type SubmissionEvaluationResponse struct {
	SubmissionID    int64                        `json:"submission_id"`
	Questions       []QuestionEvaluationResponse `json:"questions"`
	Context         *ScoreComponentResponse      `json:"context,omitempty"`
	Plagiarism      *ScoreComponentResponse      `json:"plagiarism,omitempty"`
	AIDetection     *ScoreComponentResponse      `json:"ai_detection,omitempty"`
	Grammar         *ScoreComponentResponse      `json:"grammar,omitempty"`
	Total           *ScoreComponentResponse      `json:"total,omitempty"`
	OverallFeedback *FeedbackResponse            `json:"overall_feedback,omitempty"`
	ReportURL       string                       `json:"report_url,omitempty"`
}

// EvaluateResponse is the full result of one evaluation run.
type EvaluateResponse struct {
	RunID        string                         `json:"run_id"`
	CourseID     int64                          `json:"course_id"`
	AssignmentID int64                          `json:"assignment_id"`
	Submissions  []SubmissionEvaluationResponse `json:"submissions"`
}

// NewSubmissionEvaluationResponse maps a stored record into its API shape.
func NewSubmissionEvaluationResponse(record evaluation.Record) SubmissionEvaluationResponse {
	response := SubmissionEvaluationResponse{
		SubmissionID:    record.SubmissionID,
		Questions:       make([]QuestionEvaluationResponse, 0, len(record.Questions)),
		Context:         newScoreComponentResponse(record.OverallScores.Context),
		Plagiarism:      newScoreComponentResponse(record.OverallScores.Plagiarism),
		AIDetection:     newScoreComponentResponse(record.OverallScores.AIDetection),
		Grammar:         newScoreComponentResponse(record.OverallScores.Grammar),
		Total:           newScoreComponentResponse(record.OverallScores.Total),
		OverallFeedback: newFeedbackResponse(record.OverallFeedback),
		ReportURL:       record.ReportURL,
	}

	for _, question := range record.Questions {
		response.Questions = append(response.Questions, QuestionEvaluationResponse{
			QuestionNumber: question.QuestionNumber,
			Context:        newScoreComponentResponse(question.Scores.Context),
			Plagiarism:     newScoreComponentResponse(question.Scores.Plagiarism),
			AIDetection:    newScoreComponentResponse(question.Scores.AIDetection),
			Grammar:        newScoreComponentResponse(question.Scores.Grammar),
			Total:          newScoreComponentResponse(question.Scores.Total),
			Feedback:       newFeedbackResponse(question.Feedback),
		})
	}

	return response
}

func newScoreComponentResponse(component *evaluation.ScoreComponent) *ScoreComponentResponse {
	if component == nil {
		return nil
	}
	return &ScoreComponentResponse{Score: component.Score, EvaluatedAt: component.EvaluatedAt}
}

func newFeedbackResponse(feedback *evaluation.Feedback) *FeedbackResponse {
	if feedback == nil {
		return nil
	}
	return &FeedbackResponse{Content: feedback.Content, GeneratedAt: feedback.GeneratedAt}
}
