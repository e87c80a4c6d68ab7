package evaluation

import (
	"sort"
	"time"
)

// Component identifies one of the independent scoring signals.
type Component string

const (
	ComponentContext     Component = "context"
	ComponentPlagiarism  Component = "plagiarism"
	ComponentAIDetection Component = "ai_detection"
	ComponentGrammar     Component = "grammar"
	ComponentTotal       Component = "total"
)

// ScoreComponent is one scored signal. A nil *ScoreComponent on the owning
// record means the stage never ran, which is distinct from a zero score.
type ScoreComponent struct {
	Score       float64   `json:"score"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Feedback is a generated natural-language critique.
type Feedback struct {
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}

// QuestionScores groups the component scores of one question.
type QuestionScores struct {
	Context     *ScoreComponent `json:"context,omitempty"`
	Plagiarism  *ScoreComponent `json:"plagiarism,omitempty"`
	AIDetection *ScoreComponent `json:"ai_detection,omitempty"`
	Grammar     *ScoreComponent `json:"grammar,omitempty"`
	Total       *ScoreComponent `json:"total,omitempty"`
}

// QuestionEvaluation carries the signals and outcome for a single question.
type QuestionEvaluation struct {
	QuestionNumber int            `json:"question_number"`
	Scores         QuestionScores `json:"scores"`
	Feedback       *Feedback      `json:"feedback,omitempty"`
}

// OverallScores averages the per-question components; Total is in grading points.
type OverallScores struct {
	Context     *ScoreComponent `json:"context,omitempty"`
	Plagiarism  *ScoreComponent `json:"plagiarism,omitempty"`
	AIDetection *ScoreComponent `json:"ai_detection,omitempty"`
	Grammar     *ScoreComponent `json:"grammar,omitempty"`
	Total       *ScoreComponent `json:"total,omitempty"`
}

// Record is the evaluation document for one submission, keyed by
// (course_id, assignment_id, submission_id).
type Record struct {
	CourseID        int64                `json:"course_id"`
	AssignmentID    int64                `json:"assignment_id"`
	SubmissionID    int64                `json:"submission_id"`
	Questions       []QuestionEvaluation `json:"questions"`
	OverallScores   OverallScores        `json:"overall_scores"`
	OverallFeedback *Feedback            `json:"overall_feedback,omitempty"`
	ReportURL       string               `json:"report_url,omitempty"`
}

// Question returns the evaluation for the given question number, creating it
// in place when absent. Questions stay sorted by number.
func (r *Record) Question(number int) *QuestionEvaluation {
	for i := range r.Questions {
		if r.Questions[i].QuestionNumber == number {
			return &r.Questions[i]
		}
	}

	r.Questions = append(r.Questions, QuestionEvaluation{QuestionNumber: number})
	sort.Slice(r.Questions, func(i, j int) bool {
		return r.Questions[i].QuestionNumber < r.Questions[j].QuestionNumber
	})

	for i := range r.Questions {
		if r.Questions[i].QuestionNumber == number {
			return &r.Questions[i]
		}
	}

	return nil
}

// SetScore upserts a single component on one question without disturbing the
// other components.
func (q *QuestionEvaluation) SetScore(component Component, score float64, at time.Time) {
	entry := &ScoreComponent{Score: score, EvaluatedAt: at}
	switch component {
	case ComponentContext:
		q.Scores.Context = entry
	case ComponentPlagiarism:
		q.Scores.Plagiarism = entry
	case ComponentAIDetection:
		q.Scores.AIDetection = entry
	case ComponentGrammar:
		q.Scores.Grammar = entry
	case ComponentTotal:
		q.Scores.Total = entry
	}
}

// Score returns the named component, or nil when the stage has not run.
func (q QuestionEvaluation) Score(component Component) *ScoreComponent {
	switch component {
	case ComponentContext:
		return q.Scores.Context
	case ComponentPlagiarism:
		return q.Scores.Plagiarism
	case ComponentAIDetection:
		return q.Scores.AIDetection
	case ComponentGrammar:
		return q.Scores.Grammar
	case ComponentTotal:
		return q.Scores.Total
	}
	return nil
}
