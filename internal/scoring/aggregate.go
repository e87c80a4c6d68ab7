package scoring

import (
	"math"
	"time"

	"github.com/noah-isme/evalio-go-api/internal/evaluation"
)

const (
	// HardZeroThreshold forces a question to 0 points when plagiarism or
	// AI-detection exceeds it, regardless of the other signals.
	HardZeroThreshold = 0.9
	// PenaltyWeight scales each non-context signal into a graduated penalty.
	PenaltyWeight = 0.2
	// PenaltyCeiling bounds both each individual penalty and their sum, so
	// non-context factors can never remove more than 70% of earned credit.
	PenaltyCeiling = 0.7
)

// QuestionTotal combines one question's component scores into a point value.
// Absent components (stage disabled or not yet run) contribute no penalty.
func QuestionTotal(scores evaluation.QuestionScores, pointsPerQuestion float64) float64 {
	contextScore := 0.0
	if scores.Context != nil {
		contextScore = clamp01(scores.Context.Score)
	}

	base := contextScore * pointsPerQuestion

	if scores.Plagiarism != nil && scores.Plagiarism.Score > HardZeroThreshold {
		return 0
	}
	if scores.AIDetection != nil && scores.AIDetection.Score > HardZeroThreshold {
		return 0
	}

	penalty := 0.0
	if scores.Plagiarism != nil {
		penalty += math.Min(clamp01(scores.Plagiarism.Score)*PenaltyWeight, PenaltyCeiling)
	}
	if scores.AIDetection != nil {
		penalty += math.Min(clamp01(scores.AIDetection.Score)*PenaltyWeight, PenaltyCeiling)
	}
	if scores.Grammar != nil {
		penalty += math.Min((1-clamp01(scores.Grammar.Score))*PenaltyWeight, PenaltyCeiling)
	}
	penalty = math.Min(penalty, PenaltyCeiling)

	final := base * (1 - penalty)
	if final < 0 {
		final = 0
	}

	return round4(final)
}

// AggregateSubmission fills per-question totals and the submission-level
// overall scores on the record. Overall component values are the averages of
// the questions that actually carry that component; the overall total is the
// sum of question totals in grading points.
func AggregateSubmission(record *evaluation.Record, pointsPerQuestion float64, at time.Time) {
	type accumulator struct {
		sum   float64
		count int
	}

	var total float64
	acc := map[evaluation.Component]*accumulator{
		evaluation.ComponentContext:     {},
		evaluation.ComponentPlagiarism:  {},
		evaluation.ComponentAIDetection: {},
		evaluation.ComponentGrammar:     {},
	}

	for i := range record.Questions {
		question := &record.Questions[i]
		questionTotal := QuestionTotal(question.Scores, pointsPerQuestion)
		question.Scores.Total = &evaluation.ScoreComponent{Score: questionTotal, EvaluatedAt: at}
		total += questionTotal

		for component, a := range acc {
			if score := question.Score(component); score != nil {
				a.sum += score.Score
				a.count++
			}
		}
	}

	overall := evaluation.OverallScores{
		Total: &evaluation.ScoreComponent{Score: round4(total), EvaluatedAt: at},
	}
	if a := acc[evaluation.ComponentContext]; a.count > 0 {
		overall.Context = &evaluation.ScoreComponent{Score: round4(a.sum / float64(a.count)), EvaluatedAt: at}
	}
	if a := acc[evaluation.ComponentPlagiarism]; a.count > 0 {
		overall.Plagiarism = &evaluation.ScoreComponent{Score: round4(a.sum / float64(a.count)), EvaluatedAt: at}
	}
	if a := acc[evaluation.ComponentAIDetection]; a.count > 0 {
		overall.AIDetection = &evaluation.ScoreComponent{Score: round4(a.sum / float64(a.count)), EvaluatedAt: at}
	}
	if a := acc[evaluation.ComponentGrammar]; a.count > 0 {
		overall.Grammar = &evaluation.ScoreComponent{Score: round4(a.sum / float64(a.count)), EvaluatedAt: at}
	}

	record.OverallScores = overall
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
