package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/evalio-go-api/internal/evaluation"
)

func component(score float64) *evaluation.ScoreComponent {
	return &evaluation.ScoreComponent{Score: score, EvaluatedAt: time.Now()}
}

func TestQuestionTotalContextOnly(t *testing.T) {
	total := QuestionTotal(evaluation.QuestionScores{Context: component(0.8)}, 50)
	require.InDelta(t, 40.0, total, 1e-9)
}

func TestQuestionTotalHardZeroOnPlagiarism(t *testing.T) {
	scores := evaluation.QuestionScores{
		Context:    component(0.9),
		Plagiarism: component(0.95),
	}
	require.Zero(t, QuestionTotal(scores, 50))
}

func TestQuestionTotalHardZeroOnAIDetection(t *testing.T) {
	scores := evaluation.QuestionScores{
		Context:     component(1.0),
		AIDetection: component(0.91),
		Grammar:     component(1.0),
	}
	require.Zero(t, QuestionTotal(scores, 100))
}

func TestQuestionTotalGraduatedPenalty(t *testing.T) {
	scores := evaluation.QuestionScores{
		Context:     component(0.8),
		Plagiarism:  component(0.3),
		AIDetection: component(0.2),
		Grammar:     component(0.9),
	}

	// penalty = 0.3*0.2 + 0.2*0.2 + (1-0.9)*0.2 = 0.12
	require.InDelta(t, 35.2, QuestionTotal(scores, 50), 1e-9)
}

func TestQuestionTotalPenaltyCeiling(t *testing.T) {
	scores := evaluation.QuestionScores{
		Context: component(1.0),
		Grammar: component(0.0),
	}

	// A terrible grammar signal alone removes at most its weighted share.
	require.InDelta(t, 80.0, QuestionTotal(scores, 100), 1e-9)

	// Even stacked signals never remove more than the ceiling.
	scores.Plagiarism = component(0.89)
	scores.AIDetection = component(0.89)
	total := QuestionTotal(scores, 100)
	require.GreaterOrEqual(t, total, 100*(1-PenaltyCeiling)-1e-9)
}

func TestQuestionTotalAbsentComponentsCarryNoPenalty(t *testing.T) {
	withGrammar := QuestionTotal(evaluation.QuestionScores{
		Context: component(0.5),
		Grammar: component(0.4),
	}, 10)
	withoutGrammar := QuestionTotal(evaluation.QuestionScores{
		Context: component(0.5),
	}, 10)

	require.Less(t, withGrammar, withoutGrammar)
	require.InDelta(t, 5.0, withoutGrammar, 1e-9)
}

func TestQuestionTotalStaysInRange(t *testing.T) {
	values := []float64{0, 0.25, 0.5, 0.75, 1}
	for _, c := range values {
		for _, p := range values {
			for _, a := range values {
				for _, g := range values {
					total := QuestionTotal(evaluation.QuestionScores{
						Context:     component(c),
						Plagiarism:  component(p),
						AIDetection: component(a),
						Grammar:     component(g),
					}, 25)
					require.GreaterOrEqual(t, total, 0.0)
					require.LessOrEqual(t, total, 25.0)
				}
			}
		}
	}
}

func TestAggregateSubmissionTwoQuestions(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record := evaluation.Record{
		CourseID:     1,
		AssignmentID: 2,
		SubmissionID: 3,
	}
	record.Question(1).SetScore(evaluation.ComponentContext, 0.8, at)
	record.Question(2).SetScore(evaluation.ComponentContext, 0.6, at)

	AggregateSubmission(&record, 50, at)

	require.InDelta(t, 40.0, record.Questions[0].Scores.Total.Score, 1e-9)
	require.InDelta(t, 30.0, record.Questions[1].Scores.Total.Score, 1e-9)

	require.NotNil(t, record.OverallScores.Total)
	require.InDelta(t, 70.0, record.OverallScores.Total.Score, 1e-2)
	require.InDelta(t, 0.7, record.OverallScores.Context.Score, 1e-9)

	// Disabled stages stay absent at the overall level too.
	require.Nil(t, record.OverallScores.Plagiarism)
	require.Nil(t, record.OverallScores.AIDetection)
	require.Nil(t, record.OverallScores.Grammar)
}

func TestAggregateSubmissionAveragesOnlyPresentComponents(t *testing.T) {
	at := time.Now()
	record := evaluation.Record{SubmissionID: 7}
	record.Question(1).SetScore(evaluation.ComponentContext, 1.0, at)
	record.Question(1).SetScore(evaluation.ComponentGrammar, 0.5, at)
	record.Question(2).SetScore(evaluation.ComponentContext, 0.5, at)

	AggregateSubmission(&record, 10, at)

	require.InDelta(t, 0.75, record.OverallScores.Context.Score, 1e-9)
	// Only question 1 carries a grammar signal; the average covers it alone.
	require.InDelta(t, 0.5, record.OverallScores.Grammar.Score, 1e-9)
}

func TestAggregateSubmissionTotalMatchesQuestionSum(t *testing.T) {
	at := time.Now()
	record := evaluation.Record{SubmissionID: 11}
	record.Question(1).SetScore(evaluation.ComponentContext, 0.33, at)
	record.Question(2).SetScore(evaluation.ComponentContext, 0.71, at)
	record.Question(3).SetScore(evaluation.ComponentContext, 0.58, at)

	AggregateSubmission(&record, 100.0/3, at)

	var sum float64
	for _, question := range record.Questions {
		sum += question.Scores.Total.Score
	}
	require.InDelta(t, sum, record.OverallScores.Total.Score, 1e-2)
}
