package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSinglePair(t *testing.T) {
	set, err := Extract("Question#1: What is X?Answer#1: X is Y.")
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	question, ok := set.Question(1)
	require.True(t, ok)
	require.Equal(t, "What is X?", question)

	answer, ok := set.Answer(1)
	require.True(t, ok)
	require.Equal(t, "X is Y.", answer)
}

func TestExtractMultiplePairsOutOfOrder(t *testing.T) {
	raw := `Question#2: Describe osmosis.
Answer#2: Movement of water across a membrane.
Question#1: Define diffusion.
Answer#1: Movement of particles from high to low concentration.`

	set, err := Extract(raw)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	// Pairs come back sorted by question number regardless of document order.
	require.Equal(t, 1, set.Pairs[0].Number)
	require.Equal(t, 2, set.Pairs[1].Number)
	require.Equal(t, "Define diffusion.", set.Pairs[0].Question)
}

func TestExtractCollapsesWhitespace(t *testing.T) {
	raw := "Question#1:   What  is\n\n photosynthesis? Answer#1:  It   converts\tlight\ninto energy."
	set, err := Extract(raw)
	require.NoError(t, err)

	require.Equal(t, "What is photosynthesis?", set.Pairs[0].Question)
	require.Equal(t, "It converts light into energy.", set.Pairs[0].Answer)
}

func TestExtractQuestionWithoutAnswer(t *testing.T) {
	set, err := Extract("Question#1: What is entropy? Question#2: Define enthalpy. Answer#2: Heat content.")
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	answer, ok := set.Answer(1)
	require.True(t, ok)
	require.Empty(t, answer)

	answer, ok = set.Answer(2)
	require.True(t, ok)
	require.Equal(t, "Heat content.", answer)
}

func TestExtractNoMarkers(t *testing.T) {
	_, err := Extract("An essay with no structure whatsoever, just prose.")
	require.ErrorIs(t, err, ErrNoMarkers)

	_, err = Extract("")
	require.ErrorIs(t, err, ErrNoMarkers)
}

func TestExtractMapForm(t *testing.T) {
	set, err := Extract("Question#1: What is X?Answer#1: X is Y.")
	require.NoError(t, err)

	require.Equal(t, map[string]string{
		"Question#1": "What is X?",
		"Answer#1":   "X is Y.",
	}, set.Map())
}

func TestBackfillMissingQuestions(t *testing.T) {
	teacher, err := Extract("Question#1: Q one? Answer#1: key one. Question#2: Q two? Answer#2: key two.")
	require.NoError(t, err)

	student, err := Extract("Question#1: Q one? Answer#1: my answer.")
	require.NoError(t, err)

	filled := Backfill(teacher, student)
	require.Equal(t, 2, filled.Len())

	answer, ok := filled.Answer(1)
	require.True(t, ok)
	require.Equal(t, "my answer.", answer)

	// The skipped question is present with an empty answer, not absent.
	answer, ok = filled.Answer(2)
	require.True(t, ok)
	require.Empty(t, answer)

	question, ok := filled.Question(2)
	require.True(t, ok)
	require.Equal(t, "Q two?", question)
}

func TestBackfillDropsExtraStudentQuestions(t *testing.T) {
	teacher, err := Extract("Question#1: Q one? Answer#1: key.")
	require.NoError(t, err)

	student, err := Extract("Question#1: Q one? Answer#1: fine. Question#9: made up? Answer#9: noise.")
	require.NoError(t, err)

	filled := Backfill(teacher, student)
	require.Equal(t, 1, filled.Len())

	_, ok := filled.Answer(9)
	require.False(t, ok)
}
