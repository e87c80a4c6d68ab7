package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseScoreResponse(t *testing.T) {
	score, err := parseScoreResponse(`{"score": 0.85}`)
	require.NoError(t, err)
	require.InDelta(t, 0.85, score, 1e-9)
}

func TestParseScoreResponseRejectsMissingScore(t *testing.T) {
	_, err := parseScoreResponse(`{"grade": 0.85}`)
	require.Error(t, err)
}

func TestParseScoreResponseRejectsOutOfSchemaRange(t *testing.T) {
	_, err := parseScoreResponse(`{"score": 1.5}`)
	require.Error(t, err)

	_, err = parseScoreResponse(`{"score": -0.2}`)
	require.Error(t, err)
}

func TestParseScoreResponseRejectsNonJSON(t *testing.T) {
	_, err := parseScoreResponse("the answer is pretty good")
	require.Error(t, err)

	_, err = parseScoreResponse(`"0.5"`)
	require.Error(t, err)
}

func TestBuildJudgePromptLayout(t *testing.T) {
	prompt := buildJudgePrompt("What is osmosis?", "Osmosis is water movement.", "Water crosses a membrane.")

	require.True(t, strings.HasPrefix(prompt, "QUESTION: What is osmosis?"))
	require.Contains(t, prompt, "Osmosis is water movement.")
	require.Contains(t, prompt, "## Student Answer\nWater crosses a membrane.")
}
