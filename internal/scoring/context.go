package scoring

// Context-score signal weights. The reference-aware judge dominates; raw
// embedding similarity against the reference and topical relevance against
// the question act as correctives.
const (
	ContextJudgeWeight     = 0.7
	ContextReferenceWeight = 0.2
	ContextQuestionWeight  = 0.1
)

// ContextSignals carries the three normalized similarity signals that make up
// the context score for one answer.
type ContextSignals struct {
	Judge     float64
	Reference float64
	Question  float64
}

// Combine folds the signals into one normalized context score.
func (s ContextSignals) Combine() float64 {
	combined := clamp01(s.Judge)*ContextJudgeWeight +
		clamp01(s.Reference)*ContextReferenceWeight +
		clamp01(s.Question)*ContextQuestionWeight
	return clamp01(combined)
}
