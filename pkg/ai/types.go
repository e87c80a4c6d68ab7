package ai

import "context"

// EquivalenceJudge scores how well an answer matches the supplied reference
// material for its question, normalized to [0,1].
type EquivalenceJudge interface {
	ScoreEquivalence(ctx context.Context, question, reference, answer string) (float64, error)
}

// Embedder produces embedding vectors for the given texts, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates free-form text from a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
