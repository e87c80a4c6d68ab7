package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/evalio-go-api/internal/evaluation"
	"github.com/noah-isme/evalio-go-api/pkg/ai"
)

// FallbackFeedback replaces generated feedback when the language model stays
// unreachable through all retries.
const FallbackFeedback = "Automatic feedback could not be generated for this answer. Please review it manually."

// QuestionFeedbackInput carries everything the generator conditions on for
// one question.
type QuestionFeedbackInput struct {
	QuestionNumber int
	Question       string
	Answer         string
	Scores         evaluation.QuestionScores
}

// OverallFeedbackInput summarizes a submission for the overall critique.
type OverallFeedbackInput struct {
	QuestionFeedback []string
	Overall          evaluation.OverallScores
}

// FeedbackService produces natural-language feedback from scoring signals.
// It is read-only with respect to scores; it only ever adds feedback text.
type FeedbackService interface {
	QuestionFeedback(ctx context.Context, input QuestionFeedbackInput) string
	OverallFeedback(ctx context.Context, input OverallFeedbackInput) string
}

type feedbackService struct {
	completer ai.Completer
	sanitizer *bluemonday.Policy
	attempts  uint
	baseDelay time.Duration
	logger    zerolog.Logger
}

// NewFeedbackService constructs the feedback generator. attempts bounds the
// retries per language-model call; delays back off exponentially.
func NewFeedbackService(completer ai.Completer, attempts int, logger zerolog.Logger) FeedbackService {
	if attempts <= 0 {
		attempts = 3
	}

	return &feedbackService{
		completer: completer,
		sanitizer: bluemonday.StrictPolicy(),
		attempts:  uint(attempts),
		baseDelay: 500 * time.Millisecond,
		logger:    logger.With().Str("component", "feedback_service").Logger(),
	}
}

func (s *feedbackService) QuestionFeedback(ctx context.Context, input QuestionFeedbackInput) string {
	prompt := buildQuestionFeedbackPrompt(input)
	return s.generate(ctx, prompt, fmt.Sprintf("question %d", input.QuestionNumber))
}

func (s *feedbackService) OverallFeedback(ctx context.Context, input OverallFeedbackInput) string {
	prompt := buildOverallFeedbackPrompt(input)
	return s.generate(ctx, prompt, "overall")
}

func (s *feedbackService) generate(ctx context.Context, prompt, scope string) string {
	content, err := retry.DoWithData(
		func() (string, error) {
			return s.completer.Complete(ctx, prompt)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.baseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("scope", scope).Msg("feedback generation exhausted retries, using fallback")
		return FallbackFeedback
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(content))
	if clean == "" {
		return FallbackFeedback
	}

	return clean
}

func buildQuestionFeedbackPrompt(input QuestionFeedbackInput) string {
	builder := strings.Builder{}
	builder.WriteString("You are giving a student concise feedback on one answer. ")
	builder.WriteString("Write 2-3 sentences of constructive critique in plain prose.\n\n")
	builder.WriteString("## Question\n")
	builder.WriteString(input.Question)
	builder.WriteString("\n\n## Answer\n")
	builder.WriteString(input.Answer)
	builder.WriteString("\n\n## Signals\n")
	builder.WriteString(formatScores(input.Scores))
	return builder.String()
}

func buildOverallFeedbackPrompt(input OverallFeedbackInput) string {
	builder := strings.Builder{}
	builder.WriteString("You are summarizing feedback for a whole submission. ")
	builder.WriteString("Write 2-3 sentences covering the main strengths and weaknesses.\n\n")
	builder.WriteString("## Per-question feedback\n")
	for i, feedback := range input.QuestionFeedback {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, feedback))
	}
	builder.WriteString("\n## Average signals\n")
	builder.WriteString(formatOverall(input.Overall))
	return builder.String()
}

func formatScores(scores evaluation.QuestionScores) string {
	parts := make([]string, 0, 4)
	appendScore := func(name string, component *evaluation.ScoreComponent) {
		if component != nil {
			parts = append(parts, fmt.Sprintf("%s=%.2f", name, component.Score))
		}
	}
	appendScore("correctness", scores.Context)
	appendScore("plagiarism", scores.Plagiarism)
	appendScore("ai_likelihood", scores.AIDetection)
	appendScore("grammar", scores.Grammar)
	if len(parts) == 0 {
		return "no signals available"
	}
	return strings.Join(parts, ", ")
}

func formatOverall(overall evaluation.OverallScores) string {
	parts := make([]string, 0, 5)
	appendScore := func(name string, component *evaluation.ScoreComponent) {
		if component != nil {
			parts = append(parts, fmt.Sprintf("%s=%.2f", name, component.Score))
		}
	}
	appendScore("correctness", overall.Context)
	appendScore("plagiarism", overall.Plagiarism)
	appendScore("ai_likelihood", overall.AIDetection)
	appendScore("grammar", overall.Grammar)
	appendScore("total_points", overall.Total)
	if len(parts) == 0 {
		return "no signals available"
	}
	return strings.Join(parts, ", ")
}
