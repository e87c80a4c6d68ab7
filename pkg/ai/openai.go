package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/evalio-go-api/internal/pacing"
)

var (
	llmDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evalio",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of LLM requests",
	}, []string{"model", "operation"})

	llmFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evalio",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of failed LLM requests",
	}, []string{"model", "operation"})
)

var scoreSchema = jsonschema.MustCompileString("score.json", `{
	"type": "object",
	"required": ["score"],
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`)

// OpenAIConfig defines configuration options for the OpenAI client.
type OpenAIConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxTokens      int
	Temperature    float32
	Pacer          pacing.Pacer
	Logger         zerolog.Logger
}

// OpenAIClient implements EquivalenceJudge, Embedder and Completer against
// the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	pacer  pacing.Pacer
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClient builds a new client using the provided configuration.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = string(openai.SmallEmbedding3)
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = pacing.Nop()
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIClient{
		client: client,
		cfg:    cfg,
		pacer:  pacer,
		tracer: otel.Tracer("github.com/noah-isme/evalio-go-api/pkg/ai/openai"),
		logger: logger,
	}, nil
}

// ScoreEquivalence asks the model how well the answer matches the reference
// material and parses the JSON score from the response.
func (c *OpenAIClient) ScoreEquivalence(parent context.Context, question, reference, answer string) (float64, error) {
	ctx, span := c.tracer.Start(parent, "openai.score_equivalence", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	if err := c.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: judgeSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildJudgePrompt(question, reference, answer),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	content, err := c.completeChat(ctx, request, "score_equivalence")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	score, err := parseScoreResponse(content)
	if err != nil {
		llmFailures.WithLabelValues(c.cfg.Model, "score_equivalence").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	return score, nil
}

// Embed returns embedding vectors for the provided texts.
func (c *OpenAIClient) Embed(parent context.Context, texts []string) ([][]float32, error) {
	ctx, span := c.tracer.Start(parent, "openai.embed", trace.WithAttributes(
		attribute.String("model", c.cfg.EmbeddingModel),
		attribute.Int("count", len(texts)),
	))
	defer span.End()

	if len(texts) == 0 {
		return nil, nil
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: texts,
	})
	llmDuration.WithLabelValues(c.cfg.EmbeddingModel, "embed").Observe(time.Since(start).Seconds())
	if err != nil {
		llmFailures.WithLabelValues(c.cfg.EmbeddingModel, "embed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		err := fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
		llmFailures.WithLabelValues(c.cfg.EmbeddingModel, "embed").Inc()
		span.RecordError(err)
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			continue
		}
		vectors[item.Index] = item.Embedding
	}

	return vectors, nil
}

// Complete generates free-form text from a prompt, used for feedback.
func (c *OpenAIClient) Complete(parent context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	if err := c.pacer.Wait(ctx); err != nil {
		return "", err
	}

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	content, err := c.completeChat(ctx, request, "complete")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return content, nil
}

func (c *OpenAIClient) completeChat(ctx context.Context, request openai.ChatCompletionRequest, operation string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	llmDuration.WithLabelValues(c.cfg.Model, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		llmFailures.WithLabelValues(c.cfg.Model, operation).Inc()
		return "", fmt.Errorf("openai %s: %w", operation, err)
	}

	if len(resp.Choices) == 0 {
		llmFailures.WithLabelValues(c.cfg.Model, operation).Inc()
		return "", fmt.Errorf("no choices returned from openai")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func judgeSystemPrompt() string {
	return "You are an automated answer grader. Compare the student answer against the reference material and respond with a " +
		"JSON object containing a single field score between 0 and 1, where 1 means the answer fully matches the reference."
}

func buildJudgePrompt(question, reference, answer string) string {
	builder := strings.Builder{}
	builder.WriteString("QUESTION: ")
	builder.WriteString(question)
	builder.WriteString("\n\n")
	builder.WriteString(reference)
	builder.WriteString("\n\n## Student Answer\n")
	builder.WriteString(answer)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseScoreResponse(content string) (float64, error) {
	var payload interface{}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return 0, fmt.Errorf("parse score json: %w", err)
	}

	if err := scoreSchema.Validate(payload); err != nil {
		return 0, fmt.Errorf("invalid score payload: %w", err)
	}

	object, ok := payload.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("invalid score payload: not an object")
	}

	score, ok := object["score"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid score payload: score is not a number")
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return score, nil
}
