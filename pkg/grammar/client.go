package grammar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/noah-isme/evalio-go-api/internal/pacing"
)

var (
	correctDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evalio",
		Subsystem: "grammar",
		Name:      "request_duration_seconds",
		Help:      "Duration of grammar correction requests",
	})

	correctFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "evalio",
		Subsystem: "grammar",
		Name:      "request_failures_total",
		Help:      "Number of failed grammar correction requests",
	})
)

// Corrector returns a grammatically corrected version of a full answer.
type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// Config holds the grammar service endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// MaxChunkWords bounds the size of a single correction request for
	// sentences the boundary splitter cannot break up.
	MaxChunkWords int
	Pacer         pacing.Pacer
	Logger        zerolog.Logger
}

// Client corrects text chunk-by-chunk through an external service. Chunks
// whose calls fail pass through uncorrected so one flaky request never
// discards a whole answer.
type Client struct {
	baseURL       string
	http          *http.Client
	maxChunkWords int
	pacer         pacing.Pacer
	logger        zerolog.Logger
}

// New builds a grammar correction client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("grammar base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if cfg.MaxChunkWords <= 0 {
		cfg.MaxChunkWords = 60
	}

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = pacing.Nop()
	}

	return &Client{
		baseURL:       cfg.BaseURL,
		http:          &http.Client{Timeout: timeout},
		maxChunkWords: cfg.MaxChunkWords,
		pacer:         pacer,
		logger:        cfg.Logger.With().Str("component", "grammar_client").Logger(),
	}, nil
}

// Correct splits the text into chunks, corrects each through the service with
// pacing between calls, and reassembles the result.
func (c *Client) Correct(ctx context.Context, text string) (string, error) {
	chunks := SplitChunks(text, c.maxChunkWords)
	if len(chunks) == 0 {
		return text, nil
	}

	corrected := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if err := c.pacer.Wait(ctx); err != nil {
			return "", err
		}

		fixed, err := c.correctChunk(ctx, chunk)
		if err != nil {
			c.logger.Warn().Err(err).Msg("grammar chunk correction failed, keeping original")
			fixed = chunk
		}
		corrected = append(corrected, fixed)
	}

	return strings.Join(corrected, " "), nil
}

type correctRequest struct {
	Text string `json:"text"`
}

type correctResponse struct {
	Corrected string `json:"corrected"`
}

func (c *Client) correctChunk(ctx context.Context, chunk string) (string, error) {
	payload, err := json.Marshal(correctRequest{Text: chunk})
	if err != nil {
		return "", fmt.Errorf("marshal correct request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/correct", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build correct request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	correctDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		correctFailures.Inc()
		return "", fmt.Errorf("correct request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		correctFailures.Inc()
		return "", fmt.Errorf("correct request: unexpected status %d", resp.StatusCode)
	}

	var body correctResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		correctFailures.Inc()
		return "", fmt.Errorf("decode correct response: %w", err)
	}

	return body.Corrected, nil
}
