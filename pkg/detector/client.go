package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/noah-isme/evalio-go-api/internal/pacing"
)

var (
	detectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evalio",
		Subsystem: "detector",
		Name:      "request_duration_seconds",
		Help:      "Duration of AI-content classifier requests",
	})

	detectFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "evalio",
		Subsystem: "detector",
		Name:      "request_failures_total",
		Help:      "Number of failed AI-content classifier requests",
	})
)

// Detector classifies text as machine-generated with a probability in [0,1].
type Detector interface {
	Detect(ctx context.Context, text string) (float64, error)
}

// Config holds the classifier endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Pacer   pacing.Pacer
	Logger  zerolog.Logger
}

// Client calls an external binary classifier over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	pacer   pacing.Pacer
	logger  zerolog.Logger
}

// New builds a classifier client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("detector base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = pacing.Nop()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		pacer:   pacer,
		logger:  cfg.Logger.With().Str("component", "detector_client").Logger(),
	}, nil
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Probability float64 `json:"probability"`
}

// Detect sends the text to the classifier and returns the probability that it
// is machine-generated.
func (c *Client) Detect(ctx context.Context, text string) (float64, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	payload, err := json.Marshal(detectRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	detectDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		detectFailures.Inc()
		return 0, fmt.Errorf("detect request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detectFailures.Inc()
		return 0, fmt.Errorf("detect request: unexpected status %d", resp.StatusCode)
	}

	var body detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		detectFailures.Inc()
		return 0, fmt.Errorf("decode detect response: %w", err)
	}

	if body.Probability < 0 {
		body.Probability = 0
	}
	if body.Probability > 1 {
		body.Probability = 1
	}

	return body.Probability, nil
}
