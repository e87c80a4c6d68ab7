package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Passage is one ranked reference passage returned for a question.
type Passage struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Searcher retrieves reference passages for a question from one collection of
// course material.
type Searcher interface {
	Search(ctx context.Context, question string) ([]Passage, error)
}

// Config holds the semantic index endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	TopK    int
	Logger  zerolog.Logger
}

// Client queries the external semantic index over HTTP, scoped to one
// collection.
type Client struct {
	baseURL    string
	collection string
	topK       int
	http       *http.Client
	logger     zerolog.Logger
}

// New builds a retrieval client for a single collection.
func New(cfg Config, collection string) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("retrieval base url is required")
	}

	if collection == "" {
		return nil, fmt.Errorf("retrieval collection is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		collection: collection,
		topK:       topK,
		http:       &http.Client{Timeout: timeout},
		logger:     cfg.Logger.With().Str("component", "retrieval_client").Str("collection", collection).Logger(),
	}, nil
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Passages []Passage `json:"passages"`
}

// Search returns ranked passages for the question. An empty result is a valid
// outcome, meaning the index holds nothing relevant.
func (c *Client) Search(ctx context.Context, question string) ([]Passage, error) {
	payload, err := json.Marshal(searchRequest{Query: question, TopK: c.topK})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return body.Passages, nil
}
