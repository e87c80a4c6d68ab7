package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the evaluation service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	DatabaseURL string
	RedisURL    string
	NATSURL     string

	OpenAIAPIKey   string
	OpenAIModel    string
	EmbeddingModel string

	DetectorURL     string
	GrammarURL      string
	RetrievalURL    string
	RetrievalTopK   int
	ExternalTimeout time.Duration

	// Pacing intervals between consecutive calls to the same external
	// service. Zero disables pacing.
	DetectorInterval time.Duration
	GrammarInterval  time.Duration
	LLMInterval      time.Duration

	FeedbackRetries  int
	GrammarChunkSize int

	DefaultTotalGrade float64
	RunLockTTL        time.Duration
	EventsSubject     string

	EnablePlagiarism  bool
	EnableAIDetection bool
	EnableGrammar     bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EVALIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Evalio API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("retrieval.top_k", 5)
	v.SetDefault("external.timeout", "30s")
	v.SetDefault("detector.interval", "500ms")
	v.SetDefault("grammar.interval", "500ms")
	v.SetDefault("llm.interval", "1s")
	v.SetDefault("feedback.retries", 3)
	v.SetDefault("grammar.chunk_size", 60)
	v.SetDefault("grading.total_grade", 100)
	v.SetDefault("run.lock_ttl", "30m")
	v.SetDefault("events.subject", "evalio.runs")
	v.SetDefault("stage.plagiarism", true)
	v.SetDefault("stage.ai_detection", true)
	v.SetDefault("stage.grammar", true)

	timeout, err := time.ParseDuration(v.GetString("external.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid external timeout: %w", err)
	}

	parseInterval := func(key string) (time.Duration, error) {
		raw := v.GetString(key)
		if raw == "" {
			return 0, nil
		}
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return interval, nil
	}

	detectorInterval, err := parseInterval("detector.interval")
	if err != nil {
		return Config{}, err
	}

	grammarInterval, err := parseInterval("grammar.interval")
	if err != nil {
		return Config{}, err
	}

	llmInterval, err := parseInterval("llm.interval")
	if err != nil {
		return Config{}, err
	}

	lockTTL, err := parseInterval("run.lock_ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		EmbeddingModel:    v.GetString("embedding.model"),
		DetectorURL:       v.GetString("detector.url"),
		GrammarURL:        v.GetString("grammar.url"),
		RetrievalURL:      v.GetString("retrieval.url"),
		RetrievalTopK:     v.GetInt("retrieval.top_k"),
		ExternalTimeout:   timeout,
		DetectorInterval:  detectorInterval,
		GrammarInterval:   grammarInterval,
		LLMInterval:       llmInterval,
		FeedbackRetries:   v.GetInt("feedback.retries"),
		GrammarChunkSize:  v.GetInt("grammar.chunk_size"),
		DefaultTotalGrade: v.GetFloat64("grading.total_grade"),
		RunLockTTL:        lockTTL,
		EventsSubject:     v.GetString("events.subject"),
		EnablePlagiarism:  v.GetBool("stage.plagiarism"),
		EnableAIDetection: v.GetBool("stage.ai_detection"),
		EnableGrammar:     v.GetBool("stage.grammar"),
	}

	if cfg.RetrievalTopK <= 0 {
		cfg.RetrievalTopK = 5
	}

	if cfg.FeedbackRetries <= 0 {
		cfg.FeedbackRetries = 3
	}

	if cfg.GrammarChunkSize <= 0 {
		cfg.GrammarChunkSize = 60
	}

	if cfg.DefaultTotalGrade <= 0 {
		cfg.DefaultTotalGrade = 100
	}

	return cfg, nil
}
