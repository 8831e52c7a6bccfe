// Package config builds the process-wide configuration once at startup.
//
// Values are layered: struct defaults, then an optional YAML file, then the
// environment (after loading a .env file if one exists). The resulting Config
// is passed explicitly to every component; nothing reads the environment
// after Load returns.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Catalog CatalogConfig  `koanf:"catalog"`
	Index   IndexConfig    `koanf:"index"`
	LLM     LLMConfig      `koanf:"llm"`
	Chat    ChatConfig     `koanf:"chat"`
	Storage StorageConfig  `koanf:"storage"`
	Logging logging.Config `koanf:"logging"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`

	// RecommendPerMinute limits POST /recommend per client IP; 0 disables.
	RecommendPerMinute int `koanf:"recommend_per_minute" validate:"gte=0"`
	RecommendBurst     int `koanf:"recommend_burst" validate:"gte=0"`

	// AllowedOrigins extends the private-network CORS allowlist.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig configures the TMDB catalog client.
type CatalogConfig struct {
	APIKey          string        `koanf:"api_key"`
	BaseURL         string        `koanf:"base_url" validate:"required,url"`
	ImageBaseURL    string        `koanf:"image_base_url" validate:"required,url"`
	PosterSize      string        `koanf:"poster_size" validate:"required"`
	Language        string        `koanf:"language"`
	Timeout         time.Duration `koanf:"timeout" validate:"gte=0"`
	IncludeOverview bool          `koanf:"include_overview"`

	// BreakerFailures is the consecutive failure count that opens the
	// circuit breaker; 0 disables it.
	BreakerFailures int           `koanf:"breaker_failures" validate:"gte=0"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gte=0"`
}

// IndexConfig configures chunking, embeddings and the vector store.
type IndexConfig struct {
	Store        string `koanf:"store" validate:"oneof=memory qdrant"`
	ChunkSize    int    `koanf:"chunk_size" validate:"gte=1"`
	ChunkOverlap int    `koanf:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`

	TopK       int     `koanf:"top_k" validate:"gte=1"`
	SearchType string  `koanf:"search_type" validate:"oneof=similarity mmr"`
	FetchK     int     `koanf:"fetch_k" validate:"gte=0"`
	MMRLambda  float64 `koanf:"mmr_lambda" validate:"gte=0,lte=1"`

	// Embedder defaults to the offline hashing embedder, which matches on
	// shared words only. Semantic retrieval with the MiniLM model the
	// chatbot was first built on needs embedder=ollama and
	// embed_model=all-minilm (the ollama default).
	Embedder         string `koanf:"embedder" validate:"oneof=hashing openai gemini ollama"`
	EmbedModel       string `koanf:"embed_model"`
	EmbedDimensions  int    `koanf:"embed_dimensions" validate:"gte=0"`
	EmbedBatchSize   int    `koanf:"embed_batch_size" validate:"gte=1"`
	EmbedConcurrency int    `koanf:"embed_concurrency" validate:"gte=1"`
	CacheDir         string `koanf:"cache_dir"`

	OllamaHost string `koanf:"ollama_host"`

	QdrantHost   string `koanf:"qdrant_host"`
	QdrantPort   int    `koanf:"qdrant_port" validate:"gte=0,lte=65535"`
	QdrantAPIKey string `koanf:"qdrant_api_key"`
	QdrantTLS    bool   `koanf:"qdrant_tls"`
}

// LLMConfig selects and configures the chat model provider. An empty Model
// selects the provider default.
type LLMConfig struct {
	Provider    string        `koanf:"provider" validate:"oneof=openai gemini claude"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `koanf:"max_tokens" validate:"gte=0"`
	Timeout     time.Duration `koanf:"timeout" validate:"gte=0"`

	// MaxAttempts of 1 means a failed call is not retried.
	MaxAttempts       int `koanf:"max_attempts" validate:"gte=1"`
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"gte=0"`

	OpenAIAPIKey    string `koanf:"openai_api_key"`
	OpenAIBaseURL   string `koanf:"openai_base_url"`
	GeminiAPIKey    string `koanf:"gemini_api_key"`
	AnthropicAPIKey string `koanf:"anthropic_api_key"`
}

// ChatConfig controls conversation memory and prompt assembly.
type ChatConfig struct {
	HistoryTurns       int           `koanf:"history_turns" validate:"gte=0"`
	ContextTokenBudget int           `koanf:"context_token_budget" validate:"gte=0"`
	SessionTTL         time.Duration `koanf:"session_ttl" validate:"gte=0"`
}

// StorageConfig locates the conversation database.
type StorageConfig struct {
	DatabasePath string `koanf:"database_path" validate:"required"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8000,
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       120 * time.Second,
			RecommendPerMinute: 20,
			RecommendBurst:     5,
		},
		Catalog: CatalogConfig{
			BaseURL:         "https://api.themoviedb.org/3",
			ImageBaseURL:    "https://image.tmdb.org/t/p",
			PosterSize:      "w500",
			Language:        "en-US",
			Timeout:         15 * time.Second,
			IncludeOverview: true,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Index: IndexConfig{
			Store:            "memory",
			ChunkSize:        1000,
			ChunkOverlap:     200,
			TopK:             4,
			SearchType:       "similarity",
			FetchK:           20,
			MMRLambda:        0.5,
			Embedder:         "hashing",
			EmbedDimensions:  384,
			EmbedBatchSize:   64,
			EmbedConcurrency: 4,
			CacheDir:         "data/embeddings",
			QdrantHost:       "localhost",
			QdrantPort:       6334,
		},
		LLM: LLMConfig{
			Provider:          "openai",
			Temperature:       0,
			MaxTokens:         1024,
			Timeout:           60 * time.Second,
			MaxAttempts:       1,
			RequestsPerMinute: 60,
		},
		Chat: ChatConfig{
			HistoryTurns:       10,
			ContextTokenBudget: 3000,
			SessionTTL:         24 * time.Hour,
		},
		Storage: StorageConfig{
			DatabasePath: "data/chatbot.db",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate checks structural values. Credentials are deliberately not
// required here; a missing key surfaces as an upstream auth failure.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
