package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"vidhi-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	// Secondary embedding endpoint used when the primary provider fails.
	EmbeddingFallbackURL string `envconfig:"EMBEDDING_FALLBACK_URL"`
	EmbeddingDimensions  int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1024"`

	// Google Programmable Search, used when retrieval finds nothing.
	SearchAPIKey   string `envconfig:"SEARCH_API_KEY"`
	SearchEngineID string `envconfig:"SEARCH_ENGINE_ID"`

	ChunkSize        int     `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap     int     `envconfig:"CHUNK_OVERLAP" default:"200"`
	SearchThreshold  float64 `envconfig:"SEARCH_THRESHOLD" default:"0.7"`
	SearchLimit      int     `envconfig:"SEARCH_LIMIT" default:"5"`
	EmbedConcurrency int     `envconfig:"EMBED_CONCURRENCY" default:"5"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("VIDHI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

func (c *Config) HasWebSearch() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}
