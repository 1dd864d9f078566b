package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string
	CORSOrigin string

	// OpenAI configuration
	OpenAIAPIKey   string
	EmbeddingModel string
	CriteriaModel  string
	RankingModel   string
	EmbeddingDim   int

	// Vector store configuration
	VectorDBHost     string
	VectorDBPort     string
	VectorDBUser     string
	VectorDBPassword string
	VectorDBName     string
	CollectionName   string

	// Recipe source configuration
	SourceBaseURL  string
	SourceLanguage string
	TargetLocale   string

	// Ingestion configuration
	IngestStartID     int
	IngestTotalCount  int
	IngestBatchSize   int
	IngestConcurrency int

	// Query configuration
	QueryTopK int
}

// Load creates a new Config instance from environment variables, applying
// defaults for everything except the OpenAI API key.
func Load() (*Config, error) {
	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", ""),
		ServerPort: getEnv("SERVER_PORT", "8000"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		CriteriaModel:  getEnv("OPENAI_CRITERIA_MODEL", "gpt-4o-mini"),
		RankingModel:   getEnv("OPENAI_RANKING_MODEL", "gpt-4o-mini"),

		VectorDBHost:     getEnv("VECTOR_DB_HOST", "127.0.0.1"),
		VectorDBPort:     getEnv("VECTOR_DB_PORT", "5432"),
		VectorDBUser:     getEnv("VECTOR_DB_USER", "postgres"),
		VectorDBPassword: os.Getenv("VECTOR_DB_PASSWORD"),
		VectorDBName:     getEnv("VECTOR_DB_NAME", "recipes"),
		CollectionName:   getEnv("COLLECTION_NAME", "recipes_collection"),

		SourceBaseURL:  getEnv("SOURCE_BASE_URL", "https://gb.tmmobile.vorwerk-digital.com"),
		SourceLanguage: getEnv("SOURCE_LANGUAGE", "en-GB"),
		TargetLocale:   getEnv("TARGET_LOCALE", "pl"),
	}

	var err error
	if cfg.EmbeddingDim, err = getEnvInt("EMBEDDING_DIM", 1536); err != nil {
		return nil, err
	}
	if cfg.IngestStartID, err = getEnvInt("INGEST_START_ID", 4000); err != nil {
		return nil, err
	}
	if cfg.IngestTotalCount, err = getEnvInt("INGEST_TOTAL_COUNT", 918000); err != nil {
		return nil, err
	}
	if cfg.IngestBatchSize, err = getEnvInt("INGEST_BATCH_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.IngestConcurrency, err = getEnvInt("INGEST_CONCURRENCY", 1000); err != nil {
		return nil, err
	}
	if cfg.QueryTopK, err = getEnvInt("QUERY_TOP_K", 10); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.IngestBatchSize <= 0 {
		return fmt.Errorf("INGEST_BATCH_SIZE must be positive, got %d", c.IngestBatchSize)
	}
	if c.IngestConcurrency <= 0 {
		return fmt.Errorf("INGEST_CONCURRENCY must be positive, got %d", c.IngestConcurrency)
	}
	if c.QueryTopK <= 0 {
		return fmt.Errorf("QUERY_TOP_K must be positive, got %d", c.QueryTopK)
	}
	return nil
}

// VectorDBDSN builds the PostgreSQL connection string for the vector store.
func (c *Config) VectorDBDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.VectorDBHost, c.VectorDBPort, c.VectorDBUser, c.VectorDBPassword, c.VectorDBName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
