package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "test-key")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8000", cfg.ServerPort)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.CriteriaModel)
		assert.Equal(t, "gpt-4o-mini", cfg.RankingModel)
		assert.Equal(t, 1536, cfg.EmbeddingDim)
		assert.Equal(t, "recipes_collection", cfg.CollectionName)
		assert.Equal(t, "https://gb.tmmobile.vorwerk-digital.com", cfg.SourceBaseURL)
		assert.Equal(t, "en-GB", cfg.SourceLanguage)
		assert.Equal(t, "pl", cfg.TargetLocale)
		assert.Equal(t, 4000, cfg.IngestStartID)
		assert.Equal(t, 918000, cfg.IngestTotalCount)
		assert.Equal(t, 1000, cfg.IngestBatchSize)
		assert.Equal(t, 1000, cfg.IngestConcurrency)
		assert.Equal(t, 10, cfg.QueryTopK)
	})

	t.Run("should fail without an API key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")

		_, err := Load()
		assert.ErrorContains(t, err, "OPENAI_API_KEY")
	})

	t.Run("should honour overrides", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "test-key")
		t.Setenv("EMBEDDING_DIM", "3072")
		t.Setenv("INGEST_BATCH_SIZE", "50")
		t.Setenv("TARGET_LOCALE", "de")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 3072, cfg.EmbeddingDim)
		assert.Equal(t, 50, cfg.IngestBatchSize)
		assert.Equal(t, "de", cfg.TargetLocale)
	})

	t.Run("should reject non-integer values", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "test-key")
		t.Setenv("EMBEDDING_DIM", "big")

		_, err := Load()
		assert.ErrorContains(t, err, "EMBEDDING_DIM")
	})

	t.Run("should reject non-positive sizes", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "test-key")
		t.Setenv("INGEST_CONCURRENCY", "0")

		_, err := Load()
		assert.ErrorContains(t, err, "INGEST_CONCURRENCY")
	})
}

func TestConfig_VectorDBDSN(t *testing.T) {
	cfg := &Config{
		VectorDBHost:     "db.local",
		VectorDBPort:     "5433",
		VectorDBUser:     "agent",
		VectorDBPassword: "secret",
		VectorDBName:     "recipes",
	}
	assert.Equal(t,
		"host=db.local port=5433 user=agent password=secret dbname=recipes sslmode=disable",
		cfg.VectorDBDSN(),
	)
}
