// Package vectorstore implements the recipe vector store on PostgreSQL with
// the pgvector extension. A "collection" is one table with a fixed schema
// (recipe id, title, condensed text, embedding) plus an inverted-file ANN
// index over the embedding column.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

const (
	// ivfLists is the number of inverted-file partitions of the ANN index.
	ivfLists = 128
	// ivfProbes is the number of partitions probed per search.
	ivfProbes = 10
)

// Table names cannot be bound as statement parameters, so the collection
// name is restricted to a safe identifier instead.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store owns a single named collection in the vector database. All methods
// are safe for concurrent use; the pool is shared across the process.
type Store struct {
	pool       *pgxpool.Pool
	collection string
	dim        int
}

// NewStore connects to the vector database at dsn and returns a Store bound
// to the given collection name and embedding dimension. The dimension must
// match the embedding model output (e.g. 1536 for text-embedding-3-small).
func NewStore(ctx context.Context, dsn, collection string, dim int) (*Store, error) {
	if !identifierPattern.MatchString(collection) {
		return nil, fmt.Errorf("vectorstore: invalid collection name %q", collection)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("vectorstore: invalid embedding dimension %d", dim)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: parse dsn: %w", err)
	}

	// Register pgvector types on every new connection so vector columns can
	// be written from and scanned into pgvector.Vector values.
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("vectorstore: ping: %w", err)
	}

	return &Store{pool: pool, collection: collection, dim: dim}, nil
}

// Collection returns the name of the owned collection.
func (s *Store) Collection() string { return s.collection }

// CreateCollection drops any existing collection with the owned name and
// creates a fresh one. Ingestion is a full rebuild, not an append.
func (s *Store) CreateCollection(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("vectorstore: create extension: %w", err)
	}

	slog.Info("recreating collection", "collection", s.collection)
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", s.collection)); err != nil {
		return fmt.Errorf("vectorstore: drop collection %s: %w", s.collection, err)
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE %s (
			recipe_id      VARCHAR(100) PRIMARY KEY,
			title          VARCHAR(200) NOT NULL DEFAULT '',
			condensed_text TEXT         NOT NULL DEFAULT '',
			embedding      vector(%d)   NOT NULL
		)`, s.collection, s.dim)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("vectorstore: create collection %s: %w", s.collection, err)
	}

	return nil
}

// BuildIndex builds the inverted-file L2 ANN index over the embedding column.
// It is idempotent: an already existing index is left untouched.
func (s *Store) BuildIndex(ctx context.Context) error {
	stmt := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_embedding ON %s USING ivfflat (embedding vector_l2_ops) WITH (lists = %d)",
		s.collection, s.collection, ivfLists,
	)
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("vectorstore: build index on %s: %w", s.collection, err)
	}
	slog.Info("index ready", "collection", s.collection)
	return nil
}

// InsertBatch appends one batch of rows. All four slices must have equal
// length and be positionally aligned. The batch is written in a single
// transaction, so once InsertBatch returns the rows are visible to searches.
func (s *Store) InsertBatch(ctx context.Context, ids, titles, texts []string, embeddings [][]float32) error {
	if len(ids) != len(titles) || len(ids) != len(texts) || len(ids) != len(embeddings) {
		return fmt.Errorf("vectorstore: insert batch: misaligned columns (%d ids, %d titles, %d texts, %d embeddings)",
			len(ids), len(titles), len(texts), len(embeddings))
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([][]any, len(ids))
	for i := range ids {
		rows[i] = []any{ids[i], titles[i], texts[i], pgvector.NewVector(embeddings[i])}
	}

	_, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{s.collection},
		[]string{"recipe_id", "title", "condensed_text", "embedding"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("vectorstore: insert batch into %s: %w", s.collection, err)
	}
	return nil
}

// Search returns the condensed texts of the topK entries nearest to the query
// embedding by L2 distance, ordered by non-decreasing distance. ivfProbes
// partitions are probed per search.
func (s *Store) Search(ctx context.Context, embedding []float32, topK int) ([]string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: search %s: begin: %w", s.collection, err)
	}
	defer tx.Rollback(ctx)

	// SET LOCAL scopes the probe count to this transaction.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL ivfflat.probes = %d", ivfProbes)); err != nil {
		return nil, fmt.Errorf("vectorstore: search %s: set probes: %w", s.collection, err)
	}

	q := fmt.Sprintf(`
		SELECT condensed_text, embedding <-> $1 AS distance
		FROM   %s
		ORDER  BY distance
		LIMIT  $2`, s.collection)

	rows, err := tx.Query(ctx, q, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: search %s: %w", s.collection, err)
	}

	texts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var (
			text     string
			distance float64
		)
		if err := row.Scan(&text, &distance); err != nil {
			return "", err
		}
		return text, nil
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: scan rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("vectorstore: search %s: commit: %w", s.collection, err)
	}
	return texts, nil
}

// Close releases all connections held by the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}
