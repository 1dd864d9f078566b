package service

import (
	"context"

	"github.com/jsobczak/cookidoo-agent/internal/source"
)

// RecipeFetcher fetches one recipe record by numeric id. A nil record with a
// nil error means the id exists but was filtered out (wrong locale); a non-nil
// error means the id produced no record at all. Both are skipped by ingestion.
type RecipeFetcher interface {
	RecipeDetails(ctx context.Context, id int) (*source.RecipeDetails, error)
}

// Embedder converts text into an embedding vector. An empty vector signals
// that the computation failed and must short-circuit downstream use.
type Embedder interface {
	Embedding(ctx context.Context, text string) []float32
}

// LanguageModel covers the two chat-completion roles of the pipelines.
// Neither method fails: ExtractCriteria falls back to the raw query and
// RerankRecipes returns a fixed error string.
type LanguageModel interface {
	ExtractCriteria(ctx context.Context, query string) string
	RerankRecipes(ctx context.Context, query, criteria, contextText string) string
}

// VectorStore is the collection-bound storage used by the pipelines.
type VectorStore interface {
	CreateCollection(ctx context.Context) error
	BuildIndex(ctx context.Context) error
	InsertBatch(ctx context.Context, ids, titles, texts []string, embeddings [][]float32) error
	Search(ctx context.Context, embedding []float32, topK int) ([]string, error)
}

// IRecipeService is the surface the HTTP handlers depend on.
type IRecipeService interface {
	QueryRecipes(ctx context.Context, query string) (string, error)
	StartIngestion(ctx context.Context) *IngestJob
}
