package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Fixed user-facing answers for terminal query failures. These are returned
// as the answer text, not as errors.
const (
	answerEmbeddingFailed = "Failed to compute an embedding for the query."
	answerNoResults       = "No recipes matching the query were found."
)

// IngestOptions control the id range, batching and concurrency of one
// ingestion run.
type IngestOptions struct {
	// StartID is the first recipe id of the range.
	StartID int
	// TotalCount is the number of ids to scan from StartID.
	TotalCount int
	// BatchSize is the number of ids fetched, embedded and inserted per batch.
	BatchSize int
	// Concurrency bounds in-flight fetches across the whole run.
	Concurrency int
}

// RecipeService orchestrates the ingestion and query pipelines. All
// collaborators are injected so tests can substitute them.
type RecipeService struct {
	fetcher  RecipeFetcher
	embedder Embedder
	llm      LanguageModel
	store    VectorStore
	topK     int
	ingest   IngestOptions
}

// NewRecipeService wires a RecipeService from its collaborators. topK is the
// number of candidates retrieved per query.
func NewRecipeService(fetcher RecipeFetcher, embedder Embedder, llm LanguageModel, store VectorStore, topK int, ingest IngestOptions) *RecipeService {
	return &RecipeService{
		fetcher:  fetcher,
		embedder: embedder,
		llm:      llm,
		store:    store,
		topK:     topK,
		ingest:   ingest,
	}
}

// QueryRecipes answers a free-text recipe query: it extracts search criteria,
// embeds the condensed query, retrieves the nearest recipes and asks the
// ranking model for the final answer. Terminal failures (no embedding, no
// search results) come back as fixed answer strings; only unexpected search
// errors are returned as errors.
func (s *RecipeService) QueryRecipes(ctx context.Context, query string) (string, error) {
	criteria := s.llm.ExtractCriteria(ctx, query)
	condensed := fmt.Sprintf("%s. Criteria: %s.", query, criteria)

	embedding := s.embedder.Embedding(ctx, condensed)
	if len(embedding) == 0 {
		return answerEmbeddingFailed, nil
	}

	texts, err := s.store.Search(ctx, embedding, s.topK)
	if err != nil {
		return "", fmt.Errorf("search recipes: %w", err)
	}
	if len(texts) == 0 {
		return answerNoResults, nil
	}

	contextText := strings.Join(texts, "\n\n")
	answer := s.llm.RerankRecipes(ctx, query, criteria, contextText)
	slog.Debug("query answered", "criteria", criteria, "candidates", len(texts))
	return answer, nil
}
