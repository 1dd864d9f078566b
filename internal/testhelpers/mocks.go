// Package testhelpers provides hand-written mocks for the service
// collaborators. All mocks are safe for concurrent use so ingestion tests can
// exercise the fan-out path.
package testhelpers

import (
	"context"
	"sync"

	"github.com/jsobczak/cookidoo-agent/internal/source"
)

// MockFetcher is a RecipeFetcher backed by a function.
type MockFetcher struct {
	RecipeDetailsFunc func(ctx context.Context, id int) (*source.RecipeDetails, error)

	mu    sync.Mutex
	calls []int
}

func (m *MockFetcher) RecipeDetails(ctx context.Context, id int) (*source.RecipeDetails, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	return m.RecipeDetailsFunc(ctx, id)
}

// Calls returns the ids fetched so far, in call order.
func (m *MockFetcher) Calls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.calls...)
}

// MockEmbedder is an Embedder backed by a function. If EmbeddingFunc is nil
// it returns a fixed three-dimensional vector.
type MockEmbedder struct {
	EmbeddingFunc func(ctx context.Context, text string) []float32

	mu    sync.Mutex
	texts []string
}

func (m *MockEmbedder) Embedding(ctx context.Context, text string) []float32 {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.EmbeddingFunc != nil {
		return m.EmbeddingFunc(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}
}

// Texts returns the texts embedded so far, in call order.
func (m *MockEmbedder) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// MockLanguageModel is a LanguageModel with canned outputs. It records the
// arguments of every RerankRecipes call.
type MockLanguageModel struct {
	Criteria string
	Answer   string

	mu          sync.Mutex
	rerankCalls []RerankCall
}

// RerankCall captures one RerankRecipes invocation.
type RerankCall struct {
	Query       string
	Criteria    string
	ContextText string
}

func (m *MockLanguageModel) ExtractCriteria(ctx context.Context, query string) string {
	if m.Criteria == "" {
		return query
	}
	return m.Criteria
}

func (m *MockLanguageModel) RerankRecipes(ctx context.Context, query, criteria, contextText string) string {
	m.mu.Lock()
	m.rerankCalls = append(m.rerankCalls, RerankCall{Query: query, Criteria: criteria, ContextText: contextText})
	m.mu.Unlock()
	return m.Answer
}

// RerankCalls returns the recorded RerankRecipes invocations.
func (m *MockLanguageModel) RerankCalls() []RerankCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RerankCall(nil), m.rerankCalls...)
}

// InsertedBatch is one recorded InsertBatch call.
type InsertedBatch struct {
	IDs        []string
	Titles     []string
	Texts      []string
	Embeddings [][]float32
}

// MockVectorStore is an in-memory VectorStore that records every call.
type MockVectorStore struct {
	SearchResults []string
	SearchErr     error

	mu                sync.Mutex
	createCollections int
	indexBuilds       int
	batches           []InsertedBatch
	searches          [][]float32
}

func (m *MockVectorStore) CreateCollection(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCollections++
	m.batches = nil
	return nil
}

func (m *MockVectorStore) BuildIndex(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexBuilds++
	return nil
}

func (m *MockVectorStore) InsertBatch(ctx context.Context, ids, titles, texts []string, embeddings [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, InsertedBatch{
		IDs:        append([]string(nil), ids...),
		Titles:     append([]string(nil), titles...),
		Texts:      append([]string(nil), texts...),
		Embeddings: append([][]float32(nil), embeddings...),
	})
	return nil
}

func (m *MockVectorStore) Search(ctx context.Context, embedding []float32, topK int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, append([]float32(nil), embedding...))
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if len(m.SearchResults) > topK {
		return m.SearchResults[:topK], nil
	}
	return m.SearchResults, nil
}

// CreateCollections returns how many times the collection was recreated.
func (m *MockVectorStore) CreateCollections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCollections
}

// IndexBuilds returns how many times the index was built.
func (m *MockVectorStore) IndexBuilds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexBuilds
}

// Batches returns the recorded InsertBatch calls in order.
func (m *MockVectorStore) Batches() []InsertedBatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]InsertedBatch(nil), m.batches...)
}

// Searches returns the query embeddings seen so far.
func (m *MockVectorStore) Searches() [][]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]float32(nil), m.searches...)
}
