// Package openai wraps the OpenAI API for the three model roles the
// assistant needs: text embeddings, query criteria extraction and final
// recipe re-ranking.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

const criteriaSystemPrompt = "You are an assistant that extracts key search criteria from queries against a vector database."

const rankingSystemPrompt = "You are an assistant that selects the best recipes based on the given criteria."

// rerankFailedAnswer is returned verbatim when the final ranking call fails.
const rerankFailedAnswer = "Error generating final answer."

// Client talks to the OpenAI API. The zero value is not usable; construct it
// with New.
type Client struct {
	client         oai.Client
	embeddingModel string
	criteriaModel  string
	rankingModel   string
}

// Option is a functional option for Client.
type Option func(*[]option.RequestOption)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithBaseURL(url))
	}
}

// New constructs a Client using one model per role.
func New(apiKey, embeddingModel, criteriaModel, rankingModel string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}

	// A single failed attempt is final for that unit of work; the SDK's
	// default retrying is disabled.
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	for _, o := range opts {
		o(&reqOpts)
	}

	return &Client{
		client:         oai.NewClient(reqOpts...),
		embeddingModel: embeddingModel,
		criteriaModel:  criteriaModel,
		rankingModel:   rankingModel,
	}, nil
}

// Embedding converts text into an embedding vector. On any failure it logs
// the error and returns an empty vector; callers must treat an empty vector
// as "skip this item" or "abort this query", never as a zero vector.
func (c *Client) Embedding(ctx context.Context, text string) []float32 {
	resp, err := c.client.Embeddings.New(ctx, oai.EmbeddingNewParams{
		Model: c.embeddingModel,
		Input: oai.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
	})
	if err != nil {
		slog.Error("error generating embedding", "error", err)
		return nil
	}
	if len(resp.Data) == 0 {
		slog.Error("error generating embedding: empty response")
		return nil
	}

	embedding := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float32(v)
	}
	return embedding
}

// ExtractCriteria asks the criteria model to condense a free-text query into
// a short comma-separated list of search criteria. On failure it falls back
// to the original query so downstream stages always receive criteria text.
func (c *Client) ExtractCriteria(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(
		"Based on the query below, list the most important criteria that will be used "+
			"to search a recipe vector database with embeddings. "+
			"Provide them as a short comma-separated list. "+
			"Example: 'breakfast, <500 kcal, no eggs, <30 min'\n\nQuery: %s",
		query,
	)

	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.criteriaModel),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(criteriaSystemPrompt),
			oai.UserMessage(prompt),
		},
		Temperature:         param.NewOpt(0.3),
		MaxCompletionTokens: param.NewOpt(int64(100)),
	})
	if err != nil {
		slog.Error("error extracting criteria", "error", err)
		return query
	}
	if len(resp.Choices) == 0 {
		slog.Error("error extracting criteria: empty response")
		return query
	}

	criteria := strings.TrimSpace(resp.Choices[0].Message.Content)
	slog.Info("extracted criteria", "criteria", criteria)
	return criteria
}

// RerankRecipes asks the ranking model to pick and present the best matching
// recipe(s) from the retrieved context. On failure it returns a fixed
// user-readable error string instead of propagating the error.
func (c *Client) RerankRecipes(ctx context.Context, query, criteria, contextText string) string {
	prompt := fmt.Sprintf(
		"Based on the recipes and the query below, pick the ones that best match the criteria. "+
			"A recipe should include its name, ingredients, preparation steps, calories and "+
			"preparation time. If no recipe matches the criteria, say that no recipe was found.\n\n"+
			"Query: %s\n\nCriteria: %s\n\nRecipes:\n%s\n\n"+
			"Select and present the best recipe or recipes.",
		query, criteria, contextText,
	)

	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.rankingModel),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(rankingSystemPrompt),
			oai.UserMessage(prompt),
		},
		Temperature:         param.NewOpt(0.5),
		MaxCompletionTokens: param.NewOpt(int64(500)),
	})
	if err != nil {
		slog.Error("error generating final answer", "error", err)
		return rerankFailedAnswer
	}
	if len(resp.Choices) == 0 {
		slog.Error("error generating final answer: empty response")
		return rerankFailedAnswer
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
