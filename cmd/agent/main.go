// Command agent is the command-line companion to the HTTP server: it can run
// the full ingestion synchronously or answer a single query without starting
// a server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jsobczak/cookidoo-agent/config"
	"github.com/jsobczak/cookidoo-agent/internal/openai"
	"github.com/jsobczak/cookidoo-agent/internal/service"
	"github.com/jsobczak/cookidoo-agent/internal/source"
	"github.com/jsobczak/cookidoo-agent/internal/vectorstore"
)

// demoQuery is used by `agent query` when no --query flag is given.
const demoQuery = "Find me three dinner recipes that contain chicken and take less than an hour in total."

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "agent",
		Short:        "Recipe assistant: load the vector database or query it",
		SilenceUsage: true,
	}
	root.AddCommand(newLoadCmd(), newQueryCmd())
	return root
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Rebuild the recipe vector database and wait for completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			job := recipes.StartIngestion(cmd.Context())
			log.Printf("Ingestion job %s started", job.ID)
			if err := job.Wait(cmd.Context()); err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}
			log.Printf("Ingestion done, %d recipes inserted", job.Inserted())
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer a single recipe query",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			answer, err := recipes.QueryRecipes(cmd.Context(), query)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", demoQuery, "query string")
	return cmd
}

// buildService wires the recipe service and returns it together with a
// cleanup function releasing the vector store pool.
func buildService(ctx context.Context) (*service.RecipeService, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	store, err := vectorstore.NewStore(ctx, cfg.VectorDBDSN(), cfg.CollectionName, cfg.EmbeddingDim)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to vector store: %w", err)
	}

	ai, err := openai.New(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.CriteriaModel, cfg.RankingModel)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("create OpenAI client: %w", err)
	}

	fetcher := source.NewClient(cfg.SourceBaseURL, cfg.SourceLanguage, cfg.TargetLocale)

	recipes := service.NewRecipeService(fetcher, ai, ai, store, cfg.QueryTopK, service.IngestOptions{
		StartID:     cfg.IngestStartID,
		TotalCount:  cfg.IngestTotalCount,
		BatchSize:   cfg.IngestBatchSize,
		Concurrency: cfg.IngestConcurrency,
	})
	return recipes, store.Close, nil
}
