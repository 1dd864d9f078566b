package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jsobczak/cookidoo-agent/config"
	"github.com/jsobczak/cookidoo-agent/internal/openai"
	"github.com/jsobczak/cookidoo-agent/internal/server"
	"github.com/jsobczak/cookidoo-agent/internal/service"
	"github.com/jsobczak/cookidoo-agent/internal/source"
	"github.com/jsobczak/cookidoo-agent/internal/vectorstore"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	store, err := vectorstore.NewStore(ctx, cfg.VectorDBDSN(), cfg.CollectionName, cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("Failed to connect to vector store: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to vector store, collection %s", store.Collection())

	ai, err := openai.New(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.CriteriaModel, cfg.RankingModel)
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}

	fetcher := source.NewClient(cfg.SourceBaseURL, cfg.SourceLanguage, cfg.TargetLocale)

	recipes := service.NewRecipeService(fetcher, ai, ai, store, cfg.QueryTopK, service.IngestOptions{
		StartID:     cfg.IngestStartID,
		TotalCount:  cfg.IngestTotalCount,
		BatchSize:   cfg.IngestBatchSize,
		Concurrency: cfg.IngestConcurrency,
	})

	srv := server.New(cfg, recipes)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s...", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
