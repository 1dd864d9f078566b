package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/jsobczak/cookidoo-agent/internal/source"
)

// IngestStatus is the observable state of an ingestion job.
type IngestStatus string

const (
	IngestPending IngestStatus = "pending"
	IngestRunning IngestStatus = "running"
	IngestDone    IngestStatus = "done"
	IngestFailed  IngestStatus = "failed"
)

// IngestJob is the handle to one background ingestion run. It exposes the
// job's state so callers (and tests) can await completion deterministically
// instead of firing and forgetting.
type IngestJob struct {
	ID string

	mu       sync.Mutex
	status   IngestStatus
	err      error
	inserted int

	done chan struct{}
}

func newIngestJob() *IngestJob {
	return &IngestJob{
		ID:     uuid.New().String(),
		status: IngestPending,
		done:   make(chan struct{}),
	}
}

// Status returns the current state of the job.
func (j *IngestJob) Status() IngestStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Err returns the failure cause once the job is failed, nil otherwise.
func (j *IngestJob) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Inserted returns the number of entries inserted so far.
func (j *IngestJob) Inserted() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inserted
}

// Wait blocks until the job finishes or ctx is cancelled. It returns the
// job's failure cause, if any.
func (j *IngestJob) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *IngestJob) setStatus(status IngestStatus) {
	j.mu.Lock()
	j.status = status
	j.mu.Unlock()
}

func (j *IngestJob) addInserted(n int) {
	j.mu.Lock()
	j.inserted += n
	j.mu.Unlock()
}

func (j *IngestJob) finish(err error) {
	j.mu.Lock()
	if err != nil {
		j.status = IngestFailed
		j.err = err
	} else {
		j.status = IngestDone
	}
	j.mu.Unlock()
	close(j.done)
}

// StartIngestion launches a full rebuild of the collection in the background
// and returns immediately with the job handle. The collection is dropped and
// recreated, every id in the configured range is fetched, condensed and
// embedded, surviving records are bulk-inserted batch by batch, and the ANN
// index is built once at the end. Per-id failures are skipped, not retried;
// an interrupted run leaves no resumable progress.
func (s *RecipeService) StartIngestion(ctx context.Context) *IngestJob {
	job := newIngestJob()
	go func() {
		job.setStatus(IngestRunning)
		job.finish(s.runIngestion(ctx, job))
	}()
	return job
}

func (s *RecipeService) runIngestion(ctx context.Context, job *IngestJob) error {
	if err := s.store.CreateCollection(ctx); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	// One permit pool for the entire run, so the fetch bound holds globally
	// and not per batch.
	sem := semaphore.NewWeighted(int64(s.ingest.Concurrency))

	endID := s.ingest.StartID + s.ingest.TotalCount
	for batchStart := s.ingest.StartID; batchStart < endID; batchStart += s.ingest.BatchSize {
		batchEnd := batchStart + s.ingest.BatchSize
		if batchEnd > endID {
			batchEnd = endID
		}
		slog.Info("processing batch", "job", job.ID, "start", batchStart, "end", batchEnd)

		inserted, err := s.processBatch(ctx, sem, batchStart, batchEnd)
		if err != nil {
			return fmt.Errorf("batch [%d,%d): %w", batchStart, batchEnd, err)
		}
		if inserted == 0 {
			slog.Info("no recipes found in batch", "job", job.ID, "start", batchStart, "end", batchEnd)
			continue
		}
		job.addInserted(inserted)
		slog.Info("inserted batch", "job", job.ID, "start", batchStart, "end", batchEnd, "rows", inserted)
	}

	if err := s.store.BuildIndex(ctx); err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	slog.Info("ingestion finished", "job", job.ID, "inserted", job.Inserted())
	return nil
}

// processBatch fetches every id in [batchStart, batchEnd) concurrently,
// embeds the surviving records and inserts them as one aligned batch. It
// returns the number of rows inserted; zero rows is not an error.
func (s *RecipeService) processBatch(ctx context.Context, sem *semaphore.Weighted, batchStart, batchEnd int) (int, error) {
	recipes := s.fetchRange(ctx, sem, batchStart, batchEnd)

	var (
		ids        []string
		titles     []string
		texts      []string
		embeddings [][]float32
	)
	for _, rec := range recipes {
		condensed := CondenseRecipe(rec)
		embedding := s.embedder.Embedding(ctx, condensed)
		if len(embedding) == 0 {
			slog.Warn("skipping recipe without embedding", "id", rec.ID)
			continue
		}
		ids = append(ids, rec.ID)
		titles = append(titles, rec.Title)
		texts = append(texts, condensed)
		embeddings = append(embeddings, embedding)
	}

	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.store.InsertBatch(ctx, ids, titles, texts, embeddings); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// fetchRange fans out one fetch per id bounded by sem and gathers the
// successful records in completion order. Ids that produce no record (fetch
// failure or locale filter) are dropped silently; that is expected for most
// of the id space.
func (s *RecipeService) fetchRange(ctx context.Context, sem *semaphore.Weighted, start, end int) []*source.RecipeDetails {
	results := make(chan *source.RecipeDetails)

	var wg sync.WaitGroup
	for id := start; id < end; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			rec, err := s.fetcher.RecipeDetails(ctx, id)
			if err != nil {
				slog.Debug("failed to fetch recipe", "id", id, "error", err)
				return
			}
			if rec == nil {
				// Filtered out (wrong locale); treated the same as not found.
				return
			}
			results <- rec
		}(id)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var recipes []*source.RecipeDetails
	for rec := range results {
		recipes = append(recipes, rec)
	}
	return recipes
}
