package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/w-h-a/ragchat/chunker"
	"github.com/w-h-a/ragchat/document"
	"github.com/w-h-a/ragchat/embedder"
	"github.com/w-h-a/ragchat/index"
)

const (
	defaultWorkers   = 8
	defaultBatchSize = 100
	defaultTimeout   = 30 * time.Second
)

// ErrEmptyDocument means the upload chunked to nothing; the pipeline
// refuses to call the embedding provider for it.
var ErrEmptyDocument = errors.New("document produced no chunks")

// Service turns one document into indexed records: chunk, embed with a
// bounded worker pool, then upsert in batches.
type Service struct {
	chunker   chunker.Chunker
	embedder  *embedder.Client
	index     index.Index
	workers   int
	batchSize int
	timeout   time.Duration
}

// Ingest indexes the document and returns how many chunks made it into
// the index. A transiently failing chunk is retried once and then
// dropped with a warning; only a permanent provider fault aborts the
// whole ingestion.
func (s *Service) Ingest(ctx context.Context, doc document.Document) (int, error) {
	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return 0, err
	}

	if len(chunks) == 0 {
		return 0, ErrEmptyDocument
	}

	dim, err := s.embedder.Dimension(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.index.Ensure(ctx, dim); err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "embedding chunks", "source", doc.Source, "chunks", len(chunks), "workers", s.workers)

	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		return 0, err
	}

	// identifiers derive from the chunk sequence index, not embedding
	// completion order, so re-running on the same input is reproducible
	docID := doc.ID()

	records := make([]index.Record, 0, len(chunks))
	for i, ch := range chunks {
		if vectors[i] == nil {
			continue
		}
		records = append(records, index.Record{
			ID:     ch.RecordID(docID),
			Values: vectors[i],
			Metadata: map[string]any{
				"text":   ch.Text,
				"source": doc.Source,
				"start":  ch.Start,
				"chunk":  ch.Index,
			},
		})
	}

	if len(records) == 0 {
		return 0, errors.New("every chunk embedding failed")
	}

	indexed := 0

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}

		if err := s.upsertBatch(ctx, records[start:end]); err != nil {
			slog.WarnContext(ctx, "batch not indexed", "source", doc.Source, "batch_start", start, "error", err)
			continue
		}

		indexed += end - start
	}

	slog.InfoContext(ctx, "ingestion finished", "source", doc.Source, "indexed", indexed, "chunks", len(chunks))

	return indexed, nil
}

// embedAll fans the chunks out over the worker pool. The returned slice
// is indexed by chunk sequence; a nil entry is a dropped chunk.
func (s *Service) embedAll(ctx context.Context, chunks []document.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	jobs := make(chan int, len(chunks))
	for i := range chunks {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	var mtx sync.Mutex
	var fatal error

	workers := s.workers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				mtx.Lock()
				stop := fatal != nil
				mtx.Unlock()

				if stop {
					continue
				}

				vec, err := s.embedChunk(ctx, chunks[i].Text)
				if err != nil {
					if embedder.IsPermanent(err) || errors.Is(err, embedder.ErrDimensionMismatch) {
						mtx.Lock()
						if fatal == nil {
							fatal = err
						}
						mtx.Unlock()
						continue
					}

					slog.WarnContext(ctx, "dropping chunk after failed embedding", "chunk", chunks[i].Index, "error", err)
					continue
				}

				vectors[i] = vec
			}
		}()
	}

	wg.Wait()

	if fatal != nil {
		return nil, fatal
	}

	return vectors, nil
}

func (s *Service) embedChunk(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embed(ctx, text)
	if err == nil {
		return vec, nil
	}

	if embedder.IsPermanent(err) || errors.Is(err, embedder.ErrDimensionMismatch) {
		return nil, err
	}

	// one retry for transient failures
	return s.embed(ctx, text)
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.embedder.Embed(tctx, text)
}

func (s *Service) upsertBatch(ctx context.Context, batch []index.Record) error {
	err := s.index.Upsert(ctx, batch)
	if err == nil {
		return nil
	}

	slog.WarnContext(ctx, "retrying batch upsert", "size", len(batch), "error", err)

	return s.index.Upsert(ctx, batch)
}

func New(
	chunker chunker.Chunker,
	embedderClient *embedder.Client,
	idx index.Index,
	workers int,
	batchSize int,
	timeout time.Duration,
) *Service {
	if chunker == nil {
		panic("chunker is required")
	}

	if embedderClient == nil {
		panic("embedder client is required")
	}

	if idx == nil {
		panic("index is required")
	}

	if workers <= 0 {
		workers = defaultWorkers
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Service{
		chunker:   chunker,
		embedder:  embedderClient,
		index:     idx,
		workers:   workers,
		batchSize: batchSize,
		timeout:   timeout,
	}
}
