package index

import (
	"context"
	"errors"
)

var (
	// ErrDimensionMismatch means the index already exists with a
	// different vector length than the embedder produces. There is no
	// migration path; deployment configuration has to change.
	ErrDimensionMismatch = errors.New("index dimension mismatch")

	// ErrNotReady means Ensure has not succeeded yet.
	ErrNotReady = errors.New("index not ensured")
)

// Index is a named similarity index in an external vector store.
type Index interface {
	// Ensure idempotently creates the index with the given vector
	// dimensionality if it does not exist yet.
	Ensure(ctx context.Context, dimension int) error

	// Upsert writes one batch of records. Re-upserting an identifier
	// overwrites the prior record. Callers keep batches bounded.
	Upsert(ctx context.Context, records []Record) error

	// Query returns at most k nearest records by the configured
	// metric, best first. An empty index yields an empty result, not
	// an error.
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
}
