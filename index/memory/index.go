package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/w-h-a/ragchat/index"
)

type memoryIndex struct {
	options   index.Options
	dimension int
	records   map[string]index.Record
	mtx       sync.RWMutex
}

func (m *memoryIndex) Ensure(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.dimension == 0 {
		m.dimension = dimension
		return nil
	}

	if m.dimension != dimension {
		return fmt.Errorf("%w: index %s has %d, got %d", index.ErrDimensionMismatch, m.options.Name, m.dimension, dimension)
	}

	return nil
}

func (m *memoryIndex) Upsert(ctx context.Context, records []index.Record) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.dimension == 0 {
		return index.ErrNotReady
	}

	for _, rec := range records {
		if len(rec.Values) != m.dimension {
			return fmt.Errorf("%w: record %s has %d values, index %s wants %d", index.ErrDimensionMismatch, rec.ID, len(rec.Values), m.options.Name, m.dimension)
		}

		cpy := make([]float32, len(rec.Values))
		copy(cpy, rec.Values)

		meta := make(map[string]any, len(rec.Metadata))
		maps.Copy(meta, rec.Metadata)

		m.records[rec.ID] = index.Record{
			ID:       rec.ID,
			Values:   cpy,
			Metadata: meta,
		}
	}

	return nil
}

func (m *memoryIndex) Query(ctx context.Context, vector []float32, k int) ([]index.Match, error) {
	if k < 1 {
		return []index.Match{}, nil
	}

	m.mtx.RLock()
	defer m.mtx.RUnlock()

	candidates := make([]index.Match, 0, len(m.records))

	for _, rec := range m.records {
		text, _ := rec.Metadata["text"].(string)
		candidates = append(candidates, index.Match{
			ID:    rec.ID,
			Text:  text,
			Score: float32(index.Cosine(vector, rec.Values)),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	return candidates, nil
}

func NewIndex(opts ...index.Option) index.Index {
	options := index.NewOptions(opts...)

	return &memoryIndex{
		options: options,
		records: map[string]index.Record{},
		mtx:     sync.RWMutex{},
	}
}
