package embedder

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// probeText is the sentinel input used to detect the provider's vector
// dimensionality.
const probeText = "ping"

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Client wraps an Embedder and pins the vector dimensionality it
// observes on first use. Every later vector must have the same length;
// a disagreement is a configuration fault, never silently truncated or
// padded. Safe for concurrent use.
type Client struct {
	embedder Embedder
	mtx      sync.Mutex
	dim      int
}

// Dimension returns the provider's vector length, probing once with a
// sentinel input. A failed probe is not cached, so a transient outage
// at startup does not wedge the client.
func (c *Client) Dimension(ctx context.Context) (int, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.dim > 0 {
		return c.dim, nil
	}

	vec, err := c.embedder.Embed(ctx, probeText)
	if err != nil {
		return 0, fmt.Errorf("probing embedding dimension: %w", err)
	}

	if len(vec) == 0 {
		return 0, errors.New("embedding provider returned an empty probe vector")
	}

	c.dim = len(vec)

	return c.dim, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	dim, err := c.Dimension(ctx)
	if err != nil {
		return nil, err
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(vec) != dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), dim)
	}

	return vec, nil
}

func NewClient(embedder Embedder) *Client {
	if embedder == nil {
		panic("embedder is required")
	}

	return &Client{
		embedder: embedder,
	}
}
