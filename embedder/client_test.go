package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedEmbedder struct {
	vectors [][]float32
	errs    []error
	calls   int
}

func (e *scriptedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	i := e.calls
	e.calls++
	if i >= len(e.vectors) {
		i = len(e.vectors) - 1
	}
	if i < len(e.errs) && e.errs[i] != nil {
		return nil, e.errs[i]
	}
	return e.vectors[i], nil
}

func TestClientProbesDimensionOnce(t *testing.T) {
	fake := &scriptedEmbedder{
		vectors: [][]float32{{0.1, 0.2, 0.3}},
	}

	client := NewClient(fake)

	dim, err := client.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	dim, err = client.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	// one probe, not one per Dimension call
	assert.Equal(t, 1, fake.calls)
}

func TestClientEmbedMatchesDimension(t *testing.T) {
	fake := &scriptedEmbedder{
		vectors: [][]float32{{1, 2, 3, 4}},
	}

	client := NewClient(fake)

	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 4)

	again, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, again, len(vec))
}

func TestClientRejectsDimensionMismatch(t *testing.T) {
	fake := &scriptedEmbedder{
		vectors: [][]float32{
			{1, 2, 3},
			{1, 2},
		},
	}

	client := NewClient(fake)

	_, err := client.Embed(context.Background(), "first")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestClientDoesNotCacheFailedProbe(t *testing.T) {
	fake := &scriptedEmbedder{
		vectors: [][]float32{nil, {1, 2}},
		errs:    []error{errors.New("transient outage"), nil},
	}

	client := NewClient(fake)

	_, err := client.Dimension(context.Background())
	require.Error(t, err)

	dim, err := client.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dim)
}

func TestPermanentError(t *testing.T) {
	base := errors.New("invalid api key")

	err := Permanent(base)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)

	assert.False(t, IsPermanent(base))
	assert.Nil(t, Permanent(nil))
}
