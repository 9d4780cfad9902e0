package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1, 2}, nil
}

func (c *countingEmbedder) Dimensions() int { return 3 }

func TestEmbedMemoizes(t *testing.T) {
	inner := &countingEmbedder{}
	e, err := New(inner, 0)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := e.Embed(ctx, "repeated situation")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	got, err := e.Embed(ctx, "repeated situation")
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, 1, inner.calls, "second call must hit the cache")
}

func TestEmbedDistinctTexts(t *testing.T) {
	inner := &countingEmbedder{}
	e, err := New(inner, 0)
	require.NoError(t, err)

	ctx := context.Background()
	a, err := e.Embed(ctx, "one")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "three")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, inner.calls)
}

func TestEmbedErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("down")}
	e, err := New(inner, 0)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "x")
	assert.Error(t, err)

	inner.err = nil
	vec, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
}

func TestDimensionsPassThrough(t *testing.T) {
	e, err := New(&countingEmbedder{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Dimensions())
}
