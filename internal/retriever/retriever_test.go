package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymate/internal/index"
	"studymate/internal/models"
)

type fakeEncoder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectors[t]
	}
	return out, nil
}

func TestRetrieve(t *testing.T) {
	chunks := []string{"alpha chunk", "beta chunk", "gamma chunk"}
	meta := []models.ChunkMeta{
		{Document: "a.pdf", Page: 1},
		{Document: "a.pdf", Page: 2},
		{Document: "b.pdf", Page: 1},
	}
	idx, err := index.Build([][]float32{{1, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)

	encoder := &fakeEncoder{vectors: map[string][]float32{
		"which one": {0, 0.9},
	}}

	t.Run("Should map hits back through the aligned chunk and metadata slices", func(t *testing.T) {
		r, err := New(encoder, idx, chunks, meta)
		require.NoError(t, err)

		results, err := r.Retrieve(context.Background(), "which one", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "beta chunk", results[0].Text)
		assert.Equal(t, models.ChunkMeta{Document: "a.pdf", Page: 2}, results[0].Meta)
		assert.Equal(t, "gamma chunk", results[1].Text)
		assert.Equal(t, models.ChunkMeta{Document: "b.pdf", Page: 1}, results[1].Meta)
	})

	t.Run("Should clamp k to the corpus size", func(t *testing.T) {
		r, err := New(encoder, idx, chunks, meta)
		require.NoError(t, err)

		results, err := r.Retrieve(context.Background(), "which one", 50)
		require.NoError(t, err)
		assert.Len(t, results, len(chunks))
	})

	t.Run("Should return nothing for an empty index", func(t *testing.T) {
		empty, err := index.Build(nil)
		require.NoError(t, err)
		r, err := New(encoder, empty, nil, nil)
		require.NoError(t, err)

		results, err := r.Retrieve(context.Background(), "which one", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Should surface encoder failure as a RetrievalError", func(t *testing.T) {
		broken := &fakeEncoder{err: errors.New("backend down")}
		r, err := New(broken, idx, chunks, meta)
		require.NoError(t, err)

		var retErr *RetrievalError
		_, err = r.Retrieve(context.Background(), "which one", 2)
		require.ErrorAs(t, err, &retErr)
	})

	t.Run("Should reject misaligned chunk and metadata slices", func(t *testing.T) {
		_, err := New(encoder, idx, chunks, meta[:2])
		require.Error(t, err)
	})

	t.Run("Should return identical results for identical queries", func(t *testing.T) {
		r, err := New(encoder, idx, chunks, meta)
		require.NoError(t, err)

		first, err := r.Retrieve(context.Background(), "which one", 3)
		require.NoError(t, err)
		second, err := r.Retrieve(context.Background(), "which one", 3)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
