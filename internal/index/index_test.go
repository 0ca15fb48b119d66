package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("Should build a usable empty index over zero vectors", func(t *testing.T) {
		f, err := Build(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, f.Len())

		hits, err := f.Search([]float32{1, 2}, 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("Should reject vectors of mixed dimension", func(t *testing.T) {
		var buildErr *BuildError
		_, err := Build([][]float32{{1, 2}, {1, 2, 3}})
		require.ErrorAs(t, err, &buildErr)
	})

	t.Run("Should reject empty vectors", func(t *testing.T) {
		var buildErr *BuildError
		_, err := Build([][]float32{{}})
		require.ErrorAs(t, err, &buildErr)
	})
}

func TestFlatSearch(t *testing.T) {
	vectors := [][]float32{
		{0, 0},
		{1, 0},
		{0, 3},
		{2, 2},
	}

	t.Run("Should rank hits nearest first by L2 distance", func(t *testing.T) {
		f, err := Build(vectors)
		require.NoError(t, err)

		hits, err := f.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, 1, hits[0].Index)
		assert.Equal(t, 0, hits[1].Index)
		assert.Equal(t, 3, hits[2].Index)
	})

	t.Run("Should return the whole corpus when k exceeds it", func(t *testing.T) {
		f, err := Build(vectors)
		require.NoError(t, err)

		hits, err := f.Search([]float32{0, 0}, 100)
		require.NoError(t, err)
		assert.Len(t, hits, len(vectors))
	})

	t.Run("Should return identical results for identical searches", func(t *testing.T) {
		f, err := Build(vectors)
		require.NoError(t, err)

		first, err := f.Search([]float32{1, 1}, 4)
		require.NoError(t, err)
		second, err := f.Search([]float32{1, 1}, 4)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Should break distance ties on insertion order", func(t *testing.T) {
		f, err := Build([][]float32{{1, 0}, {0, 1}, {-1, 0}, {0, -1}})
		require.NoError(t, err)

		hits, err := f.Search([]float32{0, 0}, 4)
		require.NoError(t, err)
		for i, h := range hits {
			assert.Equal(t, i, h.Index)
		}
	})

	t.Run("Should reject a query of the wrong dimension", func(t *testing.T) {
		f, err := Build(vectors)
		require.NoError(t, err)

		_, err = f.Search([]float32{1, 2, 3}, 1)
		require.Error(t, err)
	})

	t.Run("Should return nothing for non-positive k", func(t *testing.T) {
		f, err := Build(vectors)
		require.NoError(t, err)

		hits, err := f.Search([]float32{0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("Should treat a nil index as empty", func(t *testing.T) {
		var f *Flat
		assert.Equal(t, 0, f.Len())
		hits, err := f.Search([]float32{0, 0}, 3)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}
