package index

import (
	"fmt"
	"sort"
)

// BuildError reports an indexing failure. The session keeps its previous
// index when building a replacement fails.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string { return fmt.Sprintf("index: build failed: %v", e.Err) }
func (e *BuildError) Unwrap() error { return e.Err }

// Hit is one nearest-neighbor match, Index pointing into the vector
// sequence the index was built from.
type Hit struct {
	Index    int
	Distance float32
}

// Flat is a brute-force nearest-neighbor index using squared Euclidean
// distance. It is rebuilt wholesale on every upload batch and never
// persisted.
type Flat struct {
	dimension int
	vectors   [][]float32
}

// Build creates an index over the given vectors. All vectors must share one
// dimension. Building over zero vectors yields a usable empty index.
func Build(vectors [][]float32) (*Flat, error) {
	f := &Flat{}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, &BuildError{Err: fmt.Errorf("vector %d is empty", i)}
		}
		if f.dimension == 0 {
			f.dimension = len(v)
		}
		if len(v) != f.dimension {
			return nil, &BuildError{Err: fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), f.dimension)}
		}
	}
	f.vectors = vectors
	return f, nil
}

func (f *Flat) Len() int {
	if f == nil {
		return 0
	}
	return len(f.vectors)
}

func (f *Flat) Dimension() int {
	if f == nil {
		return 0
	}
	return f.dimension
}

// Search returns the k nearest vectors to query, nearest first. Ties break
// on insertion order so identical searches return identical results. A k
// larger than the corpus returns everything; an empty index returns nothing.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if f.Len() == 0 {
		return nil, nil
	}
	if len(query) != f.dimension {
		return nil, fmt.Errorf("index: query has dimension %d, want %d", len(query), f.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Index: i, Distance: l2sq(v, query)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Index < hits[j].Index
	})
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// l2sq is the squared Euclidean distance. Squaring preserves the ranking,
// so the square root is never taken.
func l2sq(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
