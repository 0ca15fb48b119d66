package retriever

import (
	"context"
	"fmt"

	"studymate/internal/embedding"
	"studymate/internal/index"
	"studymate/internal/models"
)

// RetrievalError reports an embedding or search failure at query time. The
// caller degrades to "no context available" rather than aborting.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("retriever: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// Result is one retrieved chunk with its provenance, nearest first in the
// slice returned by Retrieve.
type Result struct {
	Text     string
	Meta     models.ChunkMeta
	Distance float32
}

// Retriever answers nearest-neighbor queries over one session's chunk
// corpus. The chunk and metadata slices are the session's aligned pair; hit
// indices map through both.
type Retriever struct {
	encoder embedding.Encoder
	idx     *index.Flat
	chunks  []string
	meta    []models.ChunkMeta
}

func New(encoder embedding.Encoder, idx *index.Flat, chunks []string, meta []models.ChunkMeta) (*Retriever, error) {
	if len(chunks) != len(meta) {
		return nil, fmt.Errorf("retriever: %d chunks but %d metadata entries", len(chunks), len(meta))
	}
	if idx.Len() != len(chunks) {
		return nil, fmt.Errorf("retriever: index holds %d vectors but corpus has %d chunks", idx.Len(), len(chunks))
	}
	return &Retriever{encoder: encoder, idx: idx, chunks: chunks, meta: meta}, nil
}

// Retrieve embeds the query and returns up to k nearest chunks. An empty
// index yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	if r.idx.Len() == 0 {
		return nil, nil
	}

	vectors, err := r.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	if len(vectors) == 0 {
		return nil, &RetrievalError{Err: fmt.Errorf("encoder returned no vector for query")}
	}

	hits, err := r.idx.Search(vectors[0], k)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			Text:     r.chunks[h.Index],
			Meta:     r.meta[h.Index],
			Distance: h.Distance,
		})
	}
	return results, nil
}
