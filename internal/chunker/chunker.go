package chunker

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid chunk size/overlap combination.
type ConfigurationError struct {
	Size    int
	Overlap int
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("chunker: size=%d overlap=%d: %s", e.Size, e.Overlap, e.Reason)
}

// Chunk splits text into overlapping word windows of size words, with
// overlap words shared between consecutive windows. Windows start at
// offsets 0, size-overlap, 2*(size-overlap), ... and the last window may be
// shorter than size. The output is a pure function of its inputs.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, &ConfigurationError{Size: size, Overlap: overlap, Reason: "size must be greater than zero"}
	}
	if overlap < 0 {
		return nil, &ConfigurationError{Size: size, Overlap: overlap, Reason: "overlap cannot be negative"}
	}
	if size-overlap <= 0 {
		return nil, &ConfigurationError{Size: size, Overlap: overlap, Reason: "overlap must be smaller than size"}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	stride := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += stride {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks, nil
}
