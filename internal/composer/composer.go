package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"studymate/internal/models"
	"studymate/internal/retriever"
)

// Generator is a chat-completion backend. Backends are optional; the
// composer is handed only the ones that could be constructed.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationError reports a backend call failure. It never escapes
// Compose; the failure is surfaced as an in-band error answer.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("composer: backend %s: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Answer is a composed response. Backend is empty when no backend was
// available or the call failed.
type Answer struct {
	Text    string
	Backend string
	Source  string
}

// Composer builds a grounded prompt from retrieved context and dispatches
// it to the first available generation backend in priority order.
type Composer struct {
	generators []Generator
	log        zerolog.Logger
}

// New keeps the given backends in priority order, skipping absent ones.
func New(log zerolog.Logger, generators ...Generator) *Composer {
	kept := make([]Generator, 0, len(generators))
	for _, g := range generators {
		if g != nil {
			kept = append(kept, g)
		}
	}
	return &Composer{generators: kept, log: log}
}

// Compose answers the query from the retrieved context. Backend selection
// is deterministic priority order, not a race; with no backend available it
// returns the sentinel answer without erroring. Call failures become an
// error answer with an empty backend name. No retries.
func (c *Composer) Compose(ctx context.Context, query string, results []retriever.Result) Answer {
	if len(c.generators) == 0 {
		return Answer{Text: models.NoBackendAnswer}
	}

	gen := c.generators[0]
	prompt := buildPrompt(query, results)
	response, err := gen.Generate(ctx, prompt)
	if err != nil {
		genErr := &GenerationError{Backend: gen.Name(), Err: err}
		c.log.Error().Err(genErr).Msg("Answer generation failed")
		return Answer{Text: fmt.Sprintf("Failed to generate answer: %v", err)}
	}

	return Answer{Text: response, Backend: gen.Name(), Source: Citations(results)}
}

func buildPrompt(query string, results []retriever.Result) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return fmt.Sprintf(models.AnswerPromptTemplate, query, strings.Join(texts, "\n"))
}

// Citations renders one "<document>, Page <n>" line per result, retrieval
// order, duplicates kept.
func Citations(results []retriever.Result) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("%s, Page %d", r.Meta.Document, r.Meta.Page)
	}
	return strings.Join(lines, "\n")
}
