package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// AuxiliaryError reports a summarization, translation, or language
// detection failure. Callers always degrade to a fallback value; this error
// never propagates out of the package-level helpers.
type AuxiliaryError struct {
	Op  string
	Err error
}

func (e *AuxiliaryError) Error() string { return fmt.Sprintf("nlp: %s: %v", e.Op, e.Err) }
func (e *AuxiliaryError) Unwrap() error { return e.Err }

// Detector identifies the language of a text as an ISO 639-1 code.
type Detector interface {
	Detect(text string) (string, error)
}

// Translator translates a text into the pipeline's target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Summarizer condenses a full document text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)
}

// TranslateQuery translates the query when it is not already in the target
// language. Any detection or translation failure falls back to the original
// query; translation never blocks the pipeline. The second return reports
// whether a translation happened.
func TranslateQuery(ctx context.Context, det Detector, tr Translator, query, target string, log zerolog.Logger) (string, bool) {
	if det == nil || tr == nil {
		return query, false
	}
	lang, err := det.Detect(query)
	if err != nil {
		log.Warn().Err(&AuxiliaryError{Op: "detect", Err: err}).Msg("Language detection failed, using original query")
		return query, false
	}
	if strings.EqualFold(lang, target) {
		return query, false
	}
	translated, err := tr.Translate(ctx, query)
	if err != nil {
		log.Warn().Err(&AuxiliaryError{Op: "translate", Err: err}).Msg("Translation failed, using original query")
		return query, false
	}
	if strings.TrimSpace(translated) == "" {
		return query, false
	}
	return translated, true
}

// SummarizeDocument summarizes one document's concatenated pages. A failure
// yields a descriptive string instead of an error.
func SummarizeDocument(ctx context.Context, s Summarizer, text string, minLength, maxLength int) string {
	if s == nil {
		return "Summary generation failed: no summarization backend configured"
	}
	summary, err := s.Summarize(ctx, text, minLength, maxLength)
	if err != nil {
		return fmt.Sprintf("Summary generation failed: %v", &AuxiliaryError{Op: "summarize", Err: err})
	}
	return summary
}
