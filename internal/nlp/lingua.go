package nlp

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector detects the query language with the lingua statistical
// models, loaded once per session.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

func (d *LinguaDetector) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty text")
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", fmt.Errorf("language of %q could not be determined", text)
	}
	return strings.ToLower(lang.IsoCode639_1().String()), nil
}
