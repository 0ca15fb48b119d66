package extractor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"studymate/internal/models"
)

// ExtractionError reports an unreadable document. It is fatal to that
// document only; other documents in the batch are unaffected.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extractor: %s: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// OCR recognizes text in a rendered page image. The extractor treats it as
// an optional external capability.
type OCR interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Extractor turns PDF bytes into per-page plain text. Pages without an
// extractable text layer are rasterized and run through OCR; if that also
// fails the page text is empty rather than an error.
type Extractor struct {
	ocr OCR
	log zerolog.Logger
}

func New(ocr OCR, log zerolog.Logger) *Extractor {
	return &Extractor{ocr: ocr, log: log}
}

// Extract returns the ordered pages of one document. It fails only when the
// document itself is unreadable; per-page OCR failures are skipped.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) ([]models.Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Name: name, Err: err}
	}

	// The raster document is opened lazily, only when a page needs OCR.
	var raster *fitz.Document
	rasterBroken := false
	defer func() {
		if raster != nil {
			raster.Close()
		}
	}()

	numPages := reader.NumPage()
	pages := make([]models.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &ExtractionError{Name: name, Err: err}
		}

		var text string
		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				e.log.Warn().Err(err).Str("document", name).Int("page", i).Msg("Text layer extraction failed")
				text = ""
			}
		}

		if strings.TrimSpace(text) == "" && e.ocr != nil && !rasterBroken {
			if raster == nil {
				raster, err = fitz.NewFromMemory(data)
				if err != nil {
					e.log.Warn().Err(err).Str("document", name).Msg("Cannot rasterize document, skipping OCR")
					rasterBroken = true
				}
			}
			if raster != nil {
				text = e.recognizePage(ctx, raster, name, i)
			}
		}

		pages = append(pages, models.Page{Number: i, Text: text})
	}
	return pages, nil
}

func (e *Extractor) recognizePage(ctx context.Context, raster *fitz.Document, name string, pageNum int) string {
	img, err := raster.Image(pageNum - 1)
	if err != nil {
		e.log.Warn().Err(err).Str("document", name).Int("page", pageNum).Msg("Page render failed, emitting empty text")
		return ""
	}
	text, err := e.ocr.Recognize(ctx, img)
	if err != nil {
		e.log.Warn().Err(err).Str("document", name).Int("page", pageNum).Msg("OCR failed, emitting empty text")
		return ""
	}
	return text
}
