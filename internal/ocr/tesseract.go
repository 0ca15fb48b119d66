package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text in page images through the Tesseract engine.
// One client serves one session; calls are sequential by design of the
// pipeline.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract client for the given language, e.g.
// "eng". An empty language keeps the engine default.
func NewTesseract(language string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			return nil, err
		}
	}
	return &Tesseract{client: client}, nil
}

func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", err
	}
	return t.client.Text()
}

func (t *Tesseract) Close() error { return t.client.Close() }
