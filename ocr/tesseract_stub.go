//go:build !ocr

package ocr

import (
	"context"
	"errors"
)

// ErrOCRNotEnabled is returned when the library engine is requested but
// libtesseract support was not compiled in. Rebuild with -tags ocr, or use
// the CLI engine.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Tesseract is a stub library engine that fails every operation.
type Tesseract struct{}

// NewTesseract returns ErrOCRNotEnabled.
// To enable the library engine, rebuild with: go build -tags ocr
func NewTesseract(cfg Config) (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

// Recognize returns ErrOCRNotEnabled.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// Close is a no-op for the stub engine.
// It is safe to call on a nil engine.
func (t *Tesseract) Close() error {
	return nil
}
