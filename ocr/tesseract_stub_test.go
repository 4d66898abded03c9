//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestStubNewTesseract(t *testing.T) {
	engine, err := NewTesseract(DefaultConfig())
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got %v", err)
	}
	if engine != nil {
		t.Error("Expected nil engine")
	}
}

func TestStubTesseract(t *testing.T) {
	var engine *Tesseract
	if _, err := engine.Recognize(context.Background(), nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("Close on nil engine failed: %v", err)
	}
}
