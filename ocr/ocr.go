// Package ocr provides OCR (Optical Character Recognition) for images
// embedded in presentations.
//
// Recognition is delegated to an Engine. Two engines are provided: CLI runs
// the tesseract executable and works on any system where it is installed;
// Tesseract links libtesseract through gosseract and is only available when
// built with the "ocr" tag:
//
//	go build -tags ocr
//
// Tesseract itself must be installed either way. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Callers normally wrap an Engine in an Adapter, which normalizes images
// before recognition and never returns an error.
package ocr

import (
	"context"
	"errors"
)

// ErrEngineUnavailable is returned when the OCR engine cannot be reached.
var ErrEngineUnavailable = errors.New("ocr: engine unavailable")

// Engine recognizes text in an encoded image (PNG, JPEG, TIFF, etc.).
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
	Close() error
}

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// OEM_DEFAULT selects whichever recognizer the installed traineddata supports.
const OEM_DEFAULT = 3

// Config holds the recognition settings passed to an Engine.
type Config struct {
	Languages   []string    // Tesseract language codes, e.g. "eng", "deu"
	PageSegMode PageSegMode // Layout analysis mode
	EngineMode  int         // OCR engine mode (--oem)
}

// DefaultConfig returns the fixed configuration used for slide images.
// Slide pictures are treated as a single uniform block of text; multi-column
// infographics will under-recognize with this mode.
func DefaultConfig() Config {
	return Config{
		Languages:   []string{"eng"},
		PageSegMode: PSM_SINGLE_BLOCK,
		EngineMode:  OEM_DEFAULT,
	}
}
