package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/tsawler/slidetext"
	"github.com/tsawler/slidetext/format"
)

// MaxUploadBytes bounds the size of an uploaded presentation.
const MaxUploadBytes = 200 << 20

// Extractor defines the pipeline dependency.
type Extractor interface {
	Run(ctx context.Context, src io.ReaderAt, size int64, countOnly bool) slidetext.Result
	Ready(ctx context.Context) bool
}

// ExtractService orchestrates extraction of uploaded presentations.
type ExtractService struct {
	extractor Extractor
}

// NewExtractService creates ExtractService.
func NewExtractService(ext Extractor) *ExtractService {
	return &ExtractService{extractor: ext}
}

// Process checks the uploaded file's format and runs the pipeline on it.
// Inputs that are not presentation packages return format.ErrUnsupported;
// everything past that point degrades into the returned Result.
func (s *ExtractService) Process(ctx context.Context, file multipart.File, header *multipart.FileHeader, countOnly bool) (slidetext.Result, error) {
	size := header.Size
	if size > MaxUploadBytes {
		return slidetext.Result{}, fmt.Errorf("upload %s is %d bytes, limit is %d: %w", header.Filename, size, MaxUploadBytes, ErrTooLarge)
	}

	f, err := format.Check(file, size)
	if errors.Is(err, format.ErrUnsupported) {
		return slidetext.Result{}, fmt.Errorf("upload %s (%s): %w", header.Filename, f, err)
	}
	if err != nil {
		// A damaged container is as unusable as a foreign one.
		return slidetext.Result{}, fmt.Errorf("upload %s: %w: %v", header.Filename, format.ErrUnsupported, err)
	}

	return s.extractor.Run(ctx, file, size, countOnly), nil
}

// Ready reports whether the OCR engine is callable.
func (s *ExtractService) Ready(ctx context.Context) bool {
	return s.extractor.Ready(ctx)
}
