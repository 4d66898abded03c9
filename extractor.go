package slidetext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/slidetext/format"
	"github.com/tsawler/slidetext/ocr"
	"github.com/tsawler/slidetext/pptx"
)

// Extractor runs the slide extraction pipeline. Each configuration method
// returns a new Extractor instance, making it safe for concurrent use and
// allowing method chaining. Runs themselves are sequential: slides and
// shapes are processed strictly in document order.
type Extractor struct {
	engine  ocr.Engine
	adapter *ocr.Adapter

	// Configuration
	options ExtractOptions
}

// clone creates a copy of the Extractor with a copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		engine:  e.engine,
		adapter: e.adapter,
		options: e.options.clone(),
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithLogger sets the logger for pipeline and OCR diagnostics.
func (e *Extractor) WithLogger(l *slog.Logger) *Extractor {
	if l == nil {
		return e
	}
	newExt := e.clone()
	newExt.options.logger = l
	newExt.adapter = ocr.NewAdapter(e.engine, ocr.WithLogger(l))
	return newExt
}

// SkipReadinessCheck disables the engine probe before full runs. Use it when
// the caller has already verified the engine.
func (e *Extractor) SkipReadinessCheck() *Extractor {
	newExt := e.clone()
	newExt.options.skipReadiness = true
	return newExt
}

// MaxImageBytes limits the uncompressed size of pictures sent to OCR.
// Larger pictures are counted in the slide stats but not recognized.
// Zero means no limit.
func (e *Extractor) MaxImageBytes(n int64) *Extractor {
	newExt := e.clone()
	newExt.options.maxImageBytes = n
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Ready reports whether the OCR engine is callable.
func (e *Extractor) Ready(ctx context.Context) bool {
	return e.adapter.Ready(ctx)
}

// Run extracts a presentation, or only counts its slides when countOnly is
// set. It never fails; see Result.
func (e *Extractor) Run(ctx context.Context, src io.ReaderAt, size int64, countOnly bool) Result {
	if countOnly {
		return e.CountSlides(ctx, src, size)
	}
	return e.Extract(ctx, src, size)
}

// RunFile is Run for a presentation on disk.
func (e *Extractor) RunFile(ctx context.Context, path string, countOnly bool) Result {
	logger := e.options.logger

	f, err := os.Open(path)
	if err != nil {
		logger.Error("cannot open presentation", "path", path, "error", err)
		return Result{CountOnly: countOnly, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logger.Error("cannot stat presentation", "path", path, "error", err)
		return Result{CountOnly: countOnly, Err: err}
	}
	logger.Info("processing local file", "path", path, "size", info.Size())

	return e.Run(ctx, f, info.Size(), countOnly)
}

// CountSlides returns the number of slides without parsing any slide or
// touching the OCR engine. A presentation that cannot be parsed counts as
// zero slides.
func (e *Extractor) CountSlides(ctx context.Context, src io.ReaderAt, size int64) Result {
	logger := e.options.logger
	res := Result{CountOnly: true}

	logger.Debug("counting slides", "size", size)

	r, err := open(src, size)
	if err != nil {
		if errors.Is(err, pptx.ErrNoSlides) {
			logger.Info("presentation has no slides")
			return res
		}
		logger.Error("error counting slides", "error", err)
		res.Err = err
		return res
	}
	defer r.Close()

	res.SlideCount = r.SlideCount()
	logger.Info("counted slides", "slides", res.SlideCount)
	return res
}

// Extract runs the full pipeline. The OCR engine is probed once first; if it
// is not callable no slide is processed and the result is empty. A slide
// that cannot be read stops the run, keeping the records already built.
func (e *Extractor) Extract(ctx context.Context, src io.ReaderAt, size int64) (res Result) {
	logger := e.options.logger

	defer func() {
		if p := recover(); p != nil {
			logger.Error("PPTX processing failed", "panic", p)
			res.Err = fmt.Errorf("extraction panicked: %v", p)
		}
	}()

	if !e.options.skipReadiness {
		if err := e.adapter.CheckReady(ctx); err != nil {
			logger.Error("OCR engine not properly configured; ensure Tesseract is installed", "error", err)
			return Result{Err: err}
		}
	}

	r, err := open(src, size)
	if err != nil {
		if errors.Is(err, pptx.ErrNoSlides) {
			logger.Info("presentation has no slides")
			return res
		}
		logger.Error("PPTX processing failed", "error", err)
		return Result{Err: err}
	}
	defer r.Close()

	n := r.SlideCount()
	res.Slides = make([]SlideRecord, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("extraction cancelled", "processed", len(res.Slides), "error", err)
			res.Err = err
			break
		}

		slide, err := r.Slide(i)
		if err != nil {
			logger.Error("PPTX processing failed", "slide", i+1, "error", err)
			res.Err = err
			break
		}
		res.Slides = append(res.Slides, e.AssembleSlide(ctx, slide))
	}

	res.SlideCount = len(res.Slides)
	return res
}

// open checks the container format and opens the presentation.
func open(src io.ReaderAt, size int64) (*pptx.Reader, error) {
	f, err := format.Check(src, size)
	if err != nil {
		if errors.Is(err, format.ErrUnsupported) {
			return nil, fmt.Errorf("%w: %s", err, f)
		}
		return nil, fmt.Errorf("detecting format: %w", err)
	}
	return pptx.New(src, size)
}
