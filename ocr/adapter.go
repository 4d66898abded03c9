package ocr

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"golang.org/x/image/draw"
)

// Outcome is the result of a single recognition attempt. Err is set when the
// image could not be decoded or the engine failed; Text is then empty.
type Outcome struct {
	Text string
	Err  error
}

// OK reports whether the attempt produced usable text.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Text != ""
}

// Adapter wraps an Engine with image normalization and converts every
// engine failure into an empty result.
type Adapter struct {
	engine Engine
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for OCR diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter creates an Adapter around engine.
func NewAdapter(engine Engine, opts ...Option) *Adapter {
	a := &Adapter{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Recognize returns the text recognized in an encoded image, or an empty
// string if there is none or recognition failed. Failures are logged and
// never returned.
func (a *Adapter) Recognize(ctx context.Context, data []byte) string {
	out := a.Attempt(ctx, data)
	switch {
	case out.Err != nil:
		a.logger.Warn("OCR error", "error", out.Err)
	case out.Text == "":
		a.logger.Debug("OCR produced no text")
	default:
		a.logger.Debug("OCR succeeded", "chars", len(out.Text))
	}
	return out.Text
}

// Attempt decodes, normalizes and recognizes an encoded image.
func (a *Adapter) Attempt(ctx context.Context, data []byte) Outcome {
	if a.engine == nil {
		return Outcome{Err: ErrEngineUnavailable}
	}

	img, _, err := Decode(data)
	if err != nil {
		return Outcome{Err: err}
	}

	normalized, err := EncodePNG(Normalize(img))
	if err != nil {
		return Outcome{Err: err}
	}

	text, err := a.engine.Recognize(ctx, normalized)
	if err != nil {
		return Outcome{Err: fmt.Errorf("recognizing image: %w", err)}
	}
	return Outcome{Text: strings.TrimSpace(text)}
}

// CheckReady performs one recognition of a blank image to verify that the
// engine is callable. It returns the engine error, if any.
func (a *Adapter) CheckReady(ctx context.Context) error {
	if a.engine == nil {
		return ErrEngineUnavailable
	}

	blank := image.NewRGBA(image.Rect(0, 0, 100, 30))
	draw.Draw(blank, blank.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	data, err := EncodePNG(blank)
	if err != nil {
		return err
	}
	if _, err := a.engine.Recognize(ctx, data); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return nil
}

// Ready reports whether the engine is callable, logging the reason when it
// is not. Call it once before a run instead of discovering a misconfigured
// engine through one failure per image.
func (a *Adapter) Ready(ctx context.Context) bool {
	if err := a.CheckReady(ctx); err != nil {
		a.logger.Error("OCR engine not properly configured; ensure Tesseract is installed", "error", err)
		return false
	}
	return true
}
