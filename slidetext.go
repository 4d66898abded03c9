// Package slidetext extracts per-slide text from PowerPoint presentations,
// combining native shape text and speaker notes with text recognized in
// embedded pictures.
//
// Basic usage:
//
//	engine := ocr.NewCLI("/usr/bin/tesseract", ocr.DefaultConfig())
//	res := slidetext.New(engine).RunFile(ctx, "deck.pptx", false)
//	if res.Err != nil {
//	    log.Println("extraction degraded:", res.Err)
//	}
//	for _, rec := range res.Slides {
//	    fmt.Println(rec.Slide, rec.Text)
//	}
//
// Counting slides does not touch the OCR engine:
//
//	res := slidetext.New(nil).RunFile(ctx, "deck.pptx", true)
//	fmt.Println(res.SlideCount)
//
// Extraction never returns an error. Per-picture failures are absorbed and
// logged; Result.Err reports a failure that cut the run short.
package slidetext

import "github.com/tsawler/slidetext/ocr"

// New returns an Extractor that recognizes pictures with engine. The engine
// may be nil when only counting slides. The caller keeps ownership of the
// engine and closes it when done.
func New(engine ocr.Engine) *Extractor {
	opts := defaultOptions()
	return &Extractor{
		engine:  engine,
		options: opts,
		adapter: ocr.NewAdapter(engine, ocr.WithLogger(opts.logger)),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
