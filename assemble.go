package slidetext

import (
	"context"
	"strings"

	"github.com/tsawler/slidetext/pptx"
)

// ocrSegment delimits recognized text so consumers can tell it apart from
// native slide text.
func ocrSegment(text string) string {
	return "[OCR Text: " + text + "]"
}

// AssembleSlide builds the record for one slide. Shapes are visited in
// document order; text shapes contribute their trimmed text and pictures
// contribute an OCR segment when recognition yields text. A picture that
// cannot be read or recognized is counted and otherwise skipped.
func (e *Extractor) AssembleSlide(ctx context.Context, slide *pptx.Slide) SlideRecord {
	logger := e.options.logger
	rec := SlideRecord{Slide: slide.Number}

	var fragments []string
	for _, sh := range slide.Shapes {
		c := Classify(sh)
		switch c.Class {
		case ClassText:
			fragments = append(fragments, c.Text)

		case ClassPicture:
			rec.Stats.TotalImages++
			text, err := e.recognizePicture(ctx, slide, sh)
			if err != nil {
				logger.Warn("error processing image",
					"slide", slide.Number, "image", rec.Stats.TotalImages, "shape", sh.Name, "error", err)
				continue
			}
			if text == "" {
				continue
			}
			rec.Stats.OCRSuccessful++
			fragments = append(fragments, ocrSegment(text))
			logger.Debug("OCR successful for image",
				"slide", slide.Number, "image", rec.Stats.TotalImages)
		}
	}

	if slide.HasNotes {
		if notes := strings.TrimSpace(slide.Notes); notes != "" {
			rec.Notes = &notes
		}
	}

	rec.Text = strings.Join(fragments, " ")

	logger.Info("processed slide",
		"slide", slide.Number,
		"images", rec.Stats.TotalImages,
		"ocr", rec.Stats.OCRSuccessful)

	return rec
}

// recognizePicture reads a picture blob and runs it through the OCR adapter.
// The blob is released when this returns.
func (e *Extractor) recognizePicture(ctx context.Context, slide *pptx.Slide, sh pptx.Shape) (string, error) {
	if limit := e.options.maxImageBytes; limit > 0 {
		size, err := slide.ImageSize(sh)
		if err != nil {
			return "", err
		}
		if size > limit {
			return "", &ImageTooLargeError{Size: size, Limit: limit}
		}
	}

	data, err := slide.Image(sh)
	if err != nil {
		return "", err
	}
	return e.adapter.Recognize(ctx, data), nil
}
