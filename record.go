package slidetext

import "encoding/json"

// SlideStats holds the per-slide image and OCR counters.
// OCRSuccessful is never greater than TotalImages.
type SlideStats struct {
	TotalImages   int `json:"total_images"`
	OCRSuccessful int `json:"ocr_successful"`
}

// SlideRecord is the extraction output for one slide.
type SlideRecord struct {
	Slide int        `json:"slide"` // 1-based position in the presentation
	Text  string     `json:"text"`
	Notes *string    `json:"notes"` // nil when the slide has no notes text
	Stats SlideStats `json:"stats"`
}

// HasOCR reports whether any OCR segment was added to the slide text.
func (r SlideRecord) HasOCR() bool {
	return r.Stats.OCRSuccessful > 0
}

// Result is the outcome of one pipeline run.
//
// In count-only mode only SlideCount is meaningful. In full mode Slides holds
// one record per processed slide, in slide order. Err records the first
// condition that degraded the run (parse failure, engine not ready, corrupt
// slide); the data in Result is still the data to report.
type Result struct {
	CountOnly  bool
	SlideCount int
	Slides     []SlideRecord
	Err        error
}

// countPayload is the count-only wire form.
type countPayload struct {
	SlideCount int `json:"slideCount"`
}

// MarshalJSON encodes the result as {"slideCount": n} in count-only mode and
// as an array of slide records otherwise. An empty run encodes as [].
func (r Result) MarshalJSON() ([]byte, error) {
	if r.CountOnly {
		return json.Marshal(countPayload{SlideCount: r.SlideCount})
	}
	slides := r.Slides
	if slides == nil {
		slides = []SlideRecord{}
	}
	return json.Marshal(slides)
}

// OK reports whether the run completed without degradation.
func (r Result) OK() bool {
	return r.Err == nil
}
