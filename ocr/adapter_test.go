package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"
)

// fakeEngine is an Engine that returns canned results and records its input.
type fakeEngine struct {
	text   string
	err    error
	calls  int
	images [][]byte
}

func (f *fakeEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	f.calls++
	f.images = append(f.images, image)
	return f.text, f.err
}

func (f *fakeEngine) Close() error { return nil }

func whitePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}
	return encodePNG(t, img)
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestAdapterRecognize(t *testing.T) {
	engine := &fakeEngine{text: "  Quarterly revenue \n"}
	var logs bytes.Buffer
	a := NewAdapter(engine, WithLogger(newTestLogger(&logs)))

	got := a.Recognize(context.Background(), whitePNG(t))
	if got != "Quarterly revenue" {
		t.Errorf("Recognize() = %q, want %q", got, "Quarterly revenue")
	}
	if engine.calls != 1 {
		t.Fatalf("engine calls = %d, want 1", engine.calls)
	}

	// The engine receives the normalized grayscale PNG, not the original.
	img, kind, err := Decode(engine.images[0])
	if err != nil || kind != "png" {
		t.Fatalf("engine input not a png: %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("engine input decoded as %T, want *image.Gray", img)
	}
	if !strings.Contains(logs.String(), "OCR succeeded") {
		t.Errorf("expected success diagnostic, got %q", logs.String())
	}
}

func TestAdapterRecognizeEngineError(t *testing.T) {
	engine := &fakeEngine{err: errors.New("tesseract crashed")}
	var logs bytes.Buffer
	a := NewAdapter(engine, WithLogger(newTestLogger(&logs)))

	if got := a.Recognize(context.Background(), whitePNG(t)); got != "" {
		t.Errorf("Recognize() = %q, want empty", got)
	}
	if !strings.Contains(logs.String(), "tesseract crashed") {
		t.Errorf("expected engine error in diagnostics, got %q", logs.String())
	}
}

func TestAdapterRecognizeUndecodable(t *testing.T) {
	engine := &fakeEngine{text: "never"}
	a := NewAdapter(engine, WithLogger(newTestLogger(&bytes.Buffer{})))

	if got := a.Recognize(context.Background(), []byte("garbage")); got != "" {
		t.Errorf("Recognize() = %q, want empty", got)
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times for undecodable image", engine.calls)
	}
}

func TestAdapterRecognizeWhitespaceOnly(t *testing.T) {
	a := NewAdapter(&fakeEngine{text: " \n\t "}, WithLogger(newTestLogger(&bytes.Buffer{})))

	out := a.Attempt(context.Background(), whitePNG(t))
	if out.Err != nil {
		t.Fatalf("Attempt error: %v", out.Err)
	}
	if out.Text != "" || out.OK() {
		t.Errorf("Attempt() = %+v, want empty and not OK", out)
	}
}

func TestAdapterNilEngine(t *testing.T) {
	a := NewAdapter(nil)

	out := a.Attempt(context.Background(), whitePNG(t))
	if !errors.Is(out.Err, ErrEngineUnavailable) {
		t.Errorf("Attempt error = %v, want ErrEngineUnavailable", out.Err)
	}
	if a.Recognize(context.Background(), whitePNG(t)) != "" {
		t.Error("Recognize with nil engine should be empty")
	}
}

func TestAdapterReady(t *testing.T) {
	engine := &fakeEngine{}
	a := NewAdapter(engine, WithLogger(newTestLogger(&bytes.Buffer{})))

	if !a.Ready(context.Background()) {
		t.Error("Ready() = false, want true")
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", engine.calls)
	}

	img, _, err := Decode(engine.images[0])
	if err != nil {
		t.Fatalf("probe image not decodable: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 30 {
		t.Errorf("probe image bounds = %v, want 100x30", b)
	}
}

func TestAdapterNotReady(t *testing.T) {
	var logs bytes.Buffer
	a := NewAdapter(&fakeEngine{err: errors.New("exec: not found")}, WithLogger(newTestLogger(&logs)))

	if a.Ready(context.Background()) {
		t.Error("Ready() = true, want false")
	}
	if err := a.CheckReady(context.Background()); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("CheckReady() = %v, want ErrEngineUnavailable", err)
	}
	if !strings.Contains(logs.String(), "level=ERROR") {
		t.Errorf("expected error diagnostic, got %q", logs.String())
	}
}
