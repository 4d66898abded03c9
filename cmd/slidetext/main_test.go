package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/slidetext/internal/config"
	"github.com/tsawler/slidetext/internal/pptxtest"
	"github.com/tsawler/slidetext/ocr"
)

type constEngine struct{ text string }

func (e constEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	return e.text, nil
}

func (e constEngine) Close() error { return nil }

func setup(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"S3_BUCKET_NAME", "SLIDETEXT_ENGINE", "SLIDETEXT_LOG_LEVEL", "SLIDETEXT_LANG"} {
		t.Setenv(name, "")
	}

	old := newEngine
	t.Cleanup(func() { newEngine = old })
	newEngine = func(cfg config.Config, logger *slog.Logger) (ocr.Engine, error) {
		return constEngine{text: "Scanned"}, nil
	}

	deck := pptxtest.Deck{Slides: []pptxtest.Slide{
		{Shapes: []pptxtest.Shape{pptxtest.Text("T", "Hello")}},
		{Shapes: []pptxtest.Shape{pptxtest.Picture("P", pptxtest.PNG(10, 10, false), "png")}},
	}}.MustBuild()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, deck, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExtract(t *testing.T) {
	path := setup(t)

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}

	var payload struct {
		Data []struct {
			Slide int    `json:"slide"`
			Text  string `json:"text"`
		} `json:"data"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		t.Fatalf("stdout is not JSON: %v: %s", err, stdout.String())
	}
	if len(payload.Data) != 2 || payload.Data[0].Text != "Hello" || payload.Data[1].Text != "[OCR Text: Scanned]" {
		t.Errorf("unexpected payload: %s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "processed slide") {
		t.Errorf("expected diagnostics on stderr, got %q", stderr.String())
	}
}

func TestRunCountOnly(t *testing.T) {
	path := setup(t)
	newEngine = func(cfg config.Config, logger *slog.Logger) (ocr.Engine, error) {
		t.Error("engine created in count mode")
		return nil, nil
	}

	for _, args := range [][]string{{path, "count_only"}, {path, "COUNT_ONLY"}, {"-count", path}} {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
			t.Fatalf("%v: exit %d, stderr: %s", args, code, stderr.String())
		}
		if got := strings.TrimSpace(stdout.String()); got != `{"data":{"slideCount":2}}` {
			t.Errorf("%v: stdout = %s", args, got)
		}
	}
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr); code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), `"error":"Usage:`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunMissingBucket(t *testing.T) {
	setup(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"uploads/remote-deck.pptx"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), `{"error":"S3_BUCKET_NAME environment variable not set"}`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunVerbose(t *testing.T) {
	path := setup(t)

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-v", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr.String(), "level=DEBUG") {
		t.Errorf("expected debug diagnostics with -v, got %q", stderr.String())
	}
}
