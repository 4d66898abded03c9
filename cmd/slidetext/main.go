// Command slidetext prints the per-slide text of a presentation as JSON.
//
// Usage:
//
//	slidetext [-config file] [-v] [-count] <file_path_or_s3_key> [count_only]
//
// The locator is read as a local file when one exists and as a key in the
// configured S3 bucket otherwise. The result is written to stdout as
// {"data": ...}; diagnostics go to stderr, and a fatal error is reported
// there as {"error": "..."} with exit status 1.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/tsawler/slidetext"
	"github.com/tsawler/slidetext/internal/config"
	"github.com/tsawler/slidetext/internal/source"
	"github.com/tsawler/slidetext/ocr"
)

const usage = "Usage: slidetext [-config file] [-v] [-count] <file_path_or_s3_key> [count_only]"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Swappable for tests.
var newEngine = func(cfg config.Config, logger *slog.Logger) (ocr.Engine, error) {
	return cfg.NewEngine(logger)
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("slidetext", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "Path to YAML config file")
	verbose := fs.Bool("v", false, "Debug logging")
	countFlag := fs.Bool("count", false, "Only count slides")

	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		return fail(stderr, usage)
	}

	locator := fs.Arg(0)
	countOnly := *countFlag || (fs.NArg() > 1 && strings.EqualFold(fs.Arg(1), "count_only"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fail(stderr, err.Error())
	}

	level := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	doc, err := source.Resolve(ctx, cfg, locator, logger)
	if err != nil {
		return fail(stderr, err.Error())
	}

	var engine ocr.Engine
	if !countOnly {
		engine, err = newEngine(cfg, logger)
		if err != nil {
			return fail(stderr, err.Error())
		}
		defer engine.Close()
	}

	res := slidetext.New(engine).WithLogger(logger).Run(ctx, doc, doc.Size(), countOnly)

	out, err := json.Marshal(map[string]any{"data": res})
	if err != nil {
		return fail(stderr, err.Error())
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

// fail writes a JSON error object and returns exit status 1.
func fail(w io.Writer, msg string) int {
	out, _ := json.Marshal(map[string]string{"error": msg})
	fmt.Fprintln(w, string(out))
	return 1
}
