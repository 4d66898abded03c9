// Package source retrieves presentation bytes from a local path or an S3
// object key.
package source

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/rotisserie/eris"

	"github.com/tsawler/slidetext/internal/config"
)

// ErrNotFound is returned when the locator names nothing that exists.
var ErrNotFound = errors.New("source: document not found")

// Document is a fetched presentation held in memory. It implements
// io.ReaderAt and reports its size, which is what the pptx reader needs.
type Document struct {
	*bytes.Reader
	Name string // Locator the document was fetched from
}

// NewDocument wraps data.
func NewDocument(name string, data []byte) *Document {
	return &Document{Reader: bytes.NewReader(data), Name: name}
}

// Fetcher retrieves a document by locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*Document, error)
}

// Local reads documents from the filesystem.
type Local struct{}

// Fetch reads the file at path.
func (Local) Fetch(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrNotFound, "local file %s", path)
		}
		return nil, eris.Wrapf(err, "reading %s", path)
	}
	return NewDocument(path, data), nil
}

// IsLocal reports whether locator names an existing regular file.
func IsLocal(locator string) bool {
	info, err := os.Stat(locator)
	return err == nil && info.Mode().IsRegular()
}

// newRemote creates the fetcher for object keys. Swappable for tests.
var newRemote = func(ctx context.Context, cfg config.Config) (Fetcher, error) {
	return NewS3(ctx, cfg.Bucket, cfg.Region)
}

// Resolve fetches locator as a local file when one exists and as an object
// key in the configured bucket otherwise. A missing bucket is reported as
// config.ErrMissingBucket.
func Resolve(ctx context.Context, cfg config.Config, locator string, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if IsLocal(locator) {
		logger.Info("processing local file", "path", locator)
		return Local{}.Fetch(ctx, locator)
	}

	logger.Info("processing S3 key", "key", locator)
	if err := cfg.RequireBucket(); err != nil {
		return nil, err
	}

	remote, err := newRemote(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return remote.Fetch(ctx, locator)
}
