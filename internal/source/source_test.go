package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tsawler/slidetext/internal/config"
)

type fakeS3 struct {
	objects map[string][]byte
	err     error
	bucket  string
	key     string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[f.key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestDocument(t *testing.T) {
	doc := NewDocument("deck.pptx", []byte("hello"))
	if doc.Size() != 5 {
		t.Errorf("Size() = %d, want 5", doc.Size())
	}
	buf := make([]byte, 3)
	if _, err := doc.ReadAt(buf, 2); err != nil || string(buf) != "llo" {
		t.Errorf("ReadAt() = %q, %v", buf, err)
	}
}

func TestLocalFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, []byte("PK"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Local{}.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if doc.Name != path || doc.Size() != 2 {
		t.Errorf("Fetch() = %q size %d", doc.Name, doc.Size())
	}

	if _, err := (Local{}).Fetch(context.Background(), filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}
}

func TestS3Fetch(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{"uploads/deck.pptx": []byte("deck-bytes")}}
	fetcher := NewS3WithClient(client, "decks")

	doc, err := fetcher.Fetch(context.Background(), "uploads/deck.pptx")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if client.bucket != "decks" || client.key != "uploads/deck.pptx" {
		t.Errorf("GetObject(%q, %q)", client.bucket, client.key)
	}
	data, _ := io.ReadAll(doc)
	if string(data) != "deck-bytes" {
		t.Errorf("body = %q", data)
	}
}

func TestS3FetchErrors(t *testing.T) {
	fetcher := NewS3WithClient(&fakeS3{}, "decks")
	if _, err := fetcher.Fetch(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key error = %v, want ErrNotFound", err)
	}

	denied := errors.New("AccessDenied")
	fetcher = NewS3WithClient(&fakeS3{err: denied}, "decks")
	if _, err := fetcher.Fetch(context.Background(), "deck.pptx"); !errors.Is(err, denied) {
		t.Errorf("error = %v, want wrapped AccessDenied", err)
	}
}

func stubRemote(t *testing.T, f Fetcher) *config.Config {
	t.Helper()
	old := newRemote
	t.Cleanup(func() { newRemote = old })

	var seen config.Config
	newRemote = func(ctx context.Context, cfg config.Config) (Fetcher, error) {
		seen = cfg
		return f, nil
	}
	return &seen
}

func TestResolveLocal(t *testing.T) {
	stubRemote(t, NewS3WithClient(&fakeS3{err: errors.New("should not be called")}, "b"))

	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Resolve(context.Background(), config.Config{}, path, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if doc.Name != path {
		t.Errorf("Name = %q, want %q", doc.Name, path)
	}
}

func TestResolveRemote(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{"k/deck.pptx": []byte("remote")}}
	seen := stubRemote(t, NewS3WithClient(client, "decks"))

	doc, err := Resolve(context.Background(), config.Config{Bucket: "decks", Region: "us-east-2"}, "k/deck.pptx", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if doc.Size() != int64(len("remote")) {
		t.Errorf("Size() = %d", doc.Size())
	}
	if seen.Bucket != "decks" || seen.Region != "us-east-2" {
		t.Errorf("remote created with %+v", *seen)
	}
}

func TestResolveMissingBucket(t *testing.T) {
	stubRemote(t, NewS3WithClient(&fakeS3{}, ""))

	_, err := Resolve(context.Background(), config.Config{}, "not/a/local/file.pptx", nil)
	if !errors.Is(err, config.ErrMissingBucket) {
		t.Errorf("Resolve() error = %v, want ErrMissingBucket", err)
	}
}
