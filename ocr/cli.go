package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// runFunc runs an executable with stdin and returns its standard output.
type runFunc func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// CLI is an Engine that runs the tesseract executable once per image.
// Images are passed on standard input and text is read from standard output,
// so nothing is written to disk.
type CLI struct {
	path string
	cfg  Config
	run  runFunc
}

// NewCLI creates an engine for the tesseract executable at path.
func NewCLI(path string, cfg Config) *CLI {
	return &CLI{path: path, cfg: cfg, run: runCommand}
}

// Path returns the executable the engine runs.
func (c *CLI) Path() string {
	return c.path
}

// Args returns the command line arguments passed to tesseract.
func (c *CLI) Args() []string {
	args := []string{"stdin", "stdout",
		"--oem", strconv.Itoa(c.cfg.EngineMode),
		"--psm", strconv.Itoa(int(c.cfg.PageSegMode)),
	}
	if len(c.cfg.Languages) > 0 {
		args = append(args, "-l", strings.Join(c.cfg.Languages, "+"))
	}
	return args
}

// Recognize runs tesseract on image and returns the trimmed output.
func (c *CLI) Recognize(ctx context.Context, image []byte) (string, error) {
	if c.path == "" {
		return "", eris.Wrap(ErrEngineUnavailable, "tesseract executable not configured")
	}

	out, err := c.run(ctx, image, c.path, c.Args()...)
	if err != nil {
		return "", eris.Wrapf(err, "running %s", c.path)
	}
	return strings.TrimSpace(string(out)), nil
}

// Version returns the first line of "tesseract --version".
func (c *CLI) Version(ctx context.Context) (string, error) {
	if c.path == "" {
		return "", eris.Wrap(ErrEngineUnavailable, "tesseract executable not configured")
	}

	out, err := c.run(ctx, nil, c.path, "--version")
	if err != nil {
		return "", eris.Wrapf(err, "running %s --version", c.path)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// Close is a no-op; the CLI engine holds no resources between calls.
func (c *CLI) Close() error {
	return nil
}

func runCommand(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, eris.Wrap(err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
