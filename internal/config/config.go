// Package config resolves slidetext settings once at startup from defaults,
// a .env file, an optional YAML file and the environment, and builds the OCR
// engine from them.
package config

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/slidetext/ocr"
)

// ErrMissingBucket is returned when a remote object is requested but no
// bucket is configured.
var ErrMissingBucket = errors.New("S3_BUCKET_NAME environment variable not set")

// ErrTesseractNotFound is returned when no tesseract executable can be found.
var ErrTesseractNotFound = errors.New("tesseract not found in PATH or default location")

// Engine names accepted by the engine setting.
const (
	EngineCLI     = "cli"
	EngineLibrary = "library"
)

// Config holds the resolved settings.
type Config struct {
	Bucket       string   `yaml:"bucket"`
	Region       string   `yaml:"region"`
	TesseractCmd string   `yaml:"tesseract_cmd"`
	Engine       string   `yaml:"engine"`
	Languages    []string `yaml:"languages"`
	ListenAddr   string   `yaml:"listen_addr"`
	APIKey       string   `yaml:"api_key"`
	LogLevel     string   `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Engine:     EngineCLI,
		Languages:  []string{"eng"},
		ListenAddr: ":8080",
		LogLevel:   "info",
	}
}

// Environment variables read by Load. Each overrides the matching YAML key.
var envVars = []struct {
	name string
	set  func(*Config, string)
}{
	{"S3_BUCKET_NAME", func(c *Config, v string) { c.Bucket = v }},
	{"AWS_REGION", func(c *Config, v string) { c.Region = v }},
	{"TESSERACT_CMD", func(c *Config, v string) { c.TesseractCmd = v }},
	{"SLIDETEXT_ENGINE", func(c *Config, v string) { c.Engine = strings.ToLower(v) }},
	{"SLIDETEXT_LANG", func(c *Config, v string) { c.Languages = splitLanguages(v) }},
	{"SLIDETEXT_ADDR", func(c *Config, v string) { c.ListenAddr = v }},
	{"API_KEY", func(c *Config, v string) { c.APIKey = v }},
	{"SLIDETEXT_LOG_LEVEL", func(c *Config, v string) { c.LogLevel = v }},
}

// Load resolves the configuration. A .env file in the working directory is
// loaded into the environment if present (existing variables win). path may
// be empty; otherwise the YAML file must exist.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, eris.Wrap(err, "loading .env")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, eris.Wrapf(err, "reading config file %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, eris.Wrapf(err, "parsing config file %s", path)
		}
	}

	for _, ev := range envVars {
		if v, ok := os.LookupEnv(ev.name); ok && v != "" {
			ev.set(&cfg, v)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have a fixed set of values.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineCLI, EngineLibrary:
	default:
		return eris.Errorf("unknown OCR engine %q (want %q or %q)", c.Engine, EngineCLI, EngineLibrary)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// RequireBucket returns ErrMissingBucket when no bucket is configured.
func (c Config) RequireBucket() error {
	if c.Bucket == "" {
		return ErrMissingBucket
	}
	return nil
}

// OCRConfig returns the recognition settings for the engine.
func (c Config) OCRConfig() ocr.Config {
	oc := ocr.DefaultConfig()
	if len(c.Languages) > 0 {
		oc.Languages = append([]string(nil), c.Languages...)
	}
	return oc
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, eris.Wrapf(err, "invalid log level %q", s)
	}
	return l, nil
}

func splitLanguages(s string) []string {
	var langs []string
	for _, l := range strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' }) {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// Swappable for tests.
var (
	lookPath = exec.LookPath
	goos     = runtime.GOOS
	statFile = os.Stat
)

// defaultTesseractPaths returns the install locations tried after PATH.
func defaultTesseractPaths() []string {
	if goos == "windows" {
		return []string{`C:\Program Files\Tesseract-OCR\tesseract.exe`}
	}
	return []string{"/usr/bin/tesseract", "/usr/local/bin/tesseract", "/opt/homebrew/bin/tesseract"}
}

// ResolveTesseract finds the tesseract executable: override if it names an
// existing file or an executable on PATH, then "tesseract" on PATH, then the
// platform's default install locations.
func ResolveTesseract(override string) (string, error) {
	if override != "" {
		if isFile(override) {
			return override, nil
		}
		if p, err := lookPath(override); err == nil {
			return p, nil
		}
		return "", eris.Wrapf(ErrTesseractNotFound, "configured tesseract %q does not exist", override)
	}

	if p, err := lookPath("tesseract"); err == nil {
		return p, nil
	}
	for _, p := range defaultTesseractPaths() {
		if isFile(p) {
			return p, nil
		}
	}
	return "", ErrTesseractNotFound
}

func isFile(path string) bool {
	info, err := statFile(path)
	return err == nil && !info.IsDir()
}

// NewEngine builds the configured OCR engine. For the CLI engine the
// executable is resolved here, once; an unresolved executable is not an
// error but yields an engine that fails readiness.
func (c Config) NewEngine(logger *slog.Logger) (ocr.Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch c.Engine {
	case EngineLibrary:
		engine, err := ocr.NewTesseract(c.OCRConfig())
		if err != nil {
			return nil, eris.Wrap(err, "creating tesseract library engine")
		}
		return engine, nil

	case EngineCLI, "":
		path, err := ResolveTesseract(c.TesseractCmd)
		if err != nil {
			logger.Warn("tesseract not found; OCR will not work", "error", err)
			return ocr.NewCLI("", c.OCRConfig()), nil
		}
		logger.Info("using tesseract", "path", path)
		return ocr.NewCLI(path, c.OCRConfig()), nil

	default:
		return nil, eris.Errorf("unknown OCR engine %q", c.Engine)
	}
}
