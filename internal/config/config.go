package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/retrieval"
)

// Config holds all configuration for the application.
type Config struct {
	CacheDir    string             `env:"CACHE_DIR" envDefault:".cache"`
	CorpusPath  string             `env:"CORPUS_PATH" envDefault:"dataset.tsv"`
	DocumentKey corpus.DocumentKey `env:"DOCUMENT_KEY" envDefault:"document"`
	// OptionsPath points at an optional YAML file with per-model training options.
	OptionsPath string           `env:"OPTIONS_PATH"`
	APIPort     string           `env:"API_PORT" envDefault:"9000"`
	Models      []retrieval.Kind `env:"QA_MODELS" envDefault:"tfidf,word2vec,doc2vec" envSeparator:","`
	NumRank     int              `env:"NUM_RANK" envDefault:"10"`

	EnableProofing       bool   `env:"ENABLE_PROOFING" envDefault:"false"`
	DictionaryPath       string `env:"DICTIONARY_PATH" envDefault:"data/kamus.txt"`
	CustomDictionaryPath string `env:"CUSTOM_DICTIONARY_PATH"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values env parsing cannot.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.CacheDir) == "" {
		errs = append(errs, errors.New("CACHE_DIR is required"))
	}
	if strings.TrimSpace(c.APIPort) == "" {
		errs = append(errs, errors.New("API_PORT is required"))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("QA_MODELS must name at least one model"))
	}
	seen := make(map[retrieval.Kind]bool, len(c.Models))
	for _, k := range c.Models {
		if seen[k] {
			errs = append(errs, fmt.Errorf("QA_MODELS lists %s more than once", k))
		}
		seen[k] = true
	}
	if c.NumRank <= 0 {
		errs = append(errs, fmt.Errorf("NUM_RANK must be greater than 0, got %d", c.NumRank))
	}
	if _, err := corpus.ParseDocumentKey(string(c.DocumentKey)); err != nil {
		errs = append(errs, fmt.Errorf("DOCUMENT_KEY: %w", err))
	}
	if c.EnableProofing && strings.TrimSpace(c.DictionaryPath) == "" {
		errs = append(errs, errors.New("DICTIONARY_PATH is required when ENABLE_PROOFING is set"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: c.LogLevel,
	}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// loadDotEnv loads .env from the working directory, then from the first
// parent directory that has one.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
