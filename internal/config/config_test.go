package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/retrieval"
)

var envVars = []string{
	"CACHE_DIR", "CORPUS_PATH", "DOCUMENT_KEY", "OPTIONS_PATH", "API_PORT",
	"QA_MODELS", "NUM_RANK", "ENABLE_PROOFING", "DICTIONARY_PATH",
	"CUSTOM_DICTIONARY_PATH", "LOG_LEVEL", "LOG_FORMAT",
}

// isolateEnv unsets every config variable and moves into an empty directory
// so no .env file is picked up. Both are restored on cleanup.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
		_ = os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		checkConfig func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			checkConfig: func(t *testing.T, cfg *Config) {
				want := &Config{
					CacheDir:       ".cache",
					CorpusPath:     "dataset.tsv",
					DocumentKey:    corpus.KeyDocument,
					APIPort:        "9000",
					Models:         []retrieval.Kind{retrieval.TFIDF, retrieval.Word2Vec, retrieval.Doc2Vec},
					NumRank:        10,
					DictionaryPath: "data/kamus.txt",
					LogLevel:       slog.LevelInfo,
					LogFormat:      "text",
				}
				if !reflect.DeepEqual(cfg, want) {
					t.Errorf("Load() = %+v, want %+v", cfg, want)
				}
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"CACHE_DIR":       "/var/cache/qa",
				"QA_MODELS":       "doc2vec,TFIDF",
				"NUM_RANK":        "3",
				"DOCUMENT_KEY":    "context",
				"ENABLE_PROOFING": "true",
				"LOG_LEVEL":       "debug",
				"LOG_FORMAT":      "json",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.CacheDir != "/var/cache/qa" {
					t.Errorf("CacheDir = %q", cfg.CacheDir)
				}
				if want := []retrieval.Kind{retrieval.Doc2Vec, retrieval.TFIDF}; !reflect.DeepEqual(cfg.Models, want) {
					t.Errorf("Models = %v, want %v", cfg.Models, want)
				}
				if cfg.NumRank != 3 {
					t.Errorf("NumRank = %d, want 3", cfg.NumRank)
				}
				if cfg.DocumentKey != corpus.KeyContext {
					t.Errorf("DocumentKey = %q", cfg.DocumentKey)
				}
				if !cfg.EnableProofing {
					t.Error("EnableProofing = false, want true")
				}
				if cfg.LogLevel != slog.LevelDebug {
					t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
				}
				if cfg.LogFormat != "json" {
					t.Errorf("LogFormat = %q", cfg.LogFormat)
				}
			},
		},
		{
			name:    "unknown model",
			env:     map[string]string{"QA_MODELS": "tfidf,bm25"},
			wantErr: true,
		},
		{
			name:    "repeated model",
			env:     map[string]string{"QA_MODELS": "tfidf,doc2vec,TFIDF"},
			wantErr: true,
		},
		{
			name:    "invalid NUM_RANK",
			env:     map[string]string{"NUM_RANK": "ten"},
			wantErr: true,
		},
		{
			name:    "zero NUM_RANK",
			env:     map[string]string{"NUM_RANK": "0"},
			wantErr: true,
		},
		{
			name:    "invalid LOG_LEVEL",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "invalid LOG_FORMAT",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name:    "invalid DOCUMENT_KEY",
			env:     map[string]string{"DOCUMENT_KEY": "keywords"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				_ = os.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil {
				tt.checkConfig(t, cfg)
			}
		})
	}
}

func TestLoad_DotEnvInParent(t *testing.T) {
	isolateEnv(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("CACHE_DIR=from-dotenv\nNUM_RANK=4\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	nested := filepath.Join(root, "cmd", "api")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	t.Chdir(nested)
	t.Cleanup(func() {
		_ = os.Unsetenv("CACHE_DIR")
		_ = os.Unsetenv("NUM_RANK")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CacheDir != "from-dotenv" || cfg.NumRank != 4 {
		t.Errorf("Load() ignored parent .env: %+v", cfg)
	}
}

func TestLoad_EnvironmentBeatsDotEnv(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("API_PORT=1111\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Chdir(dir)
	_ = os.Setenv("API_PORT", "2222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "2222" {
		t.Errorf("APIPort = %q, want 2222", cfg.APIPort)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		CacheDir:    ".cache",
		DocumentKey: corpus.KeyDocument,
		APIPort:     "9000",
		Models:      []retrieval.Kind{retrieval.TFIDF},
		NumRank:     10,
		LogFormat:   "text",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty cache dir", mutate: func(c *Config) { c.CacheDir = " " }, wantErr: true},
		{name: "no models", mutate: func(c *Config) { c.Models = nil }, wantErr: true},
		{name: "repeated model", mutate: func(c *Config) {
			c.Models = []retrieval.Kind{retrieval.TFIDF, retrieval.Doc2Vec, retrieval.TFIDF}
		}, wantErr: true},
		{name: "proofing without dictionary", mutate: func(c *Config) {
			c.EnableProofing = true
			c.DictionaryPath = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: slog.LevelWarn, LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "model", "tfidf")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"model":"tfidf"`) {
		t.Errorf("expected JSON warn record, got %s", out)
	}
}
