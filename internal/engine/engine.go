// Package engine binds each retrieval.Kind to its implementation: default
// options, cache decoder and cache directory.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/retrieval/doc2vec"
	"tanya-konstitusi/internal/retrieval/lexical"
	"tanya-konstitusi/internal/retrieval/word2vec"
)

// Options holds the training options of every model, as read from the
// options file.
type Options struct {
	TFIDF    lexical.Options  `yaml:"tfidf"`
	Word2Vec word2vec.Options `yaml:"word2vec"`
	Doc2Vec  doc2vec.Options  `yaml:"doc2vec"`
}

// DefaultOptions returns the documented defaults of every model.
func DefaultOptions() Options {
	return Options{
		TFIDF:    lexical.DefaultOptions(),
		Word2Vec: word2vec.DefaultOptions(),
		Doc2Vec:  doc2vec.DefaultOptions(),
	}
}

// LoadOptions reads a YAML options file. Fields the file leaves out keep
// their defaults. An empty path returns the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("cannot read options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	for _, k := range retrieval.Kinds() {
		if err := opts.For(k).Validate(); err != nil {
			return opts, fmt.Errorf("invalid %s options in %s: %w", k, path, err)
		}
	}
	return opts, nil
}

// For returns the options of kind k.
func (o Options) For(k retrieval.Kind) retrieval.Options {
	switch k {
	case retrieval.Word2Vec:
		return o.Word2Vec
	case retrieval.Doc2Vec:
		return o.Doc2Vec
	default:
		return o.TFIDF
	}
}

// Decoder returns the cache decoder of kind k.
func Decoder(k retrieval.Kind) retrieval.Decoder {
	switch k {
	case retrieval.Word2Vec:
		return word2vec.Decode
	case retrieval.Doc2Vec:
		return doc2vec.Decode
	default:
		return lexical.Decode
	}
}

// CacheDir returns the bundle directory of kind k under root.
func CacheDir(root string, k retrieval.Kind) string {
	return filepath.Join(root, k.String())
}

// NewBuilder returns a builder for kind k with c already set.
func NewBuilder(k retrieval.Kind, opts Options, c *corpus.Corpus) (*retrieval.Builder, error) {
	b, err := retrieval.NewBuilder(opts.For(k))
	if err != nil {
		return nil, err
	}
	if err := b.SetCorpus(c); err != nil {
		return nil, err
	}
	return b, nil
}

// Load restores the cached model of kind k from root.
func Load(ctx context.Context, root string, k retrieval.Kind) (*retrieval.Model, error) {
	return retrieval.Load(ctx, CacheDir(root, k), k, Decoder(k))
}

// LoadAll restores every listed kind. It stops at the first failure.
func LoadAll(ctx context.Context, root string, kinds []retrieval.Kind) (map[retrieval.Kind]*retrieval.Model, error) {
	models := make(map[retrieval.Kind]*retrieval.Model, len(kinds))
	for _, k := range kinds {
		m, err := Load(ctx, root, k)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", k, err)
		}
		models[k] = m
	}
	return models, nil
}

// TrainAll trains every listed kind on c in parallel and writes each bundle
// under root.
func TrainAll(ctx context.Context, root string, kinds []retrieval.Kind, opts Options, c *corpus.Corpus) error {
	logger := contextutil.LoggerFromContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for _, k := range kinds {
		g.Go(func() error {
			b, err := NewBuilder(k, opts, c)
			if err != nil {
				return fmt.Errorf("build %s: %w", k, err)
			}
			dir := CacheDir(root, k)
			if err := b.CreateCache(gctx, dir); err != nil {
				return fmt.Errorf("cache %s: %w", k, err)
			}
			logger.InfoContext(gctx, "model cached", "model", k.String(), "dir", dir)
			return nil
		})
	}
	return g.Wait()
}

// Clean removes everything under root except a .gitignore file and returns
// the removed names. A missing root is not an error.
func Clean(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache dir %s: %w", root, err)
	}

	var removed []string
	for _, e := range entries {
		if e.Name() == ".gitignore" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}
