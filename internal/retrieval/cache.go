package retrieval

import (
	"bufio"
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/storage"
)

const lockName = ".lock"

// ModelPath returns the trained-parameters file of a bundle.
func ModelPath(dir string, k Kind) string {
	return filepath.Join(dir, k.String()+"_model")
}

// CorpusPath returns the corpus snapshot file of a bundle.
func CorpusPath(dir string, k Kind) string {
	return filepath.Join(dir, k.String()+"_corpus.db")
}

// DocumentKeyPath returns the document key file of a bundle.
func DocumentKeyPath(dir string, k Kind) string {
	return filepath.Join(dir, k.String()+"_document_key")
}

// BundlePaths lists the three artifacts of a bundle.
func BundlePaths(dir string, k Kind) []string {
	return []string{ModelPath(dir, k), CorpusPath(dir, k), DocumentKeyPath(dir, k)}
}

// modelFile is the gob payload of <kind>_model.
type modelFile struct {
	Kind      string
	ID        string
	TrainedAt time.Time
	State     []byte
}

// SaveCache writes the model parameters, the corpus snapshot and the
// document key under dir, holding an exclusive lock on dir for the duration.
// The three writes are not atomic as a group; Load rejects a bundle that is
// missing any of them.
func (m *Model) SaveCache(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError("create cache", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	if err := lock.Lock(); err != nil {
		return ioError("lock cache", dir, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	state, err := m.state.MarshalBinary()
	if err != nil {
		return ioError("encode model", dir, err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(modelFile{
		Kind:      m.kind.String(),
		ID:        m.id,
		TrainedAt: m.trainedAt,
		State:     state,
	}); err != nil {
		return ioError("encode model", dir, err)
	}

	modelPath := ModelPath(dir, m.kind)
	if err := os.WriteFile(modelPath, buf.Bytes(), 0o644); err != nil {
		return ioError("write model", modelPath, err)
	}

	corpusPath := CorpusPath(dir, m.kind)
	if err := storage.WriteSnapshot(ctx, corpusPath, m.corpus); err != nil {
		return ioError("write corpus", corpusPath, err)
	}

	keyPath := DocumentKeyPath(dir, m.kind)
	if err := os.WriteFile(keyPath, []byte(m.corpus.DocumentKey()), 0o644); err != nil {
		return ioError("write document key", keyPath, err)
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "cache created",
		"model", m.kind.String(),
		"id", m.id,
		"dir", dir,
	)
	return nil
}

// Load restores a model of the given kind from the bundle in dir. Every
// artifact is checked before anything is read; a missing one fails with
// ErrCache and no model is returned.
func Load(ctx context.Context, dir string, kind Kind, decode Decoder) (*Model, error) {
	if !kind.Valid() {
		return nil, validationError("load", "unknown model %s", kind)
	}

	for _, p := range BundlePaths(dir, kind) {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, cacheError("load", p, err)
			}
			return nil, ioError("load", p, err)
		}
	}

	lock := flock.New(filepath.Join(dir, lockName))
	if err := lock.RLock(); err != nil {
		return nil, ioError("lock cache", dir, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	keyPath := DocumentKeyPath(dir, kind)
	rawKey, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, ioError("read document key", keyPath, err)
	}
	key, err := corpus.ParseDocumentKey(strings.TrimSpace(string(rawKey)))
	if err != nil {
		return nil, cacheError("read document key", keyPath, err)
	}

	corpusPath := CorpusPath(dir, kind)
	records, err := storage.ReadSnapshot(ctx, corpusPath)
	if err != nil {
		return nil, cacheError("read corpus", corpusPath, err)
	}
	c, err := corpus.New(records, key)
	if err != nil {
		return nil, cacheError("read corpus", corpusPath, err)
	}

	modelPath := ModelPath(dir, kind)
	f, err := os.Open(modelPath)
	if err != nil {
		return nil, ioError("read model", modelPath, err)
	}
	defer f.Close()

	var mf modelFile
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&mf); err != nil {
		return nil, cacheError("read model", modelPath, err)
	}
	if mf.Kind != kind.String() {
		return nil, cacheError("read model", modelPath, fmt.Errorf("bundle holds a %s model", mf.Kind))
	}

	state, err := decode(mf.State, Tokenize(c))
	if err != nil {
		return nil, cacheError("read model", modelPath, err)
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "cache loaded",
		"model", kind.String(),
		"id", mf.ID,
		"records", c.Len(),
		"dir", dir,
	)

	return &Model{
		kind:      kind,
		id:        mf.ID,
		trainedAt: mf.TrainedAt,
		corpus:    c,
		state:     state,
	}, nil
}
