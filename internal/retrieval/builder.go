package retrieval

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/corpus"
)

// Builder collects a corpus and options and trains them into a Model. The
// corpus is fixed once a model has been trained; new options only take
// effect through Retrain. A Builder is meant for a single caller.
type Builder struct {
	opts   Options
	corpus *corpus.Corpus
	model  *Model
}

// NewBuilder returns an untrained builder for the kind of opts.
func NewBuilder(opts Options) (*Builder, error) {
	if opts == nil || !opts.Kind().Valid() {
		return nil, validationError("new builder", "options must name a known model")
	}
	return &Builder{opts: opts}, nil
}

// Kind returns the model kind the builder trains.
func (b *Builder) Kind() Kind { return b.opts.Kind() }

// Options returns the options the next training run will use.
func (b *Builder) Options() Options { return b.opts }

// SetCorpus stores a private copy of c. It fails with ErrState once a model
// has been trained.
func (b *Builder) SetCorpus(c *corpus.Corpus) error {
	if b.model != nil {
		return stateError("set corpus", "corpus is fixed after training")
	}
	if c == nil || c.Len() == 0 {
		return validationError("set corpus", "corpus is empty")
	}
	b.corpus = c.Clone()
	return nil
}

// SetOptions replaces the training options. A trained model is unaffected
// until Retrain.
func (b *Builder) SetOptions(opts Options) error {
	if opts == nil || opts.Kind() != b.opts.Kind() {
		return validationError("set options", "options do not match model %s", b.opts.Kind())
	}
	b.opts = opts
	return nil
}

// Model returns the trained model, if any.
func (b *Builder) Model() (*Model, bool) {
	return b.model, b.model != nil
}

// Train trains the model on first use and returns it. Later calls return the
// same model.
func (b *Builder) Train(ctx context.Context) (*Model, error) {
	if b.model != nil {
		return b.model, nil
	}
	return b.Retrain(ctx)
}

// Retrain trains a fresh model with the current options and replaces the
// previous one. On failure the previous model is kept.
func (b *Builder) Retrain(ctx context.Context) (*Model, error) {
	if b.corpus == nil {
		return nil, stateError("train", "no corpus set")
	}
	if err := b.opts.Validate(); err != nil {
		return nil, &Error{Op: "train", Class: ErrValidation, Err: err}
	}

	logger := contextutil.LoggerFromContext(ctx)
	kind := b.opts.Kind()
	start := time.Now()

	state, err := b.opts.Train(ctx, Tokenize(b.corpus))
	if err != nil {
		var rerr *Error
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.As(err, &rerr):
			return nil, err
		default:
			return nil, &Error{Op: "train", Class: ErrValidation, Err: err}
		}
	}

	b.model = &Model{
		kind:      kind,
		id:        uuid.NewString(),
		trainedAt: time.Now().UTC(),
		corpus:    b.corpus,
		state:     state,
	}

	logger.InfoContext(ctx, "model trained",
		"model", kind.String(),
		"id", b.model.id,
		"records", b.corpus.Len(),
		"duration", time.Since(start),
	)
	return b.model, nil
}

// Ask trains lazily and then ranks the corpus against query.
func (b *Builder) Ask(ctx context.Context, query string, numRank int) ([]Result, error) {
	m, err := b.Train(ctx)
	if err != nil {
		return nil, err
	}
	return m.Ask(ctx, query, numRank)
}

// CreateCache trains lazily and writes the cache bundle to dir.
func (b *Builder) CreateCache(ctx context.Context, dir string) error {
	m, err := b.Train(ctx)
	if err != nil {
		return err
	}
	return m.SaveCache(ctx, dir)
}
