// Package retrieval ranks corpus records by similarity to a question. It
// owns the model lifecycle (Builder to Model), the ranking rules and the
// on-disk cache bundle. The scoring algorithms live in the lexical,
// word2vec and doc2vec subpackages.
package retrieval

import (
	"context"
	"encoding"
	"time"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/textnorm"
)

// State holds the trained parameters of one model. A State is read-only
// once produced, so Score may be called concurrently.
type State interface {
	// Score returns the similarity of the query tokens to every corpus row,
	// in corpus order.
	Score(tokens []string) []float64
	encoding.BinaryMarshaler
}

// Options configures training for one model kind.
type Options interface {
	Kind() Kind
	Validate() error
	// Train fits a State to the tokenized documents. It returns ctx.Err()
	// if ctx is cancelled between epochs.
	Train(ctx context.Context, docs [][]string) (State, error)
}

// Decoder restores a State from the bytes written by its MarshalBinary.
// docs are the tokenized documents of the cached corpus.
type Decoder func(data []byte, docs [][]string) (State, error)

// Model is a trained, ask-capable model. It never changes after it is
// produced, which makes Ask safe for concurrent use.
type Model struct {
	kind      Kind
	id        string
	trainedAt time.Time
	corpus    *corpus.Corpus
	state     State
}

// Kind returns the model kind.
func (m *Model) Kind() Kind { return m.kind }

// ID identifies the training run that produced the model.
func (m *Model) ID() string { return m.id }

// TrainedAt returns when the model was trained.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Corpus returns a copy of the corpus the model was trained on.
func (m *Model) Corpus() *corpus.Corpus { return m.corpus.Clone() }

// Ask returns the numRank records most similar to query, most similar first.
// numRank 0 yields an empty list; a negative numRank is rejected.
func (m *Model) Ask(ctx context.Context, query string, numRank int) ([]Result, error) {
	if numRank < 0 {
		return nil, validationError("ask", "num_rank must not be negative, got %d", numRank)
	}
	if numRank == 0 {
		return []Result{}, nil
	}

	tokens := textnorm.Normalize(query)
	scores := m.state.Score(tokens)
	if len(scores) != m.corpus.Len() {
		return nil, stateError("ask", "model scored %d rows for a corpus of %d", len(scores), m.corpus.Len())
	}

	results := Rank(m.corpus, scores, numRank)

	logger := contextutil.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "ranked corpus",
		"model", m.kind.String(),
		"tokens", len(tokens),
		"results", len(results),
	)
	return results, nil
}

// Tokenize normalizes the training field of every record.
func Tokenize(c *corpus.Corpus) [][]string {
	docs := c.Documents()
	out := make([][]string, len(docs))
	for i, d := range docs {
		out[i] = textnorm.Normalize(d)
	}
	return out
}
