// Package doc2vec implements paragraph-embedding retrieval (PV-DM). Every
// corpus row gets a learned vector tagged by its index; a query vector is
// inferred against the frozen word and output weights.
package doc2vec

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/retrieval/embed"
)

// Options configures the doc2vec model. With Seed 0, training and query
// inference are seeded from the clock and repeated queries may score
// slightly differently.
type Options struct {
	embed.Options `yaml:",inline"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{Options: embed.DefaultOptions()}
}

// Kind implements retrieval.Options.
func (o Options) Kind() retrieval.Kind { return retrieval.Doc2Vec }

// Train learns word, tag and output weights jointly over docs.
func (o Options) Train(ctx context.Context, docs [][]string) (retrieval.State, error) {
	vocab, err := embed.BuildVocabulary(docs, o.MinCount)
	if err != nil {
		return nil, err
	}

	rng := embed.NewRand(o.Seed, "doc2vec")
	s := &State{
		Options: o,
		Vocab:   vocab,
		Words:   embed.NewRandomMatrix(vocab.Len(), o.VectorSize, rng),
		Tags:    embed.NewRandomMatrix(len(docs), o.VectorSize, rng),
		Output:  embed.NewMatrix(vocab.Len(), o.VectorSize),
	}
	s.sampler = embed.NewSampler(vocab.Counts)

	sentences := make([][]int, len(docs))
	total := 0
	for i, tokens := range docs {
		sentences[i] = vocab.IDs(tokens)
		total += len(sentences[i])
	}
	total *= o.Epochs

	logger := contextutil.LoggerFromContext(ctx)
	h := make([]float64, o.VectorSize)
	grad := make([]float64, o.VectorSize)
	processed := 0

	for epoch := 0; epoch < o.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for d, sent := range sentences {
			tag := s.Tags.Row(d)
			for i := range sent {
				alpha := embed.Alpha(o.Alpha, o.MinAlpha, float64(processed)/float64(total))
				processed++
				s.step(tag, sent, i, h, grad, alpha, rng, false)
			}
		}
		logger.DebugContext(ctx, "doc2vec epoch done", "epoch", epoch+1, "of", o.Epochs)
	}

	// Refit every tag against the final weights exactly as a query is
	// inferred, so a row's own text lands on its own tag.
	for d, tokens := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		copy(s.Tags.Row(d), s.Infer(tokens))
	}
	return s, nil
}

// State is a trained doc2vec model.
type State struct {
	Options Options
	Vocab   *embed.Vocabulary
	Words   *embed.Matrix
	Tags    *embed.Matrix
	Output  *embed.Matrix

	sampler *embed.Sampler
}

// step predicts sent[i] from the tag vector and the surrounding words, then
// applies the gradient to the tag and, unless frozen, to the context words
// and output weights.
func (s *State) step(tag []float64, sent []int, i int, h, grad []float64, alpha float64, rng *rand.Rand, frozen bool) {
	lo, hi := embed.ContextWindow(i, len(sent), s.Options.Window, rng)

	copy(h, tag)
	n := 1
	for j := lo; j < hi; j++ {
		if j != i {
			embed.Axpy(1, s.Words.Row(sent[j]), h)
			n++
		}
	}
	embed.Scale(1/float64(n), h)

	embed.Zero(grad)
	embed.NegativeSampling(h, sent[i], s.Output, s.sampler, rng, s.Options.Negative, alpha, grad, frozen)

	embed.Axpy(1, grad, tag)
	if frozen {
		return
	}
	for j := lo; j < hi; j++ {
		if j != i {
			embed.Axpy(1, grad, s.Words.Row(sent[j]))
		}
	}
}

// Infer returns a paragraph vector for tokens. Only the new vector is
// trained; the model weights are read-only, so Infer is safe for concurrent
// use. Tokens outside the vocabulary are ignored; with none left the random
// starting vector is returned.
func (s *State) Infer(tokens []string) []float64 {
	rng := embed.NewRand(s.Options.Seed, append([]string{"infer"}, tokens...)...)

	v := make([]float64, s.Options.VectorSize)
	embed.RandomizeVector(v, rng)

	sent := s.Vocab.IDs(tokens)
	if len(sent) == 0 {
		return v
	}

	h := make([]float64, s.Options.VectorSize)
	grad := make([]float64, s.Options.VectorSize)
	epochs := s.Options.Epochs
	for epoch := 0; epoch < epochs; epoch++ {
		alpha := embed.Alpha(s.Options.Alpha, s.Options.MinAlpha, float64(epoch)/float64(epochs))
		for i := range sent {
			s.step(v, sent, i, h, grad, alpha, rng, true)
		}
	}
	return v
}

// Score implements retrieval.State. Rows are scored by their tag vectors.
func (s *State) Score(tokens []string) []float64 {
	q := s.Infer(tokens)
	scores := make([]float64, s.Tags.Rows)
	for i := range scores {
		scores[i] = retrieval.Cosine(q, s.Tags.Row(i))
	}
	return scores
}

// stateFile has State's fields without its methods; gob would otherwise
// call MarshalBinary on itself.
type stateFile State

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *State) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode((*stateFile)(s)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode restores a State written by MarshalBinary.
func Decode(data []byte, docs [][]string) (retrieval.State, error) {
	var f stateFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode doc2vec state: %w", err)
	}
	s := State(f)
	if s.Vocab == nil {
		return nil, fmt.Errorf("doc2vec state has no vocabulary")
	}
	n, dim := len(s.Vocab.Words), s.Options.VectorSize
	if len(s.Vocab.Counts) != n {
		return nil, fmt.Errorf("doc2vec state has %d counts for %d words", len(s.Vocab.Counts), n)
	}
	if err := s.Words.Check(n, dim); err != nil {
		return nil, fmt.Errorf("doc2vec word vectors: %w", err)
	}
	if err := s.Output.Check(n, dim); err != nil {
		return nil, fmt.Errorf("doc2vec output weights: %w", err)
	}
	if err := s.Tags.Check(len(docs), dim); err != nil {
		return nil, fmt.Errorf("doc2vec tags for a corpus of %d: %w", len(docs), err)
	}
	s.Vocab.Reindex()
	s.sampler = embed.NewSampler(s.Vocab.Counts)
	return &s, nil
}
