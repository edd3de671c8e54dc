// Package word2vec implements embedding-average retrieval. Word vectors are
// trained with CBOW and negative sampling; a document or query is the mean
// of its token vectors, where a token without a vector counts as zero.
package word2vec

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/retrieval/embed"
)

// Options configures the word2vec model.
type Options struct {
	embed.Options `yaml:",inline"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{Options: embed.DefaultOptions()}
}

// Kind implements retrieval.Options.
func (o Options) Kind() retrieval.Kind { return retrieval.Word2Vec }

// Train fits word vectors to docs.
func (o Options) Train(ctx context.Context, docs [][]string) (retrieval.State, error) {
	vocab, err := embed.BuildVocabulary(docs, o.MinCount)
	if err != nil {
		return nil, err
	}

	rng := embed.NewRand(o.Seed, "word2vec")
	in := embed.NewRandomMatrix(vocab.Len(), o.VectorSize, rng)
	out := embed.NewMatrix(vocab.Len(), o.VectorSize)
	sampler := embed.NewSampler(vocab.Counts)

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
		for _, sent := range sentences {
			for i, target := range sent {
				alpha := embed.Alpha(o.Alpha, o.MinAlpha, float64(processed)/float64(total))
				processed++

				lo, hi := embed.ContextWindow(i, len(sent), o.Window, rng)
				embed.Zero(h)
				n := 0
				for j := lo; j < hi; j++ {
					if j != i {
						embed.Axpy(1, in.Row(sent[j]), h)
						n++
					}
				}
				if n == 0 {
					continue
				}
				embed.Scale(1/float64(n), h)

				embed.Zero(grad)
				embed.NegativeSampling(h, target, out, sampler, rng, o.Negative, alpha, grad, false)
				for j := lo; j < hi; j++ {
					if j != i {
						embed.Axpy(1, grad, in.Row(sent[j]))
					}
				}
			}
		}
		logger.DebugContext(ctx, "word2vec epoch done", "epoch", epoch+1, "of", o.Epochs)
	}

	s := &State{Options: o, Vocab: vocab, Vectors: in}
	s.docVecs = s.documentVectors(docs)
	return s, nil
}

// State is a trained word2vec model.
type State struct {
	Options Options
	Vocab   *embed.Vocabulary
	Vectors *embed.Matrix

	// derived from the corpus at train and load time
	docVecs [][]float64
}

// Vector returns the mean of the token vectors. Tokens outside the
// vocabulary contribute zero; no tokens yields the zero vector.
func (s *State) Vector(tokens []string) []float64 {
	v := make([]float64, s.Vectors.Dim)
	if len(tokens) == 0 {
		return v
	}
	for _, tok := range tokens {
		if id, ok := s.Vocab.ID(tok); ok {
			embed.Axpy(1, s.Vectors.Row(id), v)
		}
	}
	embed.Scale(1/float64(len(tokens)), v)
	return v
}

func (s *State) documentVectors(docs [][]string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, tokens := range docs {
		out[i] = s.Vector(tokens)
	}
	return out
}

// Score implements retrieval.State.
func (s *State) Score(tokens []string) []float64 {
	q := s.Vector(tokens)
	scores := make([]float64, len(s.docVecs))
	for i, d := range s.docVecs {
		scores[i] = retrieval.Cosine(q, d)
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

// Decode restores a State written by MarshalBinary and recomputes the
// document vectors for docs.
func Decode(data []byte, docs [][]string) (retrieval.State, error) {
	var f stateFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode word2vec state: %w", err)
	}
	s := State(f)
	if s.Vocab == nil {
		return nil, fmt.Errorf("word2vec state has no vocabulary")
	}
	if err := s.Vectors.Check(len(s.Vocab.Words), s.Options.VectorSize); err != nil {
		return nil, fmt.Errorf("word2vec vectors: %w", err)
	}
	s.Vocab.Reindex()
	s.docVecs = s.documentVectors(docs)
	return &s, nil
}
