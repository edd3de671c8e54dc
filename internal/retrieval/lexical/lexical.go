// Package lexical implements TF-IDF retrieval: raw term counts weighted by
// smoothed inverse document frequency, L2-normalized rows and cosine
// scoring.
package lexical

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"sort"

	"tanya-konstitusi/internal/retrieval"
)

// ErrNoTerms is returned when no term survives the document-frequency cut.
var ErrNoTerms = errors.New("corpus has no terms")

// Options configures the TF-IDF model.
type Options struct {
	// MinDF drops terms that occur in fewer documents.
	MinDF int `yaml:"min_df"`
}

// DefaultOptions keeps every term.
func DefaultOptions() Options {
	return Options{MinDF: 1}
}

// Kind implements retrieval.Options.
func (o Options) Kind() retrieval.Kind { return retrieval.TFIDF }

// Validate implements retrieval.Options.
func (o Options) Validate() error {
	if o.MinDF < 1 {
		return fmt.Errorf("min_df must be at least 1, got %d", o.MinDF)
	}
	return nil
}

// Train builds the vocabulary, the idf weights and the document matrix.
func (o Options) Train(ctx context.Context, docs [][]string) (retrieval.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	df := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term, n := range df {
		if n >= o.MinDF {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}
	// Sorted vocabulary keeps column order stable across runs.
	sort.Strings(terms)

	s := &State{
		Options: o,
		Terms:   terms,
		IDF:     make([]float64, len(terms)),
		Rows:    make([]Row, len(docs)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		s.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	s.index()

	for i, tokens := range docs {
		s.Rows[i] = s.vectorize(tokens)
	}
	return s, nil
}

// Row is one sparse, L2-normalized document vector. Cols is ascending.
type Row struct {
	Cols []int
	Vals []float64
}

// State is a trained TF-IDF model.
type State struct {
	Options Options
	Terms   []string
	IDF     []float64
	Rows    []Row

	vocab map[string]int
}

func (s *State) index() {
	s.vocab = make(map[string]int, len(s.Terms))
	for i, t := range s.Terms {
		s.vocab[t] = i
	}
}

// vectorize weights raw term counts by idf and normalizes the result.
// Unknown terms are ignored.
func (s *State) vectorize(tokens []string) Row {
	counts := make(map[int]int)
	for _, tok := range tokens {
		if col, ok := s.vocab[tok]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return Row{}
	}

	cols := make([]int, 0, len(counts))
	for col := range counts {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	vals := make([]float64, len(cols))
	var norm float64
	for i, col := range cols {
		vals[i] = float64(counts[col]) * s.IDF[col]
		norm += vals[i] * vals[i]
	}
	norm = math.Sqrt(norm)
	for i := range vals {
		vals[i] /= norm
	}
	return Row{Cols: cols, Vals: vals}
}

// Score implements retrieval.State. Rows and query are unit length, so the
// cosine is their dot product; an empty query scores 0 everywhere.
func (s *State) Score(tokens []string) []float64 {
	q := s.vectorize(tokens)
	weights := make(map[int]float64, len(q.Cols))
	for i, col := range q.Cols {
		weights[col] = q.Vals[i]
	}

	scores := make([]float64, len(s.Rows))
	if len(weights) == 0 {
		return scores
	}
	for i, row := range s.Rows {
		var dot float64
		for j, col := range row.Cols {
			if w, ok := weights[col]; ok {
				dot += row.Vals[j] * w
			}
		}
		scores[i] = dot
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
		return nil, fmt.Errorf("decode tfidf state: %w", err)
	}
	s := State(f)
	if len(s.Terms) != len(s.IDF) {
		return nil, fmt.Errorf("tfidf state has %d terms and %d idf weights", len(s.Terms), len(s.IDF))
	}
	if len(s.Rows) != len(docs) {
		return nil, fmt.Errorf("tfidf state has %d rows for a corpus of %d", len(s.Rows), len(docs))
	}
	for i, row := range s.Rows {
		if len(row.Cols) != len(row.Vals) {
			return nil, fmt.Errorf("tfidf row %d has %d columns and %d values", i, len(row.Cols), len(row.Vals))
		}
	}
	s.index()
	return &s, nil
}
