// Package embed holds what the word2vec and doc2vec models share: the
// vocabulary, dense parameter matrices, the negative-sampling distribution
// and the SGD update they both train with.
package embed

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

// ErrEmptyVocabulary is returned when no token reaches the minimum count.
var ErrEmptyVocabulary = errors.New("no token reaches the minimum count")

// Options are the hyperparameters both embedding models accept.
type Options struct {
	VectorSize int     `yaml:"vector_size"`
	MinCount   int     `yaml:"min_count"`
	Epochs     int     `yaml:"epochs"`
	Window     int     `yaml:"window"`
	Negative   int     `yaml:"negative"`
	Alpha      float64 `yaml:"alpha"`
	MinAlpha   float64 `yaml:"min_alpha"`
	// Seed 0 seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		VectorSize: 50,
		MinCount:   2,
		Epochs:     40,
		Window:     5,
		Negative:   5,
		Alpha:      0.025,
		MinAlpha:   0.0001,
	}
}

// Validate checks every field is in range.
func (o Options) Validate() error {
	switch {
	case o.VectorSize < 1:
		return fmt.Errorf("vector_size must be at least 1, got %d", o.VectorSize)
	case o.MinCount < 1:
		return fmt.Errorf("min_count must be at least 1, got %d", o.MinCount)
	case o.Epochs < 1:
		return fmt.Errorf("epochs must be at least 1, got %d", o.Epochs)
	case o.Window < 1:
		return fmt.Errorf("window must be at least 1, got %d", o.Window)
	case o.Negative < 1:
		return fmt.Errorf("negative must be at least 1, got %d", o.Negative)
	case o.Alpha <= 0:
		return fmt.Errorf("alpha must be positive, got %g", o.Alpha)
	case o.MinAlpha < 0 || o.MinAlpha > o.Alpha:
		return fmt.Errorf("min_alpha must be within [0, alpha], got %g", o.MinAlpha)
	}
	return nil
}

// NewRand returns the generator a training or inference run draws from. A
// zero seed uses the clock; salt separates streams that share a seed.
func NewRand(seed uint64, salt ...string) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	h := fnv.New64a()
	for _, s := range salt {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

// Vocabulary maps tokens that occur at least MinCount times to dense ids.
// Ids are ordered by descending count, ties by token.
type Vocabulary struct {
	Words  []string
	Counts []int

	index map[string]int
}

// BuildVocabulary counts tokens across docs and keeps the frequent ones.
func BuildVocabulary(docs [][]string, minCount int) (*Vocabulary, error) {
	counts := make(map[string]int)
	for _, tokens := range docs {
		for _, tok := range tokens {
			counts[tok]++
		}
	}

	words := make([]string, 0, len(counts))
	for w, n := range counts {
		if n >= minCount {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil, ErrEmptyVocabulary
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	v := &Vocabulary{Words: words, Counts: make([]int, len(words))}
	for i, w := range words {
		v.Counts[i] = counts[w]
	}
	v.Reindex()
	return v, nil
}

// Reindex rebuilds the lookup table after decoding.
func (v *Vocabulary) Reindex() {
	v.index = make(map[string]int, len(v.Words))
	for i, w := range v.Words {
		v.index[w] = i
	}
}

// Len returns the number of words.
func (v *Vocabulary) Len() int { return len(v.Words) }

// ID returns the id of w.
func (v *Vocabulary) ID(w string) (int, bool) {
	id, ok := v.index[w]
	return id, ok
}

// IDs maps tokens to ids, dropping unknown ones.
func (v *Vocabulary) IDs(tokens []string) []int {
	ids := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if id, ok := v.index[tok]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Matrix is a dense row-major matrix of float64.
type Matrix struct {
	Rows int
	Dim  int
	Data []float64
}

// NewMatrix returns a zero matrix.
func NewMatrix(rows, dim int) *Matrix {
	return &Matrix{Rows: rows, Dim: dim, Data: make([]float64, rows*dim)}
}

// NewRandomMatrix fills each row with RandomizeVector.
func NewRandomMatrix(rows, dim int, rng *rand.Rand) *Matrix {
	m := NewMatrix(rows, dim)
	for i := 0; i < rows; i++ {
		RandomizeVector(m.Row(i), rng)
	}
	return m
}

// RandomizeVector fills v uniformly from [-0.5, 0.5) scaled by 1/len(v).
func RandomizeVector(v []float64, rng *rand.Rand) {
	scale := 1 / float64(len(v))
	for i := range v {
		v[i] = (rng.Float64() - 0.5) * scale
	}
}

// Check returns an error unless m is a rows x dim matrix whose backing
// array holds exactly rows*dim values.
func (m *Matrix) Check(rows, dim int) error {
	switch {
	case m == nil:
		return errors.New("matrix is missing")
	case m.Rows != rows || m.Dim != dim:
		return fmt.Errorf("matrix is %dx%d, want %dx%d", m.Rows, m.Dim, rows, dim)
	case len(m.Data) != rows*dim:
		return fmt.Errorf("matrix holds %d values, want %d", len(m.Data), rows*dim)
	}
	return nil
}

// Row returns row i as a slice into the backing array.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Dim : (i+1)*m.Dim]
}

// Sampler draws negative examples from the unigram distribution raised to
// the 3/4 power.
type Sampler struct {
	cum []float64
}

// NewSampler builds the cumulative distribution for counts.
func NewSampler(counts []int) *Sampler {
	cum := make([]float64, len(counts))
	var total float64
	for i, n := range counts {
		total += math.Pow(float64(n), 0.75)
		cum[i] = total
	}
	return &Sampler{cum: cum}
}

// Sample returns a word id.
func (s *Sampler) Sample(rng *rand.Rand) int {
	x := rng.Float64() * s.cum[len(s.cum)-1]
	i := sort.SearchFloat64s(s.cum, x)
	if i >= len(s.cum) {
		i = len(s.cum) - 1
	}
	return i
}

// Alpha returns the learning rate after progress in [0, 1], decaying
// linearly from start to end.
func Alpha(start, end, progress float64) float64 {
	a := start - (start-end)*progress
	if a < end {
		return end
	}
	return a
}

// NegativeSampling runs one positive and negative-many negative updates for
// the hidden vector h against target. The gradient for h is added to grad.
// Output rows are updated unless frozen.
func NegativeSampling(h []float64, target int, out *Matrix, sampler *Sampler, rng *rand.Rand, negative int, alpha float64, grad []float64, frozen bool) {
	for d := 0; d <= negative; d++ {
		word, label := target, 1.0
		if d > 0 {
			word, label = sampler.Sample(rng), 0.0
			if word == target {
				continue
			}
		}

		row := out.Row(word)
		g := (label - Sigmoid(Dot(h, row))) * alpha
		Axpy(g, row, grad)
		if !frozen {
			Axpy(g, h, row)
		}
	}
}

// ContextWindow returns the positions around i inside a window shrunk by a
// random amount, the way word2vec samples effective window sizes.
func ContextWindow(i, n, window int, rng *rand.Rand) (lo, hi int) {
	b := rng.IntN(window)
	lo = i - window + b
	if lo < 0 {
		lo = 0
	}
	hi = i + window - b + 1
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Sigmoid is the logistic function, clamped to avoid overflow.
func Sigmoid(x float64) float64 {
	switch {
	case x > 6:
		return 1 / (1 + math.Exp(-6))
	case x < -6:
		return 1 / (1 + math.Exp(6))
	}
	return 1 / (1 + math.Exp(-x))
}

// Dot returns the dot product of a and b.
func Dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// Axpy adds a*x to y.
func Axpy(a float64, x, y []float64) {
	for i := range x {
		y[i] += a * x[i]
	}
}

// Scale multiplies v by a in place.
func Scale(a float64, v []float64) {
	for i := range v {
		v[i] *= a
	}
}

// Zero clears v.
func Zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
