package eval

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/engine"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/retrieval/embed"
)

// Param is the option a sweep varies.
type Param string

const (
	ParamVectorSize Param = "vector_size"
	ParamEpochs     Param = "epochs"
)

// ParseParam validates a sweep parameter name.
func ParseParam(s string) (Param, error) {
	switch p := Param(s); p {
	case ParamVectorSize, ParamEpochs:
		return p, nil
	default:
		return "", fmt.Errorf("unknown tuning parameter %q", s)
	}
}

// Sweep trains one embedding model per value of Param in [From, To] and
// counts top-1 self-retrievals of each record's context question.
type Sweep struct {
	Kind    retrieval.Kind
	Param   Param
	From    int
	To      int
	Base    engine.Options
	Workers int
}

// Point is the outcome for one parameter value.
type Point struct {
	Value   int `json:"value"`
	Correct int `json:"correct"`
}

// Validate checks the sweep is runnable.
func (s Sweep) Validate() error {
	if s.Kind != retrieval.Word2Vec && s.Kind != retrieval.Doc2Vec {
		return fmt.Errorf("tuning supports word2vec and doc2vec, got %s", s.Kind)
	}
	if _, err := ParseParam(string(s.Param)); err != nil {
		return err
	}
	if s.From < 1 || s.To < s.From {
		return fmt.Errorf("invalid range [%d, %d]", s.From, s.To)
	}
	return nil
}

// options returns the base options of the sweep kind with Param set to v.
func (s Sweep) options(v int) engine.Options {
	opts := s.Base
	var e *embed.Options
	if s.Kind == retrieval.Word2Vec {
		e = &opts.Word2Vec.Options
	} else {
		e = &opts.Doc2Vec.Options
	}
	switch s.Param {
	case ParamVectorSize:
		e.VectorSize = v
	case ParamEpochs:
		e.Epochs = v
	}
	return opts
}

// Tune runs the sweep with at most Workers trainings at once. Points are
// returned in ascending value order.
func Tune(ctx context.Context, s Sweep, c *corpus.Corpus) ([]Point, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	workers := s.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	questions := make([]string, c.Len())
	for i := range questions {
		questions[i] = c.Record(i).Context
	}

	logger := contextutil.LoggerFromContext(ctx)
	points := make([]Point, s.To-s.From+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for v := s.From; v <= s.To; v++ {
		g.Go(func() error {
			b, err := engine.NewBuilder(s.Kind, s.options(v), c)
			if err != nil {
				return err
			}
			correct, err := Top1(gctx, b, questions)
			if err != nil {
				return fmt.Errorf("%s %s=%d: %w", s.Kind, s.Param, v, err)
			}
			points[v-s.From] = Point{Value: v, Correct: correct}
			logger.InfoContext(gctx, "tuning point done",
				"model", s.Kind.String(),
				string(s.Param), v,
				"correct", correct,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Value < points[j].Value })
	return points, nil
}
