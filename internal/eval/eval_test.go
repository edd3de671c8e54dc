package eval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/engine"
	"tanya-konstitusi/internal/retrieval"
)

// stubAsker answers question q with the canned index order in answers[q].
type stubAsker struct {
	answers map[string][]int
	err     error
}

func (s *stubAsker) Ask(_ context.Context, query string, numRank int) ([]retrieval.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	order := s.answers[query]
	if numRank < len(order) {
		order = order[:numRank]
	}
	out := make([]retrieval.Result, len(order))
	for i, idx := range order {
		out[i] = retrieval.Result{Index: idx}
	}
	return out, nil
}

func TestRankAndReciprocal(t *testing.T) {
	results := []retrieval.Result{{Index: 4}, {Index: 2}, {Index: 7}}

	assert.Equal(t, 1, Rank(results, 2))
	assert.Equal(t, -1, Rank(results, 9))
	assert.InDelta(t, 1.0/3, ReciprocalRank(results, 7), 1e-12)
	assert.Zero(t, ReciprocalRank(results, 9))
}

func TestMRR(t *testing.T) {
	m := &stubAsker{answers: map[string][]int{
		"q0": {0, 1, 2},
		"q1": {0, 1, 2},
		"q2": {0, 1, 3},
	}}
	questions := []string{"q0", "q1", "q2"}

	got, err := MRR(context.Background(), m, questions, 10)
	require.NoError(t, err)
	assert.InDelta(t, (1.0+0.5+0)/3, got, 1e-12)

	got, err = MRR(context.Background(), m, questions, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, got, 1e-12)

	got, err = MRR(context.Background(), m, nil, 10)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestMeanReciprocal(t *testing.T) {
	assert.Zero(t, MeanReciprocal(nil))
	assert.InDelta(t, (1.0+0.5+0+0.25)/4, MeanReciprocal([]int{0, 1, -1, 3}), 1e-12)
}

func TestTop1(t *testing.T) {
	m := &stubAsker{answers: map[string][]int{
		"q0": {0, 1},
		"q1": {1, 0},
		"q2": {1, 2},
	}}

	got, err := Top1(context.Background(), m, []string{"q0", "q1", "q2"})
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestRanks_Error(t *testing.T) {
	m := &stubAsker{err: errors.New("boom")}
	_, err := Ranks(context.Background(), m, []string{"q"}, 5)
	assert.Error(t, err)
}

func TestHistogram(t *testing.T) {
	assert.Equal(t, map[int]int{0: 2, 3: 1, -1: 1}, Histogram([]int{0, 3, -1, 0}))
}

func TestParseParam(t *testing.T) {
	p, err := ParseParam("epochs")
	require.NoError(t, err)
	assert.Equal(t, ParamEpochs, p)

	_, err = ParseParam("window")
	assert.Error(t, err)
}

func TestSweep_Validate(t *testing.T) {
	base := Sweep{Kind: retrieval.Word2Vec, Param: ParamEpochs, From: 1, To: 3}
	assert.NoError(t, base.Validate())

	bad := base
	bad.Kind = retrieval.TFIDF
	assert.Error(t, bad.Validate())

	bad = base
	bad.From, bad.To = 3, 1
	assert.Error(t, bad.Validate())

	bad = base
	bad.Param = "window"
	assert.Error(t, bad.Validate())
}

func TestTune(t *testing.T) {
	records := []corpus.Record{
		{Context: "Apa tugas MPR", Response: "Mengubah dan menetapkan UUD"},
		{Context: "Apa tugas DPR", Response: "Membuat undang undang"},
		{Context: "Siapa yang melantik presiden", Response: "MPR melantik presiden"},
	}
	for i := range records {
		records[i].Document = corpus.ComposeDocument(records[i].Context, records[i].Response)
	}
	c, err := corpus.New(records, corpus.KeyDocument)
	require.NoError(t, err)

	base := engine.DefaultOptions()
	base.Doc2Vec.VectorSize = 8
	base.Doc2Vec.MinCount = 1
	base.Doc2Vec.Seed = 5

	points, err := Tune(context.Background(), Sweep{
		Kind:    retrieval.Doc2Vec,
		Param:   ParamEpochs,
		From:    1,
		To:      4,
		Base:    base,
		Workers: 2,
	}, c)
	require.NoError(t, err)
	require.Len(t, points, 4)
	for i, p := range points {
		assert.Equal(t, i+1, p.Value)
		assert.GreaterOrEqual(t, p.Correct, 0)
		assert.LessOrEqual(t, p.Correct, len(records))
	}
}

func TestSweep_OptionsDoNotLeak(t *testing.T) {
	s := Sweep{Kind: retrieval.Word2Vec, Param: ParamVectorSize, Base: engine.DefaultOptions()}
	o := s.options(12)

	assert.Equal(t, 12, o.Word2Vec.VectorSize)
	assert.Equal(t, 50, o.Doc2Vec.VectorSize)
	assert.Equal(t, 50, s.Base.Word2Vec.VectorSize)
}
