// Package eval measures retrieval quality on question sets where question i
// is answered by corpus record i.
package eval

import (
	"context"
	"fmt"

	"tanya-konstitusi/internal/retrieval"
)

// Asker ranks the corpus for a question. *retrieval.Model and
// *retrieval.Builder both satisfy it.
type Asker interface {
	Ask(ctx context.Context, query string, numRank int) ([]retrieval.Result, error)
}

// Rank returns the 0-based position of record gold in results, or -1.
func Rank(results []retrieval.Result, gold int) int {
	for pos, r := range results {
		if r.Index == gold {
			return pos
		}
	}
	return -1
}

// ReciprocalRank is 1/(position+1) of gold in results, or 0 when absent.
func ReciprocalRank(results []retrieval.Result, gold int) float64 {
	if pos := Rank(results, gold); pos >= 0 {
		return 1 / float64(pos+1)
	}
	return 0
}

// Ranks asks every question and returns the position of its gold record
// in the top numRank, or -1.
func Ranks(ctx context.Context, m Asker, questions []string, numRank int) ([]int, error) {
	ranks := make([]int, len(questions))
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := m.Ask(ctx, q, numRank)
		if err != nil {
			return nil, fmt.Errorf("ask question %d: %w", i, err)
		}
		ranks[i] = Rank(results, i)
	}
	return ranks, nil
}

// MRR returns the mean reciprocal rank over questions, looking at the top
// numRank results of each.
func MRR(ctx context.Context, m Asker, questions []string, numRank int) (float64, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	ranks, err := Ranks(ctx, m, questions, numRank)
	if err != nil {
		return 0, err
	}
	return MeanReciprocal(ranks), nil
}

// MeanReciprocal averages 1/(rank+1) over ranks, counting -1 as 0.
func MeanReciprocal(ranks []int) float64 {
	if len(ranks) == 0 {
		return 0
	}
	var sum float64
	for _, pos := range ranks {
		if pos >= 0 {
			sum += 1 / float64(pos+1)
		}
	}
	return sum / float64(len(ranks))
}

// Top1 counts the questions whose gold record ranks first.
func Top1(ctx context.Context, m Asker, questions []string) (int, error) {
	ranks, err := Ranks(ctx, m, questions, 1)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, pos := range ranks {
		if pos == 0 {
			n++
		}
	}
	return n, nil
}

// Histogram counts how many questions landed at each rank; -1 collects the
// misses.
func Histogram(ranks []int) map[int]int {
	h := make(map[int]int)
	for _, r := range ranks {
		h[r]++
	}
	return h
}
