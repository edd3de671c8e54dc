package retrieval

import (
	"math"
	"sort"

	"tanya-konstitusi/internal/corpus"
)

// Result is one ranked corpus record.
type Result struct {
	Index      int           `json:"index"`
	Record     corpus.Record `json:"record"`
	Similarity float64       `json:"similarity"`
}

// Cosine returns the cosine similarity of a and b. It is 0 when either
// vector has zero norm.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0
	}
	return dot / den
}

// Rank orders the corpus by descending score and keeps the first numRank
// rows. Equal scores keep corpus order. numRank larger than the corpus
// returns every row.
func Rank(c *corpus.Corpus, scores []float64, numRank int) []Result {
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return scores[idxs[a]] > scores[idxs[b]]
	})

	if numRank > len(idxs) {
		numRank = len(idxs)
	}
	results := make([]Result, 0, numRank)
	for _, i := range idxs[:numRank] {
		results = append(results, Result{
			Index:      i,
			Record:     c.Record(i),
			Similarity: scores[i],
		})
	}
	return results
}
