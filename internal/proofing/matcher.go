package proofing

// matcher computes the Ratcliff/Obershelp similarity of candidates against a
// fixed word: twice the number of matched runes over the total length, where
// matches are found by recursively taking the longest common block.
type matcher struct {
	b   []rune
	b2j map[rune][]int
}

func newMatcher(b []rune) *matcher {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	return &matcher{b: b, b2j: b2j}
}

func (m *matcher) ratio(a []rune) float64 {
	total := len(a) + len(m.b)
	if total == 0 {
		return 1
	}
	return 2 * float64(m.matches(a)) / float64(total)
}

func (m *matcher) matches(a []rune) int {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(m.b)}}
	n := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := m.longest(a, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		n += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return n
}

// longest finds the longest block a[i:i+k] == b[j:j+k] inside the given
// bounds, preferring the earliest i and then the earliest j.
func (m *matcher) longest(a []rune, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestk := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}
