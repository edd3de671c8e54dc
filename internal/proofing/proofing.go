// Package proofing checks question words against a dictionary and suggests
// close spellings for unknown ones. A Checker is built once and never
// mutated, so it can be shared freely.
package proofing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"tanya-konstitusi/internal/textnorm"
)

const (
	// MaxSuggestions caps the suggestions returned for one word.
	MaxSuggestions = 3
	// Cutoff is the lowest similarity ratio a suggestion may have.
	Cutoff = 0.8
)

// WordResult is the verdict for one word.
type WordResult struct {
	Word        string   `json:"word"`
	Exists      bool     `json:"exists"`
	Suggestions []string `json:"suggestion,omitempty"`
}

// Checker looks words up in a dictionary after applying a custom
// replacement map (slang and abbreviations to dictionary words).
type Checker struct {
	words     map[string]struct{}
	byInitial map[rune][]string
	custom    map[string]string
}

// New builds a Checker. Dictionary words are lowercased; blank ones are
// skipped.
func New(words []string, custom map[string]string) *Checker {
	c := &Checker{
		words:     make(map[string]struct{}, len(words)),
		byInitial: make(map[rune][]string),
		custom:    make(map[string]string, len(custom)),
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := c.words[w]; dup {
			continue
		}
		c.words[w] = struct{}{}
		first := []rune(w)[0]
		c.byInitial[first] = append(c.byInitial[first], w)
	}
	for k, v := range custom {
		c.custom[strings.ToLower(k)] = strings.ToLower(v)
	}
	return c
}

// Load reads a dictionary with one word per line and an optional JSON
// object mapping words to replacements.
func Load(dictPath, customPath string) (*Checker, error) {
	f, err := os.Open(dictPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open dictionary %s: %w", dictPath, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read dictionary %s: %w", dictPath, err)
	}

	custom := map[string]string{}
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read custom dictionary %s: %w", customPath, err)
		}
		if err := json.Unmarshal(data, &custom); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", customPath, err)
		}
	}
	return New(words, custom), nil
}

// Len returns the number of dictionary words.
func (c *Checker) Len() int { return len(c.words) }

// CheckWord replaces word through the custom map and looks it up.
// Unknown words carry up to MaxSuggestions close spellings.
func (c *Checker) CheckWord(word string) WordResult {
	if word == "" {
		return WordResult{Word: word, Suggestions: []string{}}
	}
	lower := strings.ToLower(word)
	if r, ok := c.custom[lower]; ok {
		word, lower = r, r
	}
	if _, ok := c.words[lower]; ok {
		return WordResult{Word: word, Exists: true}
	}
	return WordResult{Word: word, Suggestions: c.Suggest(lower)}
}

// CheckWords normalizes text and checks every token.
func (c *Checker) CheckWords(text string) []WordResult {
	tokens := textnorm.Normalize(text)
	out := make([]WordResult, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, c.CheckWord(tok))
	}
	return out
}

// Unknown returns the results of CheckWords that are not in the dictionary.
func (c *Checker) Unknown(text string) []WordResult {
	var out []WordResult
	for _, r := range c.CheckWords(text) {
		if !r.Exists {
			out = append(out, r)
		}
	}
	return out
}

// Suggest returns dictionary words that share the first letter of word and
// have a similarity ratio of at least Cutoff, best first.
func (c *Checker) Suggest(word string) []string {
	if word == "" {
		return []string{}
	}
	target := []rune(word)
	m := newMatcher(target)

	type scored struct {
		word  string
		score float64
	}
	var hits []scored
	for _, cand := range c.byInitial[target[0]] {
		if s := m.ratio([]rune(cand)); s >= Cutoff {
			hits = append(hits, scored{word: cand, score: s})
		}
	}
	// Ties go to the lexically larger word.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].word > hits[j].word
	})

	if len(hits) > MaxSuggestions {
		hits = hits[:MaxSuggestions]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.word
	}
	return out
}
