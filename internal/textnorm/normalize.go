// Package textnorm turns raw question and answer text into the token stream
// every retrieval model trains and queries on.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinTokenLen is the shortest token kept, in runes.
	MinTokenLen = 2
	// MaxTokenLen is the longest token kept, in runes.
	MaxTokenLen = 15
)

// Normalize lowercases text, folds diacritics, splits on every rune that is
// not a letter or digit and drops tokens outside [MinTokenLen, MaxTokenLen].
// Training and query paths must both go through this function so that their
// vectors share a space.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}

	folded := Fold(text)

	var tokens []string
	for _, field := range strings.FieldsFunc(folded, isSeparator) {
		n := utf8.RuneCountInString(field)
		if n < MinTokenLen || n > MaxTokenLen {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// Fold lowercases text and strips combining marks ("é" becomes "e").
func Fold(text string) string {
	// transform.Chain keeps state, so a fresh chain per call keeps Fold safe
	// for concurrent use.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(out)
}

// Join normalizes text and joins the tokens with single spaces.
func Join(text string) string {
	return strings.Join(Normalize(text), " ")
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
