package retrieval

import (
	"fmt"
	"strings"
)

// Kind selects one of the three retrieval models. The set is closed: a Kind
// is validated once with ParseKind and passed around typed afterwards.
type Kind int

const (
	TFIDF Kind = iota + 1
	Word2Vec
	Doc2Vec
)

var kindNames = map[Kind]string{
	TFIDF:    "tfidf",
	Word2Vec: "word2vec",
	Doc2Vec:  "doc2vec",
}

// Kinds returns every model kind in a fixed order.
func Kinds() []Kind {
	return []Kind{TFIDF, Word2Vec, Doc2Vec}
}

// ParseKind maps a name such as "tfidf" to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, &Error{Op: "parse kind", Class: ErrValidation, Err: fmt.Errorf("unknown model %q", s)}
}

// String returns the model name used in URLs, config and cache file names.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, &Error{Op: "marshal kind", Class: ErrValidation, Err: fmt.Errorf("unknown model %d", int(k))}
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so kinds can be read
// straight from env vars, flags and YAML.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
