// Package corpus holds the question/answer table every retrieval model is
// trained on and searched against.
package corpus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty is returned when a corpus has no records.
	ErrEmpty = errors.New("corpus is empty")
	// ErrUnknownDocumentKey is returned for a document key that names no record field.
	ErrUnknownDocumentKey = errors.New("unknown document key")
)

// DocumentKey names the record field used as training text.
type DocumentKey string

const (
	KeyDocument DocumentKey = "document"
	KeyContext  DocumentKey = "context"
	KeyResponse DocumentKey = "response"
)

// ParseDocumentKey validates a document key read from config or a cache bundle.
func ParseDocumentKey(s string) (DocumentKey, error) {
	switch k := DocumentKey(strings.ToLower(strings.TrimSpace(s))); k {
	case KeyDocument, KeyContext, KeyResponse:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentKey, s)
	}
}

// Record is one corpus entry. Its identity is its position in the corpus.
type Record struct {
	Context  string `json:"context"`
	Response string `json:"response"`
	Document string `json:"document"`
}

// Field returns the text stored under key.
func (r Record) Field(key DocumentKey) string {
	switch key {
	case KeyContext:
		return r.Context
	case KeyResponse:
		return r.Response
	default:
		return r.Document
	}
}

// Corpus is an ordered, immutable set of records plus the key of the field
// models train on. Indices are stable for the lifetime of the value.
type Corpus struct {
	records []Record
	key     DocumentKey
}

// New copies records into a new Corpus.
func New(records []Record, key DocumentKey) (*Corpus, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	k, err := ParseDocumentKey(string(key))
	if err != nil {
		return nil, err
	}
	owned := make([]Record, len(records))
	copy(owned, records)
	return &Corpus{records: owned, key: k}, nil
}

// Len returns the number of records.
func (c *Corpus) Len() int { return len(c.records) }

// DocumentKey returns the training field name.
func (c *Corpus) DocumentKey() DocumentKey { return c.key }

// Record returns the record at index i.
func (c *Corpus) Record(i int) Record { return c.records[i] }

// Records returns a copy of all records in corpus order.
func (c *Corpus) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Documents returns the training text of every record in corpus order.
func (c *Corpus) Documents() []string {
	out := make([]string, len(c.records))
	for i, r := range c.records {
		out[i] = r.Field(c.key)
	}
	return out
}

// Clone returns a deep copy.
func (c *Corpus) Clone() *Corpus {
	return &Corpus{records: c.Records(), key: c.key}
}

// ComposeDocument joins non-empty parts with single spaces, the way the
// training text is built from a record's fields.
func ComposeDocument(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
