package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Composition selects which columns make up Record.Document.
type Composition string

const (
	// ComposeContextResponse is "<context> <response>".
	ComposeContextResponse Composition = "context_response"
	// ComposeKeywordsContextResponse is "<keywords> <context> <response>".
	ComposeKeywordsContextResponse Composition = "keywords_context_response"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// LoadOptions configures dataset ingestion.
type LoadOptions struct {
	Composition Composition
	DocumentKey DocumentKey
}

// LoadFile reads a tab-separated dataset from path.
func LoadFile(path string, opts LoadOptions) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	c, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return c, nil
}

// Load reads a tab-separated dataset whose header has at least Context and
// Response columns (Keywords optional). Fields may be wrapped in single
// quotes; a doubled quote inside a quoted field is a literal quote.
func Load(r io.Reader, opts LoadOptions) (*Corpus, error) {
	if opts.Composition == "" {
		opts.Composition = ComposeContextResponse
	}
	if opts.DocumentKey == "" {
		opts.DocumentKey = KeyDocument
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEmpty
	}
	header := splitRow(scanner.Text())
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	contextCol, ok := cols["context"]
	if !ok {
		return nil, fmt.Errorf("%w: Context", ErrMissingColumn)
	}
	responseCol, ok := cols["response"]
	if !ok {
		return nil, fmt.Errorf("%w: Response", ErrMissingColumn)
	}
	keywordsCol, hasKeywords := cols["keywords"]
	if opts.Composition == ComposeKeywordsContextResponse && !hasKeywords {
		return nil, fmt.Errorf("%w: Keywords", ErrMissingColumn)
	}

	var records []Record
	line := 1
	for scanner.Scan() {
		line++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		fields := splitRow(raw)
		get := func(i int) string {
			if i < len(fields) {
				return strings.TrimSpace(fields[i])
			}
			return ""
		}

		rec := Record{
			Context:  get(contextCol),
			Response: get(responseCol),
		}
		if rec.Context == "" && rec.Response == "" {
			return nil, fmt.Errorf("line %d: empty context and response", line)
		}
		switch opts.Composition {
		case ComposeKeywordsContextResponse:
			rec.Document = ComposeDocument(get(keywordsCol), rec.Context, rec.Response)
		case ComposeContextResponse:
			rec.Document = ComposeDocument(rec.Context, rec.Response)
		default:
			return nil, fmt.Errorf("unknown composition %q", opts.Composition)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return New(records, opts.DocumentKey)
}

func splitRow(line string) []string {
	parts := strings.Split(strings.TrimRight(line, "\r"), "\t")
	for i, p := range parts {
		parts[i] = unquote(p)
	}
	return parts
}

func unquote(field string) string {
	if len(field) >= 2 && strings.HasPrefix(field, "'") && strings.HasSuffix(field, "'") {
		return strings.ReplaceAll(field[1:len(field)-1], "''", "'")
	}
	return field
}
