package service

import (
	"errors"
	"fmt"
	"strings"

	"tanya-konstitusi/internal/proofing"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable is returned when the requested model is not loaded.
	ErrUnavailable = errors.New("model unavailable")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets callers match any ValidationError with ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ProofingError is returned when a question contains words the dictionary
// does not know.
type ProofingError struct {
	Words []proofing.WordResult
}

func (e *ProofingError) Error() string {
	words := make([]string, len(e.Words))
	for i, w := range e.Words {
		words[i] = w.Word
	}
	return fmt.Sprintf("unknown words in question: %s", strings.Join(words, ", "))
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
