package bank

import (
	"errors"
	"fmt"

	"github.com/abhisek/examiz/internal/question"
)

// Load failure causes. A *LoadError wraps exactly one of these.
var (
	ErrNotFound      = errors.New("question set not found")
	ErrMalformed     = errors.New("malformed question data")
	ErrInsufficient  = errors.New("not enough questions")
	ErrUnavailable   = errors.New("question source unavailable")
	ErrInvalidLength = question.ErrInvalidLength
)

// LoadError reports a failed question load. The session is never
// populated from a load that returned an error.
type LoadError struct {
	Length question.Length
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %d questions from %s: %v", e.Length, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErr(src string, n question.Length, err error) error {
	return &LoadError{Length: n, Source: src, Err: err}
}

// ValidationError lists the semantic problems found in a question set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid questions: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid questions: %s (and %d more)", e.Problems[0], len(e.Problems)-1)
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformed
}
