// Package deps carries the services screens need, so the screen
// constructors don't grow a parameter per dependency.
package deps

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/scoring"
	"github.com/abhisek/examiz/internal/tutor"
)

// Explainer asks a tutor to explain a question. *tutor.Service implements it.
type Explainer interface {
	Explain(ctx context.Context, in tutor.Input) (*tutor.Explanation, error)
}

// Deps is shared by every screen of one app run.
type Deps struct {
	Source  bank.Source
	Weights bank.Weights
	Policy  scoring.Policy

	// Tutor is nil when no LLM provider is configured.
	Tutor Explainer
	Log   *zap.Logger

	DefaultLength question.Length
	// ExportDir is where results are written when the path typed is relative.
	ExportDir string
}

// Logger returns the logger, or a no-op one.
func (d Deps) Logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Length returns DefaultLength, falling back to the shortest test.
func (d Deps) Length() question.Length {
	if d.DefaultLength.Valid() {
		return d.DefaultLength
	}
	return question.LengthShort
}
