package bank

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/examiz/internal/question"
)

//go:embed data/sample_bank.json
var sampleBank []byte

// PoolFunc returns the full question bank a PoolSource selects from.
type PoolFunc func(ctx context.Context) ([]question.Question, error)

// PoolSource draws each test from a full bank with weighted category
// selection, so repeated loads give different tests unless Seed is set.
type PoolSource struct {
	name    string
	pool    PoolFunc
	Weights Weights
	// Seed fixes selection when non-zero.
	Seed uint64
}

// NewPoolSource returns a PoolSource over pool.
func NewPoolSource(name string, pool PoolFunc, w Weights, seed uint64) *PoolSource {
	if len(w) == 0 {
		w = DefaultWeights
	}
	return &PoolSource{name: name, pool: pool, Weights: w, Seed: seed}
}

// NewFileSource selects from a bank file (JSON or YAML). The file is
// read once and cached.
func NewFileSource(path string, w Weights, seed uint64) *PoolSource {
	load := sync.OnceValues(func() ([]question.Question, error) {
		return DecodeFile(path)
	})
	return NewPoolSource("bank:"+path, func(context.Context) ([]question.Question, error) {
		return load()
	}, w, seed)
}

// NewEmbeddedSource selects from the sample bank compiled into the binary.
func NewEmbeddedSource(w Weights, seed uint64) *PoolSource {
	return NewPoolSource("embedded", func(context.Context) ([]question.Question, error) {
		return EmbeddedBank()
	}, w, seed)
}

var embeddedBank = sync.OnceValues(func() ([]question.Question, error) {
	return Decode(sampleBank, FormatJSON)
})

// EmbeddedBank returns a copy of the built-in sample bank.
func EmbeddedBank() ([]question.Question, error) {
	qs, err := embeddedBank()
	if err != nil {
		return nil, fmt.Errorf("embedded bank: %w", err)
	}
	return question.CloneAll(qs), nil
}

// QuestionLister is the read side of a question store.
type QuestionLister interface {
	All(ctx context.Context) ([]question.Question, error)
}

// NewStoreSource selects from questions imported into a store.
func NewStoreSource(name string, store QuestionLister, w Weights, seed uint64) *PoolSource {
	return NewPoolSource(name, func(ctx context.Context) ([]question.Question, error) {
		qs, err := store.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if len(qs) == 0 {
			return nil, fmt.Errorf("%w: store is empty", ErrNotFound)
		}
		return qs, nil
	}, w, seed)
}

func (p *PoolSource) Name() string { return p.name }

func (p *PoolSource) Questions(ctx context.Context, n question.Length) ([]question.Question, error) {
	if !n.Valid() {
		return nil, loadErr(p.name, n, ErrInvalidLength)
	}
	pool, err := p.pool(ctx)
	if err != nil {
		if !isLoadCause(err) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, loadErr(p.name, n, err)
	}
	qs, err := Select(pool, n.Int(), p.Weights, p.Seed)
	if err != nil {
		return nil, loadErr(p.name, n, err)
	}
	return qs, nil
}

// Pool returns the whole bank behind the source.
func (p *PoolSource) Pool(ctx context.Context) ([]question.Question, error) {
	return p.pool(ctx)
}

func (p *PoolSource) Catalog(ctx context.Context) (Catalog, error) {
	pool, err := p.pool(ctx)
	if err != nil {
		return Catalog{}, err
	}
	return CatalogOf(pool, p.Weights), nil
}

func isLoadCause(err error) bool {
	for _, target := range []error{ErrNotFound, ErrMalformed, ErrInsufficient, ErrUnavailable, ErrInvalidLength} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
