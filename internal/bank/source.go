package bank

import (
	"context"

	"github.com/abhisek/examiz/internal/question"
)

// Source supplies the ordered question set for a test length.
// Implementations either return a complete, validated set or an error;
// they never return a partial set.
type Source interface {
	Questions(ctx context.Context, n question.Length) ([]question.Question, error)

	// Name identifies the source in logs and error messages.
	Name() string
}

// Category describes one topic in a question bank.
type Category struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Weight    float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Questions int     `json:"questions" yaml:"questions"`
}

// Catalog is the category listing served next to the question sets.
type Catalog struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Cataloger is implemented by sources that can describe their categories.
type Cataloger interface {
	Catalog(ctx context.Context) (Catalog, error)
}

// CatalogOf builds a catalog from a question pool and selection weights.
// Categories are ordered by weight, then by name.
func CatalogOf(pool []question.Question, w Weights) Catalog {
	counts := make(map[string]int)
	for _, q := range pool {
		counts[q.Category]++
	}

	cat := Catalog{Categories: []Category{}}
	listed := make(map[string]bool)
	for _, cw := range w {
		listed[cw.Category] = true
		cat.Categories = append(cat.Categories, Category{
			ID:        cw.Category,
			Name:      question.HumanizeCategory(cw.Category),
			Weight:    cw.Weight,
			Questions: counts[cw.Category],
		})
	}
	for _, c := range sortedKeys(counts) {
		if listed[c] {
			continue
		}
		cat.Categories = append(cat.Categories, Category{
			ID:        c,
			Name:      question.HumanizeCategory(c),
			Questions: counts[c],
		})
	}
	return cat
}
