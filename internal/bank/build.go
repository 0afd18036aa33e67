package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/abhisek/examiz/internal/question"
)

// Build writes one test file per supported length plus the category
// catalog into dir, drawing each test from pool with Select. It returns
// the paths written.
func Build(pool []question.Question, dir string, w Weights, seed uint64) ([]string, error) {
	if err := Check(pool); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	for i, n := range question.Lengths {
		s := seed
		if s != 0 {
			s += uint64(i)
		}
		qs, err := Select(pool, n.Int(), w, s)
		if err != nil {
			return written, fmt.Errorf("build test_%d: %w", n, err)
		}
		path := filepath.Join(dir, TestFileName(n, FormatJSON))
		if err := writeJSON(path, qs); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	path := filepath.Join(dir, CatalogFile)
	if err := writeJSON(path, CatalogOf(pool, w)); err != nil {
		return written, err
	}
	return append(written, path), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Stats summarises a question bank.
type Stats struct {
	Total      int
	Ungradable int
	// PerCategory counts questions by category tag.
	PerCategory map[string]int
	// Capacity maps each test length to whether the bank can fill it
	// without topping up from other categories.
	Capacity map[question.Length]bool
}

// Categories returns the category tags in name order.
func (s Stats) Categories() []string {
	out := make([]string, 0, len(s.PerCategory))
	for c := range s.PerCategory {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ComputeStats counts pool by category and checks each length's quotas.
func ComputeStats(pool []question.Question, w Weights) Stats {
	s := Stats{
		Total:       len(pool),
		PerCategory: make(map[string]int),
		Capacity:    make(map[question.Length]bool),
	}
	for _, q := range pool {
		s.PerCategory[q.Category]++
		if !q.Gradable() {
			s.Ungradable++
		}
	}
	for _, n := range question.Lengths {
		ok := len(pool) >= n.Int()
		for c, quota := range w.Quotas(n.Int()) {
			if s.PerCategory[c] < quota {
				ok = false
			}
		}
		s.Capacity[n] = ok
	}
	return s
}
