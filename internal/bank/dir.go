package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhisek/examiz/internal/question"
)

// CatalogFile is the category listing written next to the test files.
const CatalogFile = "question_categories.json"

// TestFileName returns the base name of the question file for length n.
func TestFileName(n question.Length, format Format) string {
	return fmt.Sprintf("test_%d.%s", n, format)
}

// DirSource serves pre-built question sets from a directory holding
// test_15.json, test_30.json and test_45.json (or .yaml).
type DirSource struct {
	FS   fs.FS
	Root string
}

// NewDirSource returns a DirSource over the directory at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{FS: os.DirFS(root), Root: root}
}

func (d *DirSource) Name() string { return "dir:" + d.Root }

// Questions loads the set for n. A file with more than n questions is
// truncated to its first n; a file with fewer fails with ErrInsufficient.
func (d *DirSource) Questions(ctx context.Context, n question.Length) ([]question.Question, error) {
	if !n.Valid() {
		return nil, loadErr(d.Name(), n, ErrInvalidLength)
	}
	if err := ctx.Err(); err != nil {
		return nil, loadErr(d.Name(), n, err)
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		name := TestFileName(n, format)
		data, err := fs.ReadFile(d.FS, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, loadErr(d.Name(), n, fmt.Errorf("%w: %v", ErrUnavailable, err))
		}

		qs, err := Decode(data, format)
		if err != nil {
			return nil, loadErr(d.Name(), n, fmt.Errorf("%s: %w", name, err))
		}
		if len(qs) < n.Int() {
			return nil, loadErr(d.Name(), n, fmt.Errorf("%w: %s has %d", ErrInsufficient, name, len(qs)))
		}
		return qs[:n.Int()], nil
	}
	return nil, loadErr(d.Name(), n, ErrNotFound)
}

// Catalog reads question_categories.json.
func (d *DirSource) Catalog(ctx context.Context) (Catalog, error) {
	var cat Catalog
	data, err := fs.ReadFile(d.FS, CatalogFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cat, ErrNotFound
	}
	if err != nil {
		return cat, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(data, &cat); err != nil {
		return cat, fmt.Errorf("%w: %s: %v", ErrMalformed, CatalogFile, err)
	}
	return cat, nil
}

