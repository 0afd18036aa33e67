package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/examiz/internal/question"
)

// Format is a question file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses and validates a question set. Both formats are checked
// against the wire schema first. Questions with a missing or empty
// category are assigned one with Categorize.
func Decode(data []byte, format Format) ([]question.Question, error) {
	var qs []question.Question
	switch format {
	case FormatYAML:
		raw, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		if err := validateSchema(raw); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &qs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case FormatJSON:
		if err := validateSchema(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &qs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("unknown question format %q", format)
	}

	for i := range qs {
		if qs[i].Category == "" {
			qs[i].Category = Categorize(qs[i].Text)
		}
	}
	if err := Check(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// yamlToJSON re-encodes a YAML document as JSON so it can be held to the
// same schema as JSON input.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	raw, err := json.Marshal(jsonValue(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return raw, nil
}

// jsonValue rewrites YAML mappings with non-string keys into string-keyed
// maps that encoding/json accepts.
func jsonValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = jsonValue(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = jsonValue(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = jsonValue(e)
		}
		return t
	}
	return v
}

// DecodeFile reads and decodes a question file.
func DecodeFile(path string) ([]question.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	qs, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qs, nil
}

// Check runs the semantic checks the schema cannot express: IDs are
// unique, each question has at least two options and a marked answer is
// one of the option labels.
func Check(qs []question.Question) error {
	var problems []string
	seen := make(map[int]bool, len(qs))
	for i, q := range qs {
		where := fmt.Sprintf("question %d (id %d)", i+1, q.ID)
		if seen[q.ID] {
			problems = append(problems, where+": duplicate id")
		}
		seen[q.ID] = true

		if strings.TrimSpace(q.Text) == "" {
			problems = append(problems, where+": empty question text")
		}
		if len(q.Options) < 2 {
			problems = append(problems, fmt.Sprintf("%s: %d options, need at least 2", where, len(q.Options)))
		}
		if ans, ok := q.Answer(); ok && !q.Options.Has(ans) {
			problems = append(problems, fmt.Sprintf("%s: correct answer %q is not an option", where, ans))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Encode writes qs in the given format.
func Encode(w io.Writer, qs []question.Question, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(qs); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(qs)
	}
	return fmt.Errorf("unknown question format %q", format)
}
