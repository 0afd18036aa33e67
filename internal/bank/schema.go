package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSetSchema is the contract for a question file: an array of
// question objects. YAML files are converted and held to it too.
var questionSetSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type": "integer",
			},
			"question": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"options": map[string]any{
				"type":          "object",
				"minProperties": 2,
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
			"correct_answer": map[string]any{
				"type": []any{"string", "null"},
			},
			"explanation": map[string]any{
				"type": "string",
			},
			// Empty is treated like a missing category.
			"category": map[string]any{
				"type":    "string",
				"pattern": "^([a-z0-9]+(_[a-z0-9]+)*)?$",
			},
		},
		"required": []any{"id", "question", "options"},
	},
}

const questionSetSchemaURL = "schema://question-set.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func questionSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go literals.
		defBytes, err := json.Marshal(questionSetSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(questionSetSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(questionSetSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateSchema checks raw JSON against the question-set schema.
func validateSchema(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrMalformed, err)
	}

	s, err := questionSchema()
	if err != nil {
		return fmt.Errorf("compile question schema: %w", err)
	}
	if err := s.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
