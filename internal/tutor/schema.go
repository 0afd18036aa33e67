package tutor

import "github.com/abhisek/examiz/internal/llm"

// ExplanationSchema is the structured reply for a question explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "question-explanation",
	Description: "Explanation of a multiple-choice exam question for a learner reviewing their answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One or two sentences on what the question is testing",
			},
			"why_correct": map[string]any{
				"type":        "string",
				"description": "Why the marked correct option is right. Empty if no option is marked correct.",
			},
			"why_wrong": map[string]any{
				"type":        "string",
				"description": "Why the learner's chosen option is wrong. Empty if they were right or did not answer.",
			},
			"key_concept": map[string]any{
				"type":        "string",
				"description": "The product feature or concept to study, in a few words",
			},
		},
		"required":             []any{"summary", "why_correct", "why_wrong", "key_concept"},
		"additionalProperties": false,
	},
}
