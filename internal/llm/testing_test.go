package llm

// hintSchema is a small schema shared by the provider tests.
var hintSchema = &Schema{
	Name:        "test-hint",
	Description: "A one-line hint",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{"type": "string"},
			"confidence": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 5,
			},
		},
		"required":             []any{"hint", "confidence"},
		"additionalProperties": false,
	},
}

func hintRequest() Request {
	req := UserPrompt("You explain exam questions.", "Why is Direct Lake faster than DirectQuery?")
	req.Schema = hintSchema
	req.MaxTokens = 256
	return req
}
