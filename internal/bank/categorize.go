package bank

import "strings"

// DefaultCategory is assigned when no keyword matches.
const DefaultCategory = "prepare_data"

// categoryKeywords are matched case-insensitively against question text.
// Order matters: ties go to the earlier category.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"maintain_analytics_solution", []string{
		"workspace", "access control", "security", "governance", "sensitivity",
		"deployment pipeline", "version control", "XMLA", "lifecycle",
	}},
	{"prepare_data", []string{
		"data connection", "OneLake", "lakehouse", "warehouse", "eventhouse",
		"transform", "view", "function", "stored procedure", "star schema",
		"denormalize", "aggregate", "merge", "join", "duplicate", "missing",
		"null", "data type", "filter", "SQL", "KQL", "Visual Query",
	}},
	{"semantic_models", []string{
		"semantic model", "DAX", "storage mode", "relationship", "calculation",
		"composite model", "Direct Lake", "incremental refresh", "performance",
	}},
}

// Categorize guesses a category from question text by counting keyword hits.
func Categorize(text string) string {
	lower := strings.ToLower(text)
	best, bestHits := DefaultCategory, 0
	for _, c := range categoryKeywords {
		hits := 0
		for _, kw := range c.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = c.category, hits
		}
	}
	return best
}
