package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/abhisek/examiz/internal/scoring"
)

// document is the JSON export shape.
type document struct {
	Title       string         `json:"title"`
	GeneratedAt time.Time      `json:"generated_at"`
	AttemptID   string         `json:"attempt_id,omitempty"`
	DurationSec int64          `json:"duration_seconds,omitempty"`
	Result      string         `json:"result"`
	Score       scoring.Result `json:"score"`
	Rows        []Row          `json:"questions"`
}

func renderJSON(w io.Writer, in Input) error {
	doc := document{
		Title:       in.Title,
		GeneratedAt: in.GeneratedAt.UTC(),
		AttemptID:   in.AttemptID,
		DurationSec: int64(in.Duration.Seconds()),
		Result:      passLabel(in.Result),
		Score:       in.Result,
		Rows:        Rows(in),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
