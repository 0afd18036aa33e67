// Package report renders graded exam results as PDF, Markdown or JSON.
//
// Every figure and every correct/incorrect mark comes from the
// scoring.Result handed in; the formatters never grade anything themselves.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/scoring"
	"github.com/abhisek/examiz/internal/session"
)

const (
	DefaultTitle    = "DP-600 Exam Preparation Results"
	DefaultSubtitle = "Microsoft Fabric Analytics Engineer Associate"
	// DefaultBaseName is the file name used when the learner accepts the
	// export prompt without typing a path.
	DefaultBaseName = "dp600-exam-results"

	NotAnswered   = "Not answered"
	NoAnswer      = "N/A"
	UnknownOption = "(unknown option)"
)

// Format is an output format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPDF, FormatMarkdown, FormatJSON}

// ErrUnknownFormat is returned for a format name or extension that has no renderer.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat resolves a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// DefaultFileName returns the default export file name for f.
func DefaultFileName(f Format) string {
	return DefaultBaseName + "." + f.Ext()
}

// Input is everything a formatter needs. Questions and Answers are only
// used for display text; grading comes from Result.
type Input struct {
	Result    scoring.Result
	Questions []question.Question
	Answers   question.AnswerMap

	Title       string
	Subtitle    string
	GeneratedAt time.Time
	AttemptID   string
	Duration    time.Duration
}

// FromSnapshot builds an Input from a finished session snapshot and its score.
func FromSnapshot(snap session.Snapshot, res scoring.Result) Input {
	return Input{
		Result:    res,
		Questions: snap.Questions,
		Answers:   snap.Answers,
		AttemptID: snap.AttemptID,
		Duration:  snap.Duration(),
	}
}

func (in Input) withDefaults() Input {
	if in.Title == "" {
		in.Title = DefaultTitle
	}
	if in.Subtitle == "" {
		in.Subtitle = DefaultSubtitle
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	return in
}

// Status is the review mark of one question.
type Status string

const (
	StatusCorrect   Status = "Correct"
	StatusIncorrect Status = "Incorrect"
	StatusUngraded  Status = "Ungraded"
)

// Symbol returns the check/cross glyph for s.
func (s Status) Symbol() string {
	switch s {
	case StatusCorrect:
		return "✓"
	case StatusIncorrect:
		return "✗"
	}
	return "–"
}

// Row is one line of the question analysis table.
type Row struct {
	Position      int    `json:"position"`
	ID            int    `json:"id"`
	Category      string `json:"category"`
	Question      string `json:"question"`
	Status        Status `json:"status"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// Rows builds the question analysis rows in Result order.
func Rows(in Input) []Row {
	byID := make(map[int]question.Question, len(in.Questions))
	for _, q := range in.Questions {
		byID[q.ID] = q
	}

	rows := make([]Row, 0, len(in.Result.Questions))
	for _, qr := range in.Result.Questions {
		q := byID[qr.ID]
		row := Row{
			Position:      qr.Position,
			ID:            qr.ID,
			Category:      question.HumanizeCategory(qr.Category),
			Question:      q.Text,
			Status:        statusOf(qr),
			YourAnswer:    NotAnswered,
			CorrectAnswer: NoAnswer,
		}
		if qr.Answered {
			row.YourAnswer = describe(q, qr.Selected)
		}
		if qr.Gradable {
			row.CorrectAnswer = describe(q, qr.CorrectAnswer)
		}
		rows = append(rows, row)
	}
	return rows
}

func statusOf(qr scoring.QuestionResult) Status {
	switch {
	case qr.Correct:
		return StatusCorrect
	case !qr.Gradable:
		return StatusUngraded
	default:
		return StatusIncorrect
	}
}

// describe renders "B. option text", or the label with a placeholder when
// the label is not one of the question's options.
func describe(q question.Question, label string) string {
	text, ok := q.Options.Text(label)
	if !ok {
		return label + " " + UnknownOption
	}
	return label + ". " + text
}

// Render writes in to w in format f.
func Render(w io.Writer, f Format, in Input) error {
	in = in.withDefaults()
	switch f {
	case FormatPDF:
		return renderPDF(w, in, true)
	case FormatMarkdown:
		return renderMarkdown(w, in)
	case FormatJSON:
		return renderJSON(w, in)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteFile renders in to path. An empty format is inferred from the path.
// The parent directory is created when missing.
func WriteFile(path string, f Format, in Input) (err error) {
	if f == "" {
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	if err := Render(file, f, in); err != nil {
		return fmt.Errorf("render %s report: %w", f, err)
	}
	return nil
}

func passLabel(r scoring.Result) string {
	if r.IsPassing {
		return "PASS"
	}
	return "FAIL"
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.Round(time.Second).String()
}
