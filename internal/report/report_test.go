package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/scoring"
)

func opts() question.Options {
	return question.Options{
		{Label: "A", Text: "Lakehouse"},
		{Label: "B", Text: "Warehouse"},
		{Label: "C", Text: "Eventhouse"},
		{Label: "D", Text: "KQL database"},
	}
}

func fixture() Input {
	qs := []question.Question{
		{ID: 1, Text: "Q1", Options: opts(), CorrectAnswer: question.Label("A"), Category: "prepare_data"},
		{ID: 2, Text: "Q2", Options: opts(), CorrectAnswer: question.Label("B"), Category: "prepare_data"},
		{ID: 3, Text: "Q3", Options: opts(), CorrectAnswer: question.Label("C"), Category: "semantic_models"},
		{ID: 4, Text: "Q4", Options: opts(), Category: "maintain_analytics_solution"},
		{ID: 5, Text: "Q5", Options: opts(), CorrectAnswer: question.Label("D"), Category: "semantic_models"},
	}
	answers := question.AnswerMap{1: "A", 2: "C", 4: "A", 5: "E"}
	return Input{
		Result:      scoring.Score(qs, answers),
		Questions:   qs,
		Answers:     answers,
		GeneratedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		AttemptID:   "attempt-1",
		Duration:    95 * time.Second,
	}
}

func TestRows(t *testing.T) {
	rows := Rows(fixture())
	require.Len(t, rows, 5)

	tests := []struct {
		status        Status
		yours, answer string
	}{
		{StatusCorrect, "A. Lakehouse", "A. Lakehouse"},
		{StatusIncorrect, "C. Eventhouse", "B. Warehouse"},
		{StatusIncorrect, NotAnswered, "C. Eventhouse"},
		{StatusUngraded, "A. Lakehouse", NoAnswer},
		{StatusIncorrect, "E " + UnknownOption, "D. KQL database"},
	}
	for i, tt := range tests {
		assert.Equal(t, i+1, rows[i].Position)
		assert.Equal(t, tt.status, rows[i].Status, "row %d", i+1)
		assert.Equal(t, tt.yours, rows[i].YourAnswer, "row %d", i+1)
		assert.Equal(t, tt.answer, rows[i].CorrectAnswer, "row %d", i+1)
	}
	assert.Equal(t, "Prepare Data", rows[0].Category)
}

func TestRows_TrustsResult(t *testing.T) {
	in := fixture()
	// Flip a mark in the result; the row must follow it, not regrade.
	in.Result.Questions[1].Correct = true
	assert.Equal(t, StatusCorrect, Rows(in)[1].Status)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"PDF", FormatPDF, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownFormat)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	f, err := FormatFromPath("out/report.md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	_, err = FormatFromPath("report")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, "dp600-exam-results.pdf", DefaultFileName(FormatPDF))
	assert.Equal(t, "dp600-exam-results.md", DefaultFileName(FormatMarkdown))
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatMarkdown, fixture()))
	out := buf.String()

	assert.Contains(t, out, "# "+DefaultTitle)
	assert.Contains(t, out, "Score: 1/5 (20%)")
	assert.Contains(t, out, "Result: **FAIL**")
	assert.Contains(t, out, "| Prepare Data | 1/2 | 50% |")
	assert.Contains(t, out, "| Semantic Models | 0/2 | 0% |")
	assert.Contains(t, out, "| 1 | ✓ Correct | A. Lakehouse | A. Lakehouse |")
	assert.Contains(t, out, "| 3 | ✗ Incorrect | Not answered | C. Eventhouse |")
	assert.Contains(t, out, "| 4 | – Ungraded | A. Lakehouse | N/A |")
	assert.Contains(t, out, "Time taken: 1m35s")
	assert.Contains(t, out, "Generated on: 2026-03-14")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, fixture()))

	var doc struct {
		Result string `json:"result"`
		Score  struct {
			Overall scoring.Tally `json:"overall"`
		} `json:"score"`
		Questions []Row `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FAIL", doc.Result)
	assert.Equal(t, 5, doc.Score.Overall.Total)
	assert.Equal(t, 1, doc.Score.Overall.Correct)
	assert.Len(t, doc.Questions, 5)
	assert.Equal(t, NotAnswered, doc.Questions[2].YourAnswer)
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderPDF(&buf, fixture().withDefaults(), false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Contains(t, out, DefaultTitle)
	// Parentheses are escaped in the content stream.
	assert.Contains(t, out, `Score: 1/5 \(20%\)`)
	assert.Contains(t, out, "Result: FAIL")
	assert.Contains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "Semantic Models")
	assert.Contains(t, out, "Not answered")
}

func TestRenderPDF_Paginates(t *testing.T) {
	var qs []question.Question
	answers := question.AnswerMap{}
	for i := 1; i <= 45; i++ {
		qs = append(qs, question.Question{
			ID: i, Text: "Q", Options: opts(),
			CorrectAnswer: question.Label("A"), Category: "prepare_data",
		})
		answers[i] = "B"
	}
	in := Input{Result: scoring.Score(qs, answers), Questions: qs, Answers: answers}

	var buf bytes.Buffer
	require.NoError(t, renderPDF(&buf, in.withDefaults(), false))
	assert.Contains(t, buf.String(), "Page 2 of ")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "results.md")

	require.NoError(t, WriteFile(path, "", fixture()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), DefaultTitle)

	err = WriteFile(filepath.Join(dir, "results.txt"), "", fixture())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
