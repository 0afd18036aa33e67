package results

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/report"
	"github.com/abhisek/examiz/internal/tutor"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/theme"
)

const maxWidth = 90

var (
	passFill = lipgloss.NewStyle().Background(theme.Success)
	failFill = lipgloss.NewStyle().Background(theme.Error)
)

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width, maxWidth)

	var body string
	switch s.mode {
	case modeReview:
		body = s.renderReview(cw, height)
	default:
		body = s.renderSummary(cw, height)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *ResultsScreen) renderSummary(cw, height int) string {
	sections := []string{
		s.renderScore(cw),
		s.renderCategories(cw),
	}

	if s.mode == modeExport {
		sections = append(sections, s.renderExport(cw))
	} else {
		used := lipgloss.Height(strings.Join(sections, "\n")) + 4
		sections = append(sections, s.renderQuestionList(cw, max(height-used, 3)))
	}

	if line := s.statusLine(); line != "" {
		sections = append(sections, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *ResultsScreen) statusLine() string {
	switch {
	case s.exporting:
		return s.spinner.View() + " " + theme.Hint.Render("Saving report...")
	case len(s.explaining) > 0:
		return s.spinner.View() + " " + theme.Hint.Render("Asking the tutor...")
	case s.notice != "":
		return theme.Hint.Render(s.notice)
	}
	return ""
}

func (s *ResultsScreen) renderScore(cw int) string {
	o := s.result.Overall
	score := theme.Title.Render(fmt.Sprintf("%d/%d  (%d%%)", o.Correct, o.Total, o.Percentage))

	badge := theme.Incorrect.Render("FAIL")
	if s.result.IsPassing {
		badge = theme.Correct.Render("PASS")
	}

	details := []string{fmt.Sprintf("pass mark %d%%", s.result.PassThreshold)}
	if d := s.snap.Duration(); d > 0 {
		details = append(details, "time "+clock(d))
	}
	unanswered := len(s.snap.Questions) - len(s.snap.Answers)
	if unanswered > 0 {
		details = append(details, fmt.Sprintf("%d unanswered", unanswered))
	}

	line := score + "   " + badge + "   " + theme.Hint.Render(strings.Join(details, " · "))
	return components.Card(theme.Heading.Render("Overall Score")+"\n"+line, cw-2)
}

func (s *ResultsScreen) renderCategories(cw int) string {
	labelWidth := 0
	for _, c := range s.result.Categories {
		labelWidth = max(labelWidth, lipgloss.Width(c.Label))
	}
	labelWidth = min(labelWidth, cw/2)

	lines := []string{theme.Heading.Render("Category Breakdown")}
	for _, c := range s.result.Categories {
		bar := components.ProgressBar{
			Label:      c.Label,
			LabelWidth: labelWidth,
			Percent:    float64(c.Percentage) / 100,
			Width:      cw - 6,
			Suffix:     fmt.Sprintf("%d/%d %3d%%", c.Correct, c.Total, c.Percentage),
			Fill:       &failFill,
		}
		if s.deps.Policy.Passes(c.Percentage) {
			bar.Fill = &passFill
		}
		lines = append(lines, bar.View())
	}
	return components.Card(strings.Join(lines, "\n"), cw-2)
}

// renderQuestionList shows a window of rows that keeps the cursor visible.
func (s *ResultsScreen) renderQuestionList(cw, rows int) string {
	if len(s.rows) == 0 {
		return theme.Hint.Render("No questions in this attempt.")
	}

	start := 0
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	end := min(start+rows, len(s.rows))

	lines := []string{theme.Heading.Render("Question Analysis") + "  " +
		theme.Hint.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(s.rows)))}
	for i := start; i < end; i++ {
		lines = append(lines, s.renderRow(i, cw))
	}
	return strings.Join(lines, "\n")
}

func (s *ResultsScreen) renderRow(i, cw int) string {
	r := s.rows[i]
	prefix := "  "
	if i == s.cursor {
		prefix = "▸ "
	}
	mark := statusStyle(r.Status).Render(r.Status.Symbol())
	text := fmt.Sprintf("%2d  %s  %s", r.Position, r.YourAnswer, theme.Hint.Render("→ "+r.CorrectAnswer))
	line := prefix + mark + " " + text

	style := lipgloss.NewStyle().MaxWidth(cw)
	if i == s.cursor {
		style = style.Bold(true)
	}
	return style.Render(line)
}

func statusStyle(st report.Status) lipgloss.Style {
	switch st {
	case report.StatusCorrect:
		return theme.Correct
	case report.StatusIncorrect:
		return theme.Incorrect
	}
	return theme.Ungraded
}

func (s *ResultsScreen) renderExport(cw int) string {
	content := theme.Heading.Render("Save report") + "\n" +
		theme.Hint.Render("PDF, Markdown (.md) or JSON, chosen by extension.") + "\n\n" +
		s.export.View()
	return theme.Panel.Width(cw - 2).Render(content)
}

// renderReview shows one question in a scrollable viewport.
func (s *ResultsScreen) renderReview(cw, height int) string {
	h := max(height-2, 5)
	if s.reviewDirty || s.reviewAt != s.cursor || s.reviewW != cw || s.reviewH != h {
		s.syncReview(cw, h)
	}
	footer := theme.Hint.Render(fmt.Sprintf("%3.f%%", s.review.ScrollPercent()*100))
	if line := s.statusLine(); line != "" {
		footer = line
	}
	return s.review.View() + "\n" + footer
}

func (s *ResultsScreen) syncReview(w, h int) {
	if s.reviewW == 0 {
		s.review = viewport.New(viewport.WithWidth(w), viewport.WithHeight(h))
	} else {
		s.review.SetWidth(w)
		s.review.SetHeight(h)
	}
	moved := s.reviewAt != s.cursor
	s.reviewW, s.reviewH, s.reviewAt = w, h, s.cursor
	s.reviewDirty = false
	s.review.SetContent(s.reviewContent(w))
	if moved {
		s.review.GotoTop()
	}
}

func (s *ResultsScreen) reviewContent(w int) string {
	q, r, ok := s.selected(s.cursor)
	if !ok {
		return ""
	}
	qr := s.result.Questions[s.cursor]

	var b strings.Builder
	b.WriteString(theme.Heading.Render(fmt.Sprintf("Question %d of %d", r.Position, len(s.rows))))
	b.WriteString("  " + theme.Hint.Render(r.Category) + "  ")
	b.WriteString(statusStyle(r.Status).Render(r.Status.Symbol() + " " + string(r.Status)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(w).Render(q.Text))
	b.WriteString("\n\n")

	opts := components.NewOptionList(q.Options, qr.Selected)
	opts.ReadOnly = true
	if qr.Gradable {
		opts.Reveal = qr.CorrectAnswer
	}
	b.WriteString(opts.View(w))
	b.WriteString("\n")
	b.WriteString("Your answer:    " + r.YourAnswer + "\n")
	b.WriteString("Correct answer: " + r.CorrectAnswer + "\n")

	if q.Explanation != "" {
		b.WriteString("\n" + theme.Heading.Render("Explanation") + "\n")
		b.WriteString(theme.Body.Width(w).Render(q.Explanation) + "\n")
	}

	switch {
	case s.explanations[q.ID] != nil:
		b.WriteString("\n" + renderTutor(s.explanations[q.ID], w))
	case s.explaining[q.ID]:
		b.WriteString("\n" + theme.Hint.Render("Asking the tutor..."))
	case s.explainErrs[q.ID] != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.explainErrs[q.ID]))
	case s.deps.Tutor != nil:
		b.WriteString("\n" + theme.Hint.Render("Press x to ask the tutor about this question."))
	}
	return b.String()
}

func renderTutor(e *tutor.Explanation, w int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Tutor") + "\n")
	body := theme.Body.Width(w - 4)
	b.WriteString(body.Render(e.Summary))
	for _, part := range []struct{ label, text string }{
		{"Why the answer is right", e.WhyCorrect},
		{"Why your choice is off", e.WhyWrong},
		{"Key concept", e.KeyConcept},
	} {
		if part.text == "" {
			continue
		}
		b.WriteString("\n\n" + theme.Selected.Render(part.label) + "\n")
		b.WriteString(body.Render(part.text))
	}
	return theme.Panel.Width(w).Render(b.String())
}

func clock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
