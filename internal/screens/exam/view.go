package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

const maxWidth = 90

func (s *ExamScreen) View(width, height int) string {
	if s.confirm != confirmNone {
		return s.renderConfirm(width, height)
	}

	q, ok := s.state.Current()
	if !ok {
		return components.Center(theme.Hint.Render("No questions loaded."), width, height)
	}

	cw := components.ContentWidth(width, maxWidth)
	total := s.state.Len()
	pos := s.state.Index() + 1

	var sections []string

	bar := components.NewProgressBar(fmt.Sprintf("Question %d of %d", pos, total),
		float64(pos)/float64(total), false, cw)
	sections = append(sections, bar.View(), "")

	var body strings.Builder
	body.WriteString(theme.Heading.Render(fmt.Sprintf("Question %d:", pos)))
	body.WriteString("  ")
	body.WriteString(theme.Hint.Render(question.HumanizeCategory(q.Category)))
	body.WriteString("\n\n")
	body.WriteString(theme.Body.Width(cw - 4).Render(q.Text))
	body.WriteString("\n\n")
	body.WriteString(strings.TrimRight(s.options.View(cw-4), "\n"))
	sections = append(sections, components.Card(body.String(), cw-2))

	if s.showExplanation {
		sections = append(sections, renderExplanation(q, cw-2))
	}
	if s.notice != "" {
		sections = append(sections, theme.ErrorText.Render(s.notice))
	}

	sections = append(sections, "", s.renderNavigator(cw, layout.Narrow(width)))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func renderExplanation(q question.Question, w int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Explanation:"))
	b.WriteString("\n")
	if q.Explanation != "" {
		b.WriteString(theme.Body.Width(w - 4).Render(q.Explanation))
	} else {
		b.WriteString(theme.Hint.Render("No explanation for this question."))
	}
	if label, ok := q.Answer(); ok {
		b.WriteString("\n\n")
		b.WriteString(theme.Correct.Render("Correct Answer: " + label))
	}
	return theme.Panel.Width(w).Render(b.String())
}

// renderNavigator draws one cell per question: the current one
// highlighted, answered ones in green. Narrow terminals get tighter cells.
func (s *ExamScreen) renderNavigator(cw int, narrow bool) string {
	cell := 4
	if narrow {
		cell = 3
	}
	perRow := max(cw/cell, 1)

	var rows []string
	var row strings.Builder
	for i := 0; i < s.state.Len(); i++ {
		q, _ := s.state.At(i)
		_, answered := s.state.Answer(q.ID)

		style := lipgloss.NewStyle().Width(cell).Align(lipgloss.Center).Foreground(theme.TextDim)
		switch {
		case i == s.state.Index():
			style = style.Foreground(theme.Text).Background(theme.Primary).Bold(true)
		case answered:
			style = style.Foreground(theme.Success)
		}
		row.WriteString(style.Render(fmt.Sprintf("%d", i+1)))

		if (i+1)%perRow == 0 {
			rows = append(rows, row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		rows = append(rows, row.String())
	}

	answered := theme.Hint.Render(fmt.Sprintf("Answered: %d/%d", s.state.AnsweredCount(), s.state.Len()))
	return theme.Heading.Render("Question Navigator") + "  " + answered + "\n" + strings.Join(rows, "\n")
}

func (s *ExamScreen) renderConfirm(width, height int) string {
	var title, detail string
	switch s.confirm {
	case confirmAbandon:
		title = "Quit this test?"
		detail = "Your answers will be discarded."
	default:
		title = "Finish the test?"
		unanswered := s.state.Len() - s.state.AnsweredCount()
		switch unanswered {
		case 0:
			detail = "All questions are answered."
		case 1:
			detail = "1 question is unanswered and will be marked incorrect."
		default:
			detail = fmt.Sprintf("%d questions are unanswered and will be marked incorrect.", unanswered)
		}
	}

	buttons := make([]string, len(s.confirmBtns))
	for i, b := range s.confirmBtns {
		buttons[i] = b.View()
	}

	box := theme.Panel.Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(title),
		"",
		theme.Body.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
	))
	return components.Center(box, width, height)
}
