package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/screens/welcome"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

const (
	examName  = "DP-600 Exam Preparation"
	certName  = "Microsoft Fabric Analytics Engineer Associate"
	maxWidth  = 64
	menuWidth = 30
)

func (h *HomeScreen) View(width, height int) string {
	compact := layout.Short(height)
	cw := components.ContentWidth(width, maxWidth)

	var sections []string
	if !compact {
		sections = append(sections, welcome.RenderBanner(cw))
	}
	sections = append(sections,
		theme.Title.Width(cw).Render(examName),
		theme.Subtitle.Width(cw).Render(certName),
		h.renderAbout(cw),
		h.renderMenu(),
	)
	if h.deps.Source != nil {
		sections = append(sections, theme.Hint.Render("questions from "+h.deps.Source.Name()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return components.Center(content, width, height)
}

// renderAbout lists the exam areas with their share of each test.
func (h *HomeScreen) renderAbout(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("About the exam"))
	b.WriteString("\n")
	for _, w := range h.deps.Weights {
		b.WriteString(fmt.Sprintf("  • %s  %s\n",
			question.HumanizeCategory(w.Category),
			theme.Hint.Render(fmt.Sprintf("%.0f%%", w.Weight*100))))
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Tests of %s questions, pass mark %d%%.",
		question.LengthsString(), h.deps.Policy.PassThreshold)))
	return components.Card(b.String(), cw-2)
}

func (h *HomeScreen) renderMenu() string {
	buttons := make([]string, len(h.menu.Items))
	for i, item := range h.menu.Items {
		buttons[i] = components.MenuButton(item.Label, i == h.menu.Selected, menuWidth)
	}
	return lipgloss.JoinVertical(lipgloss.Center, buttons...)
}
