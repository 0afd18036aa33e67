package picker

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/theme"
)

func (p *PickerScreen) View(width, height int) string {
	cw := components.ContentWidth(width, 56)

	form := theme.Heading.Render("Test Length") + "\n\n" + p.menu.View()

	button := p.start.View()
	if p.loading {
		button = lipgloss.JoinHorizontal(lipgloss.Center, p.spinner.View(), " ", p.start.View(), " ",
			theme.Hint.Render("Loading..."))
	}

	sections := []string{
		theme.Subtitle.Width(cw).Render("Choose a practice test length to begin"),
		"",
		components.Card(form, cw-2),
		"",
		button,
	}
	if p.errMsg != "" {
		sections = append(sections, "", theme.ErrorText.Render(p.errMsg))
	}

	return components.Center(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}
