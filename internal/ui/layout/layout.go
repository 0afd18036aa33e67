package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/ui/theme"
)

// Smallest terminal the exam screens fit in.
const (
	MinWidth  = 80
	MinHeight = 24
)

const (
	narrowWidth = 100
	shortBody   = 24
	hintGap     = "   "
	barIndent   = "  "
)

// KeyHint is one key binding shown in the footer bar.
type KeyHint struct {
	Key         string
	Description string
}

// TooSmall reports whether the terminal is below MinWidth x MinHeight.
func TooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// Narrow reports whether width leaves no room for roomy spacing. The exam
// navigator packs its cells tighter below it.
func Narrow(width int) bool {
	return width < narrowWidth
}

// Short reports whether a body of height rows is too short for the
// decorative banner.
func Short(height int) bool {
	return height < shortBody
}

// TooSmallMessage fills the terminal with a resize notice.
func TooSmallMessage(width, height int) string {
	msg := fmt.Sprintf("Examiz needs at least %d×%d.\n\nThis terminal is %d×%d.\nResize it, or press Ctrl+C to quit.",
		MinWidth, MinHeight, width, height)
	text := lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// Header draws the top bar: the app name on the left, the screen title
// centred and status (timer or progress, may be empty) on the right.
func Header(title, status string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(barIndent + "Examiz")
	stat := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	inner := max(width-4, 0)
	side := max(lipgloss.Width(brand), lipgloss.Width(stat))
	mid := max(inner-2*side, 0)
	center := lipgloss.NewStyle().Foreground(theme.Text).MaxWidth(mid).Render(title)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.PlaceHorizontal(side, lipgloss.Left, brand),
		lipgloss.PlaceHorizontal(mid, lipgloss.Center, center),
		lipgloss.PlaceHorizontal(side, lipgloss.Right, stat),
	)
	return bar(width).Render(row)
}

// Footer draws the key hint bar. Hints that do not fit are dropped from the
// end; the first one is always shown.
func Footer(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	inner := max(width-4, 0)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := key.Render(h.Key) + " " + desc.Render(h.Description)
		next := append(parts, part)
		if len(parts) > 0 && lipgloss.Width(barIndent+strings.Join(next, hintGap)) > inner {
			break
		}
		parts = next
	}
	return bar(width).Render(barIndent + strings.Join(parts, hintGap))
}

// Compose stacks header, body and footer into a frame of height rows. body
// is called with the size left between the two bars.
func Compose(header, footer string, width, height int, body func(w, h int) string) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	if rows == 0 {
		return header + "\n" + footer
	}
	content := lipgloss.NewStyle().
		Width(width).
		Height(rows).
		MaxHeight(rows).
		Render(body(width, rows))
	return header + "\n" + content + "\n" + footer
}
