package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	// LabelWidth pads the label so stacked bars line up. Zero means no padding.
	LabelWidth int
	// Fill overrides the filled colour. Nil uses the theme's.
	Fill *lipgloss.Style
	// Suffix replaces the percentage text when set, e.g. "7/10".
	Suffix string
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if p.LabelWidth > 0 {
			label = lipgloss.NewStyle().Width(p.LabelWidth).MaxWidth(p.LabelWidth).Render(label)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	tail := ""
	switch {
	case p.Suffix != "":
		tail = "  " + p.Suffix
	case p.ShowPercent:
		tail = fmt.Sprintf("  %3d%%", int(p.Percent*100+0.5))
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(tail)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	fill := theme.ProgressFilled
	if p.Fill != nil {
		fill = *p.Fill
	}
	result += fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if tail != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(tail)
	}

	return result
}
