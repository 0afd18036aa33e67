package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/ui/theme"
)

// OptionList shows a question's labelled options with a cursor. It does
// not know the correct answer unless Reveal is set, so the same component
// serves the test screen and the results review.
type OptionList struct {
	Options question.Options
	Cursor  int
	// Chosen is the label the learner picked, or "".
	Chosen string
	// Reveal is the correct label to highlight, or "" to hide it.
	Reveal   string
	ReadOnly bool
}

// NewOptionList creates a list with the cursor on chosen, or the first option.
func NewOptionList(opts question.Options, chosen string) OptionList {
	l := OptionList{Options: opts, Chosen: chosen}
	if i := opts.Index(chosen); i >= 0 {
		l.Cursor = i
	}
	return l
}

// CursorLabel returns the label under the cursor.
func (l OptionList) CursorLabel() string {
	if l.Cursor < 0 || l.Cursor >= len(l.Options) {
		return ""
	}
	return l.Options[l.Cursor].Label
}

// Update moves the cursor. It returns the label picked with enter or
// space, or with the label's own letter or 1-based number.
func (l OptionList) Update(msg tea.Msg) (OptionList, string) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || l.ReadOnly || len(l.Options) == 0 {
		return l, ""
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if l.Cursor > 0 {
			l.Cursor--
		}
		return l, ""
	case "down", "j":
		if l.Cursor < len(l.Options)-1 {
			l.Cursor++
		}
		return l, ""
	case "enter", "space", " ":
		return l, l.CursorLabel()
	}

	if label, i, ok := l.lookup(key); ok {
		l.Cursor = i
		return l, label
	}
	return l, ""
}

func (l OptionList) lookup(key string) (string, int, bool) {
	if len(key) != 1 {
		return "", 0, false
	}
	if key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(l.Options) {
			return l.Options[i].Label, i, true
		}
		return "", 0, false
	}
	for i, opt := range l.Options {
		if strings.EqualFold(opt.Label, key) {
			return opt.Label, i, true
		}
	}
	return "", 0, false
}

// View renders one wrapped line block per option at the given width.
func (l OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range l.Options {
		marker := "( )"
		if opt.Label == l.Chosen {
			marker = "(•)"
		}
		prefix := "  "
		if i == l.Cursor && !l.ReadOnly {
			prefix = "▸ "
		}
		head := fmt.Sprintf("%s%s %s. ", prefix, marker, opt.Label)
		body := lipgloss.NewStyle().Width(max(width-lipgloss.Width(head), 10)).Render(opt.Text)
		line := lipgloss.JoinHorizontal(lipgloss.Top, head, body)

		b.WriteString(l.style(i, opt.Label).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (l OptionList) style(i int, label string) lipgloss.Style {
	if l.Reveal != "" {
		switch {
		case label == l.Reveal:
			return theme.Correct
		case label == l.Chosen:
			return theme.Incorrect
		default:
			return lipgloss.NewStyle().Foreground(theme.TextDim)
		}
	}
	switch {
	case i == l.Cursor && !l.ReadOnly:
		return theme.Selected
	case label == l.Chosen:
		return theme.Chosen
	default:
		return theme.Unselected
	}
}
