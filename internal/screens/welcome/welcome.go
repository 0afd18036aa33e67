package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// answerSheet is filled in one bubble per phase.
var answerSheet = [][]string{
	{"1", "A", "B", "C", "D"},
	{"2", "A", "B", "C", "D"},
	{"3", "A", "B", "C", "D"},
}

// marks are the bubbles filled in as the animation runs, by row.
var marks = []int{2, 4, 1}

type tickMsg time.Time

// WelcomeScreen shows a splash animation before handing over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		if w.transitioned {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the splash.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// filled returns how many rows of the answer sheet are marked so far.
func (w *WelcomeScreen) filled() int {
	n := int(w.elapsed / phase1End)
	if n > len(answerSheet) {
		n = len(answerSheet)
	}
	return n
}

func (w *WelcomeScreen) renderSheet() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	mark := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	filled := w.filled()
	lines := make([]string, 0, len(answerSheet))
	for row, cells := range answerSheet {
		var b strings.Builder
		b.WriteString(dim.Render(cells[0] + "  "))
		for col, label := range cells[1:] {
			if row < filled && col+1 == marks[row] {
				b.WriteString(mark.Render("(●)"))
			} else {
				b.WriteString(dim.Render("(" + label + ")"))
			}
			b.WriteString(" ")
		}
		lines = append(lines, b.String())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{w.renderSheet()}

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline)
		sections = append(sections, tagline, "")

		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
