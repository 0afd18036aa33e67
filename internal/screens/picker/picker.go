// Package picker is the test length picker. It loads the question set for
// the chosen length and hands a fresh session to the exam screen.
package picker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/screens/deps"
	"github.com/abhisek/examiz/internal/screens/exam"
	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

const loadTimeout = 30 * time.Second

// LoadFailedMessage is shown when a question set cannot be loaded.
const LoadFailedMessage = "Failed to load questions. Please try again."

var descriptions = map[question.Length]string{
	question.LengthShort:  "Quick Practice",
	question.LengthMedium: "Standard Practice",
	question.LengthLong:   "Full Exam Simulation",
}

// loadedMsg carries the result of an async question load.
type loadedMsg struct {
	Length    question.Length
	Questions []question.Question
	Err       error
}

// PickerScreen lets the learner choose a test length.
type PickerScreen struct {
	deps      deps.Deps
	log       *zap.Logger
	menu      components.Menu
	start     components.Button
	spinner   spinner.Model
	loading   bool
	errMsg    string
	autoStart bool
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)
var _ screen.BackHandler = (*PickerScreen)(nil)

// New creates a picker with initial preselected. With autoStart the load
// for initial begins as soon as the screen is shown.
func New(d deps.Deps, initial question.Length, autoStart bool) *PickerScreen {
	p := &PickerScreen{
		deps:      d,
		log:       d.Logger().Named("picker"),
		autoStart: autoStart,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Selected),
		),
	}

	items := make([]components.MenuItem, len(question.Lengths))
	for i, l := range question.Lengths {
		items[i] = components.MenuItem{
			Label:       fmt.Sprintf("%d Questions", l),
			Description: descriptions[l],
		}
	}
	p.menu = components.NewMenu(items)
	for i, l := range question.Lengths {
		if l == initial {
			p.menu.Selected = i
		}
	}
	p.start = components.NewButton("Start Test", true, func() tea.Cmd {
		return p.begin(p.Selected())
	})
	return p
}

func (p *PickerScreen) Init() tea.Cmd {
	if p.autoStart {
		return p.begin(p.Selected())
	}
	return nil
}

func (p *PickerScreen) Title() string {
	return "Configure Your Test"
}

// Selected returns the highlighted length.
func (p *PickerScreen) Selected() question.Length {
	return question.Lengths[p.menu.Selected]
}

// Loading reports whether a load is in flight.
func (p *PickerScreen) Loading() bool { return p.loading }

// HandlesBack keeps the learner on the screen while a load is running.
func (p *PickerScreen) HandlesBack() bool { return true }

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	if p.loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Length"},
		{Key: "Enter", Description: "Start test"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return p.handleLoaded(msg)

	case spinner.TickMsg:
		if !p.loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if p.loading {
			return p, nil
		}
		var cmd tea.Cmd
		switch msg.String() {
		case "esc":
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			p.start, cmd = p.start.Update(msg)
		default:
			p.menu, cmd = p.menu.Update(msg)
		}
		return p, cmd
	}
	return p, nil
}

// begin starts loading length n. It is a no-op while a load is running,
// so a second trigger cannot race the first.
func (p *PickerScreen) begin(n question.Length) tea.Cmd {
	if p.loading {
		return nil
	}
	p.loading = true
	p.errMsg = ""
	p.menu.Locked = true
	p.start.Disabled = true

	return tea.Batch(p.spinner.Tick, load(p.deps.Source, n))
}

// load fetches the question set for n off the UI goroutine.
func load(src bank.Source, n question.Length) tea.Cmd {
	return func() tea.Msg {
		if src == nil {
			return loadedMsg{Length: n, Err: errors.New("no question source configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		qs, err := src.Questions(ctx, n)
		return loadedMsg{Length: n, Questions: qs, Err: err}
	}
}

func (p *PickerScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	p.loading = false
	p.menu.Locked = false
	p.start.Disabled = false

	if msg.Err == nil && len(msg.Questions) == 0 {
		msg.Err = errors.New("source returned no questions")
	}
	if msg.Err != nil {
		p.log.Error("load questions",
			zap.Int("length", msg.Length.Int()),
			zap.Error(msg.Err))
		p.errMsg = LoadFailedMessage
		return p, nil
	}

	p.log.Info("questions loaded",
		zap.Int("length", msg.Length.Int()),
		zap.Int("count", len(msg.Questions)))

	st := session.New()
	st.Load(msg.Length, msg.Questions)
	next := exam.New(p.deps, st)
	return p, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}
