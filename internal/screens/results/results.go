// Package results shows the graded attempt: score, category breakdown,
// per-question review, export and tutor explanations.
package results

import (
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/report"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/scoring"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/screens/deps"
	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/tutor"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

type mode int

const (
	modeSummary mode = iota
	modeReview
	modeExport
)

// ResultsScreen grades a finished snapshot once on creation and renders
// from that result. It never sees the exam's mutable session.
type ResultsScreen struct {
	deps   deps.Deps
	log    *zap.Logger
	snap   session.Snapshot
	result scoring.Result
	rows   []report.Row
	byID   map[int]question.Question

	mode   mode
	cursor int

	review   viewport.Model
	reviewW  int
	reviewH  int
	reviewAt int

	// reviewDirty forces a content refresh without scrolling to the top.
	reviewDirty bool

	export    components.TextInput
	exporting bool

	explanations map[int]*tutor.Explanation
	explainErrs  map[int]string
	explaining   map[int]bool
	notice       string

	spinner spinner.Model
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.BackHandler = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)

// New scores snap with the configured policy.
func New(d deps.Deps, snap session.Snapshot) *ResultsScreen {
	res := d.Policy.Score(snap.Questions, snap.Answers)
	byID := make(map[int]question.Question, len(snap.Questions))
	for _, q := range snap.Questions {
		byID[q.ID] = q
	}

	return &ResultsScreen{
		deps:         d,
		log:          d.Logger().Named("results"),
		snap:         snap,
		result:       res,
		rows:         report.Rows(report.FromSnapshot(snap, res)),
		byID:         byID,
		reviewAt:     -1,
		explanations: make(map[int]*tutor.Explanation),
		explainErrs:  make(map[int]string),
		explaining:   make(map[int]bool),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Selected),
		),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	s.log.Info("attempt scored",
		zap.String("attempt", s.snap.AttemptID),
		zap.Int("correct", s.result.Overall.Correct),
		zap.Int("total", s.result.Overall.Total),
		zap.Int("percentage", s.result.Overall.Percentage),
		zap.Bool("passing", s.result.IsPassing))
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Test Results"
}

// Result returns the graded result shown on the screen.
func (s *ResultsScreen) Result() scoring.Result { return s.result }

// HandlesBack lets Esc close the review and export panels first.
func (s *ResultsScreen) HandlesBack() bool { return true }

func (s *ResultsScreen) Status() string {
	label := "FAIL"
	if s.result.IsPassing {
		label = "PASS"
	}
	return label
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeReview:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "X", Description: "Explain"},
			{Key: "Esc", Description: "Back"},
		}
	case modeExport:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Review"},
		{Key: "X", Description: "Explain"},
		{Key: "S", Description: "Save report"},
		{Key: "R", Description: "Retake"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		return s.handleExplained(msg)

	case exportedMsg:
		return s.handleExported(msg)

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch s.mode {
		case modeReview:
			return s.handleReviewKey(msg)
		case modeExport:
			return s.handleExportKey(msg)
		}
		return s.handleSummaryKey(msg)
	}

	if s.mode == modeExport {
		var cmd tea.Cmd
		s.export, cmd = s.export.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultsScreen) busy() bool {
	return s.exporting || len(s.explaining) > 0
}

func (s *ResultsScreen) handleSummaryKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s.notice = ""
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "home", "g":
		s.cursor = 0
	case "end", "G":
		s.cursor = max(len(s.rows)-1, 0)
	case "enter":
		if len(s.rows) > 0 {
			s.mode = modeReview
			s.reviewAt = -1
		}
	case "x":
		return s, s.explain(s.cursor)
	case "s":
		return s, s.openExport()
	case "r":
		return s, s.retake()
	case "esc", "q":
		return s, s.home()
	}
	return s, nil
}

func (s *ResultsScreen) handleReviewKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		s.mode = modeSummary
		return s, nil
	case "left", "p", "h":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "right", "n", "l":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
		return s, nil
	case "x":
		return s, s.explain(s.cursor)
	}
	var cmd tea.Cmd
	s.review, cmd = s.review.Update(msg)
	return s, cmd
}

// retake returns to the length picker below, which starts a fresh session.
func (s *ResultsScreen) retake() tea.Cmd {
	s.log.Info("retake", zap.String("attempt", s.snap.AttemptID))
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *ResultsScreen) home() tea.Cmd {
	return func() tea.Msg { return router.PopToRootMsg{} }
}

// selected returns the question and row under the cursor.
func (s *ResultsScreen) selected(i int) (question.Question, report.Row, bool) {
	if i < 0 || i >= len(s.rows) {
		return question.Question{}, report.Row{}, false
	}
	row := s.rows[i]
	q, ok := s.byID[row.ID]
	return q, row, ok
}
