// Package exam is the screen that runs one test attempt.
package exam

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/screens/deps"
	"github.com/abhisek/examiz/internal/screens/results"
	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
)

// Notices shown under the question.
const (
	NoticeAnswerToFinish = "Answer this question to finish the test."
	NoticeAllAnswered    = "All questions are answered."
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmFinish
	confirmAbandon
)

type timerTickMsg time.Time

// ExamScreen owns the session for one attempt. Everything it hands on
// (results, reports) gets a snapshot.
type ExamScreen struct {
	deps            deps.Deps
	log             *zap.Logger
	state           *session.State
	options         components.OptionList
	showExplanation bool
	notice          string

	confirm     confirmKind
	confirmBtns []components.Button
	confirmIdx  int
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.BackHandler = (*ExamScreen)(nil)
var _ screen.StatusProvider = (*ExamScreen)(nil)

// New creates an exam screen over a loaded session.
func New(d deps.Deps, st *session.State) *ExamScreen {
	s := &ExamScreen{
		deps:  d,
		log:   d.Logger().Named("exam"),
		state: st,
	}
	s.syncOptions()
	return s
}

func (s *ExamScreen) Init() tea.Cmd {
	s.log.Info("attempt started",
		zap.String("attempt", s.state.ID()),
		zap.Int("questions", s.state.Len()))
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (s *ExamScreen) Title() string {
	return "DP-600 Practice Test"
}

// HandlesBack routes Esc to the abandon prompt.
func (s *ExamScreen) HandlesBack() bool { return true }

// Status shows the answered count and elapsed time in the header.
func (s *ExamScreen) Status() string {
	return fmt.Sprintf("%d/%d answered  %s", s.state.AnsweredCount(), s.state.Len(), clock(s.state.Elapsed()))
}

func clock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	if s.confirm != confirmNone {
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Y/N", Description: "Yes/No"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "E", Description: "Explanation"},
		{Key: "U", Description: "Unanswered"},
		{Key: "F", Description: "Finish"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.state.Complete() {
			return s, nil
		}
		return s, tickCmd()

	case tea.KeyMsg:
		if s.confirm != confirmNone {
			return s.handleConfirmKey(msg)
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	// Option keys win over screen keys, so a question with an option
	// labelled E or F can still be answered by letter.
	var picked string
	s.options, picked = s.options.Update(msg)
	if picked != "" {
		s.answer(picked)
		return s, nil
	}

	switch msg.String() {
	case "esc":
		s.openConfirm(confirmAbandon)
	case "right", "n", "l":
		s.next()
	case "left", "p", "h":
		s.prev()
	case "home":
		s.goTo(0)
	case "end":
		s.goTo(s.state.Len() - 1)
	case "e", "?":
		s.showExplanation = !s.showExplanation
	case "u":
		if i, ok := s.state.NextUnanswered(); ok {
			s.goTo(i)
		} else {
			s.notice = NoticeAllAnswered
		}
	case "f":
		s.openConfirm(confirmFinish)
	}
	return s, nil
}

func (s *ExamScreen) answer(label string) {
	q, ok := s.state.Current()
	if !ok {
		return
	}
	if err := s.state.RecordAnswer(q.ID, label); err != nil {
		s.log.Debug("answer rejected", zap.Int("question", q.ID), zap.Error(err))
		return
	}
	s.options.Chosen = label
	s.notice = ""
}

// next advances, or on the last question asks to finish. Finishing from
// the last question needs that question answered.
func (s *ExamScreen) next() {
	if s.state.Advance() {
		s.afterMove()
		return
	}
	q, _ := s.state.Current()
	if _, answered := s.state.Answer(q.ID); !answered {
		s.notice = NoticeAnswerToFinish
		return
	}
	s.openConfirm(confirmFinish)
}

func (s *ExamScreen) prev() {
	if s.state.Retreat() {
		s.afterMove()
	}
}

func (s *ExamScreen) goTo(i int) {
	if err := s.state.GoTo(i); err != nil {
		s.log.Debug("navigation rejected", zap.Int("index", i), zap.Error(err))
		return
	}
	s.afterMove()
}

func (s *ExamScreen) afterMove() {
	s.showExplanation = false
	s.notice = ""
	s.syncOptions()
}

func (s *ExamScreen) syncOptions() {
	q, ok := s.state.Current()
	if !ok {
		s.options = components.OptionList{}
		return
	}
	chosen, _ := s.state.Answer(q.ID)
	s.options = components.NewOptionList(q.Options, chosen)
}

func (s *ExamScreen) openConfirm(kind confirmKind) {
	s.confirm = kind
	s.confirmIdx = 1
	yes := "Finish Test"
	no := "Keep Going"
	if kind == confirmAbandon {
		yes = "Quit Test"
	}
	s.confirmBtns = []components.Button{
		components.NewButton(yes, false, s.confirmYes),
		components.NewButton(no, true, s.confirmNo),
	}
}

func (s *ExamScreen) handleConfirmKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return s, s.confirmYes()
	case "n", "N", "esc":
		return s, s.confirmNo()
	case "left", "right", "tab", "h", "l":
		s.confirmIdx = 1 - s.confirmIdx
		for i := range s.confirmBtns {
			s.confirmBtns[i].Active = i == s.confirmIdx
		}
		return s, nil
	}

	// The pressed button's action clears the dialog, so don't write it back.
	_, cmd := s.confirmBtns[s.confirmIdx].Update(msg)
	return s, cmd
}

func (s *ExamScreen) confirmNo() tea.Cmd {
	s.confirm = confirmNone
	s.confirmBtns = nil
	return nil
}

func (s *ExamScreen) confirmYes() tea.Cmd {
	kind := s.confirm
	s.confirm = confirmNone
	s.confirmBtns = nil

	if kind == confirmAbandon {
		s.log.Info("attempt abandoned",
			zap.String("attempt", s.state.ID()),
			zap.Int("answered", s.state.AnsweredCount()))
		s.state.Reset()
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s.finish()
}

// finish completes the attempt and replaces this screen with the results.
func (s *ExamScreen) finish() tea.Cmd {
	s.state.Finish()
	snap := s.state.Snapshot()
	s.log.Info("attempt finished",
		zap.String("attempt", snap.AttemptID),
		zap.Int("answered", len(snap.Answers)),
		zap.Int("questions", len(snap.Questions)),
		zap.Duration("duration", snap.Duration()))

	next := results.New(s.deps, snap)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
