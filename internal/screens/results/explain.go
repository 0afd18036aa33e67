package results

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/llm"
	"github.com/abhisek/examiz/internal/tutor"
)

const explainTimeout = 90 * time.Second

// NoticeNoTutor is shown when explain is pressed without an LLM provider.
const NoticeNoTutor = "Tutor is not configured. Set llm.provider to enable explanations."

type explainedMsg struct {
	ID          int
	Explanation *tutor.Explanation
	Err         error
}

// explain asks the tutor about row i. Requests already answered or in
// flight are not repeated.
func (s *ResultsScreen) explain(i int) tea.Cmd {
	q, _, ok := s.selected(i)
	if !ok {
		return nil
	}
	if s.deps.Tutor == nil {
		s.notice = NoticeNoTutor
		return nil
	}
	if s.explanations[q.ID] != nil || s.explaining[q.ID] {
		return nil
	}

	s.explaining[q.ID] = true
	delete(s.explainErrs, q.ID)
	s.reviewDirty = true

	in := tutor.Input{Question: q, Selected: s.snap.Answers[q.ID]}
	t := s.deps.Tutor
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), explainTimeout)
		defer cancel()
		exp, err := t.Explain(ctx, in)
		return explainedMsg{ID: in.Question.ID, Explanation: exp, Err: err}
	})
}

func (s *ResultsScreen) handleExplained(msg explainedMsg) (*ResultsScreen, tea.Cmd) {
	delete(s.explaining, msg.ID)
	s.reviewDirty = true
	if msg.Err != nil {
		s.log.Warn("explain question", zap.Int("question", msg.ID), zap.Error(msg.Err))
		s.explainErrs[msg.ID] = explainFailure(msg.Err)
		return s, nil
	}
	s.explanations[msg.ID] = msg.Explanation
	return s, nil
}

func explainFailure(err error) string {
	var rl *llm.ErrRateLimit
	switch {
	case errors.As(err, &rl):
		return "The tutor is rate limited. Try again in a moment."
	case errors.Is(err, context.DeadlineExceeded):
		return "The tutor took too long to answer."
	default:
		return "The tutor could not explain this question."
	}
}
