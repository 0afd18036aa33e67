package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/examiz/internal/question"
)

// Errors returned by State mutators. Rejected mutations leave the state unchanged.
var (
	ErrInvalidReference = errors.New("question id not in session")
	ErrOutOfRange       = errors.New("question index out of range")
	ErrSessionComplete  = errors.New("session is complete")
)

// State is the mutable state of one test attempt. It is owned by the
// screen driving the attempt; everything else receives a Snapshot.
//
// State is not safe for concurrent use.
type State struct {
	id         string
	length     question.Length
	questions  []question.Question
	positions  map[int]int // question ID -> index
	current    int
	answers    question.AnswerMap
	complete   bool
	startedAt  time.Time
	finishedAt time.Time

	now func() time.Time
}

// New returns an empty session.
func New() *State {
	return &State{
		answers:   question.AnswerMap{},
		positions: map[int]int{},
		now:       time.Now,
	}
}

// Load replaces the question set and starts a fresh attempt: answers are
// cleared, the cursor moves to the first question and the completion flag
// is reset. An empty set is accepted but leaves the session not Ready.
func (s *State) Load(length question.Length, qs []question.Question) {
	s.id = uuid.NewString()
	s.length = length
	s.questions = question.CloneAll(qs)
	s.positions = make(map[int]int, len(qs))
	for i, q := range s.questions {
		s.positions[q.ID] = i
	}
	s.current = 0
	s.answers = question.AnswerMap{}
	s.complete = false
	s.startedAt = s.now()
	s.finishedAt = time.Time{}
}

// Reset returns the session to the empty state.
func (s *State) Reset() {
	s.id = ""
	s.length = 0
	s.questions = nil
	s.positions = map[int]int{}
	s.current = 0
	s.answers = question.AnswerMap{}
	s.complete = false
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
}

// RecordAnswer sets the selected label for question id, replacing any
// earlier selection. The label is not checked against the question's options.
func (s *State) RecordAnswer(id int, label string) error {
	if s.complete {
		return ErrSessionComplete
	}
	if _, ok := s.positions[id]; !ok {
		return ErrInvalidReference
	}
	s.answers[id] = label
	return nil
}

// GoTo moves the cursor to index.
func (s *State) GoTo(index int) error {
	if index < 0 || index >= len(s.questions) {
		return ErrOutOfRange
	}
	s.current = index
	return nil
}

// Advance moves to the next question. It reports false at the last question.
func (s *State) Advance() bool {
	return s.GoTo(s.current+1) == nil
}

// Retreat moves to the previous question. It reports false at the first question.
func (s *State) Retreat() bool {
	return s.GoTo(s.current-1) == nil
}

// Finish marks the attempt complete. Calling it again has no effect.
func (s *State) Finish() {
	if s.complete {
		return
	}
	s.complete = true
	s.finishedAt = s.now()
}

// Ready reports whether a non-empty question set is loaded.
func (s *State) Ready() bool { return len(s.questions) > 0 }

// ID returns the attempt ID, or "" when nothing is loaded.
func (s *State) ID() string { return s.id }

// Length returns the requested test length.
func (s *State) Length() question.Length { return s.length }

// Len returns the number of loaded questions.
func (s *State) Len() int { return len(s.questions) }

// Index returns the cursor position.
func (s *State) Index() int { return s.current }

// Complete reports whether Finish has been called.
func (s *State) Complete() bool { return s.complete }

// Current returns the question under the cursor.
func (s *State) Current() (question.Question, bool) {
	return s.At(s.current)
}

// At returns the question at index i.
func (s *State) At(i int) (question.Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return question.Question{}, false
	}
	return s.questions[i], true
}

// Answer returns the label recorded for question id.
func (s *State) Answer(id int) (string, bool) {
	label, ok := s.answers[id]
	return label, ok
}

// AnsweredCount returns how many questions have a recorded answer.
func (s *State) AnsweredCount() int { return len(s.answers) }

// NextUnanswered returns the index of the first unanswered question after
// the cursor, wrapping to the start. It reports false when all are answered.
func (s *State) NextUnanswered() (int, bool) {
	n := len(s.questions)
	for step := 1; step <= n; step++ {
		i := (s.current + step) % n
		if _, ok := s.answers[s.questions[i].ID]; !ok {
			return i, true
		}
	}
	return 0, false
}

// Elapsed returns time spent on the attempt so far, or in total once finished.
func (s *State) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	if s.complete {
		return s.finishedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// Snapshot is a read-only copy of a session handed to scoring and reporting.
type Snapshot struct {
	AttemptID  string
	Length     question.Length
	Questions  []question.Question
	Answers    question.AnswerMap
	Complete   bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Snapshot returns a deep copy of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		AttemptID:  s.id,
		Length:     s.length,
		Questions:  question.CloneAll(s.questions),
		Answers:    s.answers.Clone(),
		Complete:   s.complete,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

// Duration returns the time between start and finish, or zero if unfinished.
func (s Snapshot) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
