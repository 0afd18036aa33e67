package question

// Question is a single multiple-choice exam question as supplied by a
// question source. Questions are treated as immutable once loaded.
type Question struct {
	// ID is unique within a test and stable for the life of a session.
	ID int `json:"id" yaml:"id"`

	// Text is the prompt shown to the learner.
	Text string `json:"question" yaml:"question"`

	// Options maps a short label ("A".."D") to the option text, in display order.
	Options Options `json:"options" yaml:"options"`

	// CorrectAnswer is the label of the correct option, or nil when the
	// question has no definitive answer. Such questions are never graded correct.
	CorrectAnswer *string `json:"correct_answer" yaml:"correct_answer"`

	// Explanation is free text shown after answering. May be empty.
	Explanation string `json:"explanation" yaml:"explanation"`

	// Category is a snake_case topic tag used for breakdown reporting.
	Category string `json:"category" yaml:"category"`
}

// Gradable reports whether the question has a marked correct answer.
func (q Question) Gradable() bool {
	return q.CorrectAnswer != nil
}

// Answer returns the correct label and whether one is set.
func (q Question) Answer() (string, bool) {
	if q.CorrectAnswer == nil {
		return "", false
	}
	return *q.CorrectAnswer, true
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	c := q
	c.Options = q.Options.Clone()
	if q.CorrectAnswer != nil {
		ans := *q.CorrectAnswer
		c.CorrectAnswer = &ans
	}
	return c
}

// CloneAll deep-copies a question sequence, preserving order.
func CloneAll(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// Label returns a pointer to label, for building questions in code.
func Label(label string) *string {
	return &label
}

// AnswerMap maps Question.ID to the label the learner selected.
// A missing key means the question is unanswered.
type AnswerMap map[int]string

// Clone returns a copy of the map. A nil map clones to an empty map.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for id, label := range m {
		out[id] = label
	}
	return out
}
