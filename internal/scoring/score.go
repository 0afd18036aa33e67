package scoring

import "github.com/abhisek/examiz/internal/question"

// Tally is a correct/total count with its rounded percentage.
type Tally struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func newTally(correct, total int) Tally {
	return Tally{Correct: correct, Total: total, Percentage: Percentage(correct, total)}
}

// CategoryTally is a Tally scoped to one category.
type CategoryTally struct {
	Category string `json:"category"`
	// Label is the humanized category name used for display.
	Label string `json:"label"`
	Tally
}

// QuestionResult is the graded outcome of a single question.
type QuestionResult struct {
	Position      int    `json:"position"`
	ID            int    `json:"id"`
	Category      string `json:"category"`
	Selected      string `json:"selected,omitempty"`
	Answered      bool   `json:"answered"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Gradable      bool   `json:"gradable"`
	Correct       bool   `json:"correct"`
}

// Result is the output of Score. It is never cached: callers score a
// snapshot when they need figures.
type Result struct {
	Overall Tally `json:"overall"`
	// Categories holds one entry per distinct category, in first-seen order.
	Categories    []CategoryTally  `json:"categories"`
	IsPassing     bool             `json:"is_passing"`
	PassThreshold int              `json:"pass_threshold"`
	Questions     []QuestionResult `json:"questions"`
}

// ByCategory returns the tally for category.
func (r Result) ByCategory(category string) (CategoryTally, bool) {
	for _, c := range r.Categories {
		if c.Category == category {
			return c, true
		}
	}
	return CategoryTally{}, false
}

// PerCategory returns the category tallies keyed by category tag.
func (r Result) PerCategory() map[string]Tally {
	out := make(map[string]Tally, len(r.Categories))
	for _, c := range r.Categories {
		out[c.Category] = c.Tally
	}
	return out
}

// Question returns the graded result for question id.
func (r Result) Question(id int) (QuestionResult, bool) {
	for _, q := range r.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return QuestionResult{}, false
}

// Score grades qs against answers with the default policy.
func Score(qs []question.Question, answers question.AnswerMap) Result {
	return DefaultPolicy().Score(qs, answers)
}

// Score grades qs against answers. Neither input is modified.
func (p Policy) Score(qs []question.Question, answers question.AnswerMap) Result {
	res := Result{
		Categories:    []CategoryTally{},
		PassThreshold: p.PassThreshold,
		Questions:     make([]QuestionResult, 0, len(qs)),
	}

	type counts struct{ correct, total int }
	groups := make(map[string]*counts)
	var order []string
	correct := 0

	for i, q := range qs {
		selected, answered := answers[q.ID]
		ok := IsCorrect(q, answers)

		qr := QuestionResult{
			Position: i + 1,
			ID:       q.ID,
			Category: q.Category,
			Selected: selected,
			Answered: answered,
			Gradable: q.Gradable(),
			Correct:  ok,
		}
		if ans, has := q.Answer(); has {
			qr.CorrectAnswer = ans
		}
		res.Questions = append(res.Questions, qr)

		g, seen := groups[q.Category]
		if !seen {
			g = &counts{}
			groups[q.Category] = g
			order = append(order, q.Category)
		}
		g.total++
		if ok {
			g.correct++
			correct++
		}
	}

	res.Overall = newTally(correct, len(qs))
	for _, cat := range order {
		g := groups[cat]
		res.Categories = append(res.Categories, CategoryTally{
			Category: cat,
			Label:    question.HumanizeCategory(cat),
			Tally:    newTally(g.correct, g.total),
		})
	}
	res.IsPassing = len(qs) > 0 && p.Passes(res.Overall.Percentage)
	return res
}

// IsCorrect reports whether q was answered with its marked correct label.
// Unanswered and unmarked questions are never correct.
func IsCorrect(q question.Question, answers question.AnswerMap) bool {
	selected, answered := answers[q.ID]
	if !answered {
		return false
	}
	want, ok := q.Answer()
	return ok && selected == want
}

// Percentage returns 100*correct/total rounded half up, or 0 when total <= 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
