package scoring

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examiz/internal/question"
)

func q(id int, category string, correct *string) question.Question {
	return question.Question{
		ID:   id,
		Text: "question",
		Options: question.Options{
			{Label: "A", Text: "a"}, {Label: "B", Text: "b"},
			{Label: "C", Text: "c"}, {Label: "D", Text: "d"},
		},
		CorrectAnswer: correct,
		Category:      category,
	}
}

func TestScoreMixedCategory(t *testing.T) {
	qs := []question.Question{
		q(1, "data_prep", question.Label("A")),
		q(2, "data_prep", question.Label("B")),
	}
	res := Score(qs, question.AnswerMap{1: "A", 2: "C"})

	assert.Equal(t, Tally{Correct: 1, Total: 2, Percentage: 50}, res.Overall)
	assert.Equal(t, map[string]Tally{"data_prep": {Correct: 1, Total: 2, Percentage: 50}}, res.PerCategory())
	assert.False(t, res.IsPassing)
}

func TestScoreAllCorrect(t *testing.T) {
	qs := []question.Question{
		q(1, "a", question.Label("A")),
		q(2, "b", question.Label("B")),
		q(3, "a", question.Label("D")),
	}
	res := Score(qs, question.AnswerMap{1: "A", 2: "B", 3: "D"})

	assert.Equal(t, 100, res.Overall.Percentage)
	assert.True(t, res.IsPassing)
}

func TestScoreEmpty(t *testing.T) {
	res := Score(nil, question.AnswerMap{})

	assert.Equal(t, Tally{}, res.Overall)
	assert.Empty(t, res.Categories)
	assert.Empty(t, res.PerCategory())
	assert.False(t, res.IsPassing)
}

func TestUngradableNeverCorrect(t *testing.T) {
	qs := []question.Question{q(1, "x", nil)}
	for _, label := range []string{"A", "B", "C", "D", ""} {
		res := Score(qs, question.AnswerMap{1: label})
		assert.Equal(t, 0, res.Overall.Correct, "label %q", label)
		assert.Equal(t, 1, res.Overall.Total)
		assert.False(t, res.Questions[0].Gradable)
	}
}

func TestUnansweredCountsTowardTotal(t *testing.T) {
	qs := []question.Question{
		q(1, "x", question.Label("A")),
		q(2, "y", question.Label("A")),
	}
	res := Score(qs, question.AnswerMap{1: "A"})

	assert.Equal(t, Tally{Correct: 1, Total: 2, Percentage: 50}, res.Overall)
	y, ok := res.ByCategory("y")
	require.True(t, ok)
	assert.Equal(t, Tally{Correct: 0, Total: 1, Percentage: 0}, y.Tally)
	assert.False(t, res.Questions[1].Answered)
}

func TestUnknownLabelIsJustWrong(t *testing.T) {
	qs := []question.Question{q(1, "x", question.Label("A"))}
	res := Score(qs, question.AnswerMap{1: "Z"})
	assert.Equal(t, 0, res.Overall.Correct)
	assert.True(t, res.Questions[0].Answered)
	assert.Equal(t, "Z", res.Questions[0].Selected)
}

func TestCategoryOrderFirstSeen(t *testing.T) {
	qs := []question.Question{
		q(1, "semantic_models", question.Label("A")),
		q(2, "prepare_data", question.Label("A")),
		q(3, "semantic_models", question.Label("A")),
		q(4, "maintain_analytics_solution", question.Label("A")),
	}
	res := Score(qs, nil)

	var got []string
	for _, c := range res.Categories {
		got = append(got, c.Category)
	}
	assert.Equal(t, []string{"semantic_models", "prepare_data", "maintain_analytics_solution"}, got)
	assert.Equal(t, "Maintain Analytics Solution", res.Categories[2].Label)
}

func TestPercentageRounding(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{0, -1, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{3, 8, 38}, // 37.5 rounds up
		{7, 10, 70},
		{31, 45, 69},
		{15, 15, 100},
	}
	for _, tt := range tests {
		if got := Percentage(tt.correct, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestPolicyThreshold(t *testing.T) {
	qs := []question.Question{
		q(1, "x", question.Label("A")),
		q(2, "x", question.Label("A")),
	}
	answers := question.AnswerMap{1: "A"}

	assert.False(t, DefaultPolicy().Score(qs, answers).IsPassing)
	assert.True(t, Policy{PassThreshold: 50}.Score(qs, answers).IsPassing)
	assert.Equal(t, 50, Policy{PassThreshold: 50}.Score(qs, answers).PassThreshold)
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.Error(t, Policy{PassThreshold: -1}.Validate())
	assert.Error(t, Policy{PassThreshold: 101}.Validate())
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	qs := []question.Question{q(1, "x", question.Label("A")), q(2, "y", nil)}
	answers := question.AnswerMap{1: "B", 2: "A"}
	qsCopy := question.CloneAll(qs)
	answersCopy := answers.Clone()

	Score(qs, answers)

	assert.Equal(t, qsCopy, qs)
	assert.Equal(t, answersCopy, answers)
}

// randomCase builds a random question set and answer map.
func randomCase(r *rand.Rand) ([]question.Question, question.AnswerMap) {
	cats := []string{"prepare_data", "semantic_models", "maintain_analytics_solution"}
	labels := []string{"A", "B", "C", "D"}
	n := r.IntN(40)
	qs := make([]question.Question, n)
	answers := question.AnswerMap{}
	for i := range qs {
		var correct *string
		if r.IntN(6) > 0 {
			correct = question.Label(labels[r.IntN(4)])
		}
		qs[i] = q(i+1, cats[r.IntN(len(cats))], correct)
		if r.IntN(4) > 0 {
			answers[i+1] = labels[r.IntN(4)]
		}
	}
	return qs, answers
}

func TestScoreProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		qs, answers := randomCase(r)
		res := Score(qs, answers)

		if res.Overall.Total != len(qs) {
			t.Fatalf("case %d: total = %d, want %d", i, res.Overall.Total, len(qs))
		}
		if res.Overall.Correct > res.Overall.Total {
			t.Fatalf("case %d: correct %d > total %d", i, res.Overall.Correct, res.Overall.Total)
		}

		var sumCorrect, sumTotal int
		for _, c := range res.Categories {
			sumCorrect += c.Correct
			sumTotal += c.Total
		}
		if sumCorrect != res.Overall.Correct || sumTotal != res.Overall.Total {
			t.Fatalf("case %d: category sums %d/%d != overall %d/%d",
				i, sumCorrect, sumTotal, res.Overall.Correct, res.Overall.Total)
		}
		if len(res.Categories) != len(question.Categories(qs)) {
			t.Fatalf("case %d: %d categories, want %d", i, len(res.Categories), len(question.Categories(qs)))
		}

		if again := Score(qs, answers); !reflect.DeepEqual(res, again) {
			t.Fatalf("case %d: Score is not deterministic", i)
		}
	}
}
