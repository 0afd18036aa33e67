package bank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examiz/internal/question"
)

// makeQuestionsJSON returns n valid questions as JSON, ids starting at 1.
func makeQuestionsJSON(n int, category string) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":%d,"question":"Q%d","options":{"A":"a","B":"b"},"correct_answer":"A","explanation":"","category":%q}`, i, i, category)
	}
	b.WriteString("]")
	return b.String()
}

func pool(counts map[string]int) []question.Question {
	var qs []question.Question
	id := 1
	for _, c := range sortedKeys(counts) {
		for i := 0; i < counts[c]; i++ {
			qs = append(qs, question.Question{
				ID:            id,
				Text:          fmt.Sprintf("q%d", id),
				Options:       question.Options{{Label: "A", Text: "a"}, {Label: "B", Text: "b"}},
				CorrectAnswer: question.Label("A"),
				Category:      c,
			})
			id++
		}
	}
	return qs
}

func TestDecodeJSON(t *testing.T) {
	qs, err := Decode([]byte(makeQuestionsJSON(3, "prepare_data")), FormatJSON)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, 1, qs[0].ID)
	assert.Equal(t, []string{"A", "B"}, qs[0].Options.Labels())
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an array", `{"id":1}`},
		{"missing options", `[{"id":1,"question":"x","category":"a"}]`},
		{"one option", `[{"id":1,"question":"x","options":{"A":"a"},"category":"a"}]`},
		{"numeric option", `[{"id":1,"question":"x","options":{"A":1,"B":"b"},"category":"a"}]`},
		{"bad category", `[{"id":1,"question":"x","options":{"A":"a","B":"b"},"category":"Prepare Data"}]`},
		{"answer not an option", `[{"id":1,"question":"x","options":{"A":"a","B":"b"},"correct_answer":"C","category":"a"}]`},
		{"duplicate id", `[{"id":1,"question":"x","options":{"A":"a","B":"b"},"category":"a"},{"id":1,"question":"y","options":{"A":"a","B":"b"},"category":"a"}]`},
		{"truncated", `[{"id":1,`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatJSON)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeNullAnswerAndCategorize(t *testing.T) {
	data := `[{"id":9,"question":"Which DAX measure belongs in a semantic model relationship?","options":{"A":"CALCULATE","B":"SUM"},"correct_answer":null}]`
	qs, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)
	assert.False(t, qs[0].Gradable())
	assert.Equal(t, "semantic_models", qs[0].Category)
}

func TestDecodeYAML(t *testing.T) {
	data := `
- id: 1
  question: Pick one
  options:
    B: bee
    A: ay
  correct_answer: A
  category: prepare_data
`
	qs, err := Decode([]byte(data), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, qs[0].Options.Labels())

	_, err = Decode([]byte("- id: 1\n  question: x\n  options:\n    A: a\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeYAMLUsesSchema(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id", "- question: Pick one\n  options:\n    A: a\n    B: b\n"},
		{"bad category", "- id: 1\n  question: x\n  options:\n    A: a\n    B: b\n  category: Data Prep\n"},
		{"string id", "- id: one\n  question: x\n  options:\n    A: a\n    B: b\n"},
		{"not a list", "id: 1\nquestion: x\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatYAML)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	// Non-string option labels still load.
	qs, err := Decode([]byte("- id: 1\n  question: x\n  options:\n    1: a\n    2: b\n  correct_answer: \"2\"\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, qs[0].Options.Labels())
}

func TestDecodeEmptyCategory(t *testing.T) {
	data := `[{"id":1,"question":"Which Delta table feature speeds lakehouse reads?","options":{"A":"V-Order","B":"None"},"category":""}]`
	qs, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, qs[0].Category)
	assert.Equal(t, Categorize(qs[0].Text), qs[0].Category)

	yamlData := "- id: 1\n  question: Which Delta table feature speeds lakehouse reads?\n  options:\n    A: V-Order\n    B: None\n  category: \"\"\n"
	qs, err = Decode([]byte(yamlData), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Categorize(qs[0].Text), qs[0].Category)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"Configure a deployment pipeline for the workspace", "maintain_analytics_solution"},
		{"Write a DAX measure for the semantic model", "semantic_models"},
		{"Load files into the lakehouse", "prepare_data"},
		{"Something unrelated", DefaultCategory},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.text), tt.text)
	}
}

func TestDirSource(t *testing.T) {
	fsys := fstest.MapFS{
		"test_15.json": {Data: []byte(makeQuestionsJSON(20, "prepare_data"))},
		"test_30.json": {Data: []byte(makeQuestionsJSON(10, "prepare_data"))},
		"test_45.json": {Data: []byte(`[{"id":1}]`)},
	}
	src := &DirSource{FS: fsys, Root: "mem"}
	ctx := context.Background()

	qs, err := src.Questions(ctx, question.LengthShort)
	require.NoError(t, err)
	assert.Len(t, qs, 15)
	assert.Equal(t, 1, qs[0].ID)

	_, err = src.Questions(ctx, question.LengthMedium)
	assert.ErrorIs(t, err, ErrInsufficient)

	_, err = src.Questions(ctx, question.LengthLong)
	assert.ErrorIs(t, err, ErrMalformed)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, question.LengthLong, le.Length)

	_, err = src.Questions(ctx, question.Length(20))
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = (&DirSource{FS: fstest.MapFS{}, Root: "empty"}).Questions(ctx, question.LengthShort)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirSourceYAMLFallback(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 15; i++ {
		fmt.Fprintf(&b, "- id: %d\n  question: q\n  options: {A: a, B: b}\n  correct_answer: B\n  category: semantic_models\n", i)
	}
	src := &DirSource{FS: fstest.MapFS{"test_15.yaml": {Data: []byte(b.String())}}, Root: "mem"}
	qs, err := src.Questions(context.Background(), question.LengthShort)
	require.NoError(t, err)
	assert.Len(t, qs, 15)
}

func TestQuotas(t *testing.T) {
	tests := []struct {
		n    int
		want map[string]int
	}{
		{15, map[string]int{"prepare_data": 8, "maintain_analytics_solution": 4, "semantic_models": 3}},
		{30, map[string]int{"prepare_data": 14, "maintain_analytics_solution": 9, "semantic_models": 7}},
		{45, map[string]int{"prepare_data": 21, "maintain_analytics_solution": 13, "semantic_models": 11}},
	}
	for _, tt := range tests {
		got := DefaultWeights.Quotas(tt.n)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
		sum := 0
		for _, v := range got {
			sum += v
		}
		assert.Equal(t, tt.n, sum)
	}
}

func TestWeightsFromMap(t *testing.T) {
	w := WeightsFromMap(map[string]float64{"b": 0.5, "a": 0.5, "c": 0.9, "z": 0})
	var got []string
	for _, cw := range w {
		got = append(got, cw.Category)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func TestWeightsFromMapNormalizes(t *testing.T) {
	w := WeightsFromMap(map[string]float64{"prepare_data": 45, "maintain_analytics_solution": 30, "semantic_models": 25})
	require.Len(t, w, 3)
	assert.InDelta(t, 0.45, w[0].Weight, 1e-9)
	assert.InDelta(t, 0.25, w[2].Weight, 1e-9)
	assert.Equal(t, DefaultWeights.Quotas(15), w.Quotas(15))

	// Already-normalized weights come back untouched.
	assert.Equal(t, DefaultWeights, DefaultWeights.Normalized())
}

func TestQuotasNeverExceedLength(t *testing.T) {
	heavy := Weights{{"prepare_data", 45}, {"maintain_analytics_solution", 30}, {"semantic_models", 25}}
	for _, n := range question.Lengths {
		sum := 0
		for _, v := range heavy.Quotas(n.Int()) {
			sum += v
		}
		assert.Equal(t, n.Int(), sum, "n=%d", n)
	}
	assert.Empty(t, Weights{{"prepare_data", 0}}.Quotas(15))
}

func TestSelectWithPercentageWeights(t *testing.T) {
	w := WeightsFromMap(map[string]float64{"prepare_data": 45, "maintain_analytics_solution": 30, "semantic_models": 25})
	src := NewEmbeddedSource(w, 1)
	for _, n := range question.Lengths {
		qs, err := src.Questions(context.Background(), n)
		require.NoError(t, err)
		assert.Len(t, qs, n.Int())
	}

	// Hand-built weights that were never normalized are still bounded.
	p := pool(map[string]int{"prepare_data": 30, "maintain_analytics_solution": 20, "semantic_models": 20})
	qs, err := Select(p, 15, Weights{{"prepare_data", 4}, {"semantic_models", 2}}, 3)
	require.NoError(t, err)
	assert.Len(t, qs, 15)
}

func TestSelectHonoursWeights(t *testing.T) {
	p := pool(map[string]int{"prepare_data": 30, "maintain_analytics_solution": 20, "semantic_models": 20})
	qs, err := Select(p, 15, DefaultWeights, 42)
	require.NoError(t, err)
	require.Len(t, qs, 15)

	counts := map[string]int{}
	seen := map[int]bool{}
	for _, q := range qs {
		counts[q.Category]++
		assert.False(t, seen[q.ID], "duplicate id %d", q.ID)
		seen[q.ID] = true
	}
	assert.Equal(t, map[string]int{"prepare_data": 8, "maintain_analytics_solution": 4, "semantic_models": 3}, counts)

	// Grouped by category in weight order.
	assert.Equal(t, []string{"prepare_data", "maintain_analytics_solution", "semantic_models"}, question.Categories(qs))
}

func TestSelectDeterministicWithSeed(t *testing.T) {
	p := pool(map[string]int{"prepare_data": 30, "maintain_analytics_solution": 20, "semantic_models": 20})
	a, err := Select(p, 30, DefaultWeights, 7)
	require.NoError(t, err)
	b, err := Select(p, 30, DefaultWeights, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSelectTopsUpShortCategory(t *testing.T) {
	p := pool(map[string]int{"prepare_data": 2, "maintain_analytics_solution": 20, "semantic_models": 3})
	qs, err := Select(p, 15, DefaultWeights, 1)
	require.NoError(t, err)
	assert.Len(t, qs, 15)

	counts := map[string]int{}
	for _, q := range qs {
		counts[q.Category]++
	}
	assert.Equal(t, 2, counts["prepare_data"])
	assert.Equal(t, 3, counts["semantic_models"])
	assert.Equal(t, 10, counts["maintain_analytics_solution"])
}

func TestSelectInsufficient(t *testing.T) {
	_, err := Select(pool(map[string]int{"prepare_data": 5}), 15, DefaultWeights, 1)
	assert.ErrorIs(t, err, ErrInsufficient)
}

func TestEmbeddedBank(t *testing.T) {
	qs, err := EmbeddedBank()
	require.NoError(t, err)
	require.NoError(t, Check(qs))

	stats := ComputeStats(qs, DefaultWeights)
	for _, n := range question.Lengths {
		assert.True(t, stats.Capacity[n], "embedded bank cannot fill %d by weight", n)
	}

	src := NewEmbeddedSource(nil, 3)
	for _, n := range question.Lengths {
		got, err := src.Questions(context.Background(), n)
		require.NoError(t, err)
		assert.Len(t, got, n.Int())
	}
}

func TestPoolSourceErrors(t *testing.T) {
	src := NewPoolSource("broken", func(context.Context) ([]question.Question, error) {
		return nil, errors.New("disk on fire")
	}, nil, 1)
	_, err := src.Questions(context.Background(), question.LengthShort)
	assert.ErrorIs(t, err, ErrUnavailable)

	small := NewPoolSource("small", func(context.Context) ([]question.Question, error) {
		return pool(map[string]int{"prepare_data": 3}), nil
	}, nil, 1)
	_, err = small.Questions(context.Background(), question.LengthShort)
	assert.ErrorIs(t, err, ErrInsufficient)
}

type listerFunc func(ctx context.Context) ([]question.Question, error)

func (f listerFunc) All(ctx context.Context) ([]question.Question, error) { return f(ctx) }

func TestStoreSourceEmpty(t *testing.T) {
	src := NewStoreSource("sqlite", listerFunc(func(context.Context) ([]question.Question, error) {
		return nil, nil
	}), nil, 1)
	_, err := src.Questions(context.Background(), question.LengthShort)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/questions/15":
			w.Write([]byte(makeQuestionsJSON(15, "prepare_data")))
		case "/api/questions/30":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Questions not found."}`))
		case "/api/questions/20":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid test length. Must be 15, 30, or 45."}`))
		case "/api/questions/45":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Failed to load questions."}`))
		case "/api/categories":
			w.Write([]byte(`{"categories":[{"id":"prepare_data","name":"Prepare Data","questions":15}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL + "/")
	ctx := context.Background()

	qs, err := src.Questions(ctx, question.LengthShort)
	require.NoError(t, err)
	assert.Len(t, qs, 15)

	_, err = src.Questions(ctx, question.LengthMedium)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Questions(ctx, question.Length(20))
	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.Contains(t, err.Error(), "Must be 15, 30, or 45")

	_, err = src.Questions(ctx, question.LengthLong)
	assert.ErrorIs(t, err, ErrUnavailable)

	cat, err := src.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, cat.Categories, 1)
	assert.Equal(t, "Prepare Data", cat.Categories[0].Name)
}

func TestHTTPSourceRejectsWrongCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/questions/15":
			w.Write([]byte(makeQuestionsJSON(48, "prepare_data")))
		case "/api/questions/30":
			w.Write([]byte(makeQuestionsJSON(12, "prepare_data")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL)
	_, err := src.Questions(context.Background(), question.LengthShort)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = src.Questions(context.Background(), question.LengthMedium)
	assert.ErrorIs(t, err, ErrInsufficient)
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, question.LengthMedium, lerr.Length)
}

func TestBuildWritesTestsAndCatalog(t *testing.T) {
	dir := t.TempDir()
	p, err := EmbeddedBank()
	require.NoError(t, err)

	paths, err := Build(p, dir, DefaultWeights, 11)
	require.NoError(t, err)
	assert.Len(t, paths, len(question.Lengths)+1)

	src := NewDirSource(dir)
	for _, n := range question.Lengths {
		qs, err := src.Questions(context.Background(), n)
		require.NoError(t, err, "length %d", n)
		assert.Len(t, qs, n.Int())
	}

	cat, err := src.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, cat.Categories, 3)
	assert.Equal(t, "prepare_data", cat.Categories[0].ID)
	assert.Equal(t, 22, cat.Categories[0].Questions)

	_, err = os.Stat(filepath.Join(dir, CatalogFile))
	assert.NoError(t, err)
}

func TestComputeStats(t *testing.T) {
	p := pool(map[string]int{"prepare_data": 10, "semantic_models": 6})
	p[0].CorrectAnswer = nil
	s := ComputeStats(p, DefaultWeights)
	assert.Equal(t, 16, s.Total)
	assert.Equal(t, 1, s.Ungradable)
	assert.Equal(t, []string{"prepare_data", "semantic_models"}, s.Categories())
	assert.False(t, s.Capacity[question.LengthShort])
}
