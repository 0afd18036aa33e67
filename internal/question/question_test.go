package question

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOptionsJSONKeepsOrder(t *testing.T) {
	var q Question
	data := `{"id":7,"question":"Pick","options":{"C":"three","A":"one","B":"two"},"correct_answer":"A","explanation":"","category":"prepare_data"}`
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := q.Options.Labels()
	want := []string{"C", "A", "B"}
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	out, err := json.Marshal(q.Options)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"C":"three","A":"one","B":"two"}` {
		t.Errorf("marshal = %s", out)
	}
}

func TestOptionsJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"array", `["a","b"]`},
		{"duplicate", `{"A":"x","A":"y"}`},
		{"non-string", `{"A":1}`},
		{"garbage", `{"A":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Options
			if err := json.Unmarshal([]byte(tt.data), &o); err == nil {
				t.Errorf("expected error for %s", tt.data)
			}
		})
	}
}

func TestNullCorrectAnswer(t *testing.T) {
	var q Question
	if err := json.Unmarshal([]byte(`{"id":1,"question":"?","options":{"A":"a","B":"b"},"correct_answer":null,"category":"x"}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Gradable() {
		t.Error("question with null answer should not be gradable")
	}
	if _, ok := q.Answer(); ok {
		t.Error("Answer() ok = true, want false")
	}
}

func TestOptionsYAML(t *testing.T) {
	src := `
id: 3
question: Which?
options:
  B: second
  A: first
correct_answer: B
category: semantic_models
`
	var q Question
	if err := yaml.Unmarshal([]byte(src), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := q.Options.Labels(); len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Errorf("labels = %v, want [B A]", got)
	}
	if ans, _ := q.Answer(); ans != "B" {
		t.Errorf("answer = %q, want B", ans)
	}

	out, err := yaml.Marshal(q.Options)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "B: second\nA: first\n" {
		t.Errorf("marshal = %q", out)
	}
}

func TestCloneIsDeep(t *testing.T) {
	q := Question{
		ID:            1,
		Options:       Options{{"A", "a"}, {"B", "b"}},
		CorrectAnswer: Label("A"),
	}
	c := q.Clone()
	c.Options[0].Text = "changed"
	*c.CorrectAnswer = "B"

	if q.Options[0].Text != "a" {
		t.Error("clone shares options with original")
	}
	if *q.CorrectAnswer != "A" {
		t.Error("clone shares correct answer with original")
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    Length
		wantErr bool
	}{
		{"15", LengthShort, false},
		{"30", LengthMedium, false},
		{" 45 ", LengthLong, false},
		{"20", 0, true},
		{"0", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidLength) {
				t.Errorf("ParseLength(%q) err = %v, want ErrInvalidLength", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLength(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLength(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLengthsString(t *testing.T) {
	if got := LengthsString(); got != "15, 30, or 45" {
		t.Errorf("LengthsString() = %q", got)
	}
}

func TestHumanizeCategory(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"prepare_data", "Prepare Data"},
		{"maintain_analytics_solution", "Maintain Analytics Solution"},
		{"semantic_models", "Semantic Models"},
		{"single", "Single"},
		{"", ""},
		{"a__b", "A  B"},
		{"already_Upper", "Already Upper"},
	}
	for _, tt := range tests {
		if got := HumanizeCategory(tt.in); got != tt.want {
			t.Errorf("HumanizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoriesFirstSeen(t *testing.T) {
	qs := []Question{{Category: "b"}, {Category: "a"}, {Category: "b"}, {Category: "c"}}
	got := Categories(qs)
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
