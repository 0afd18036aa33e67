package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/examiz/internal/question"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// Each test gets its own shared-cache memory database.
	s, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestFileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "examiz.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func sampleQuestions() []question.Question {
	return []question.Question{
		{
			ID:            3,
			Text:          "Which storage mode reads Delta tables directly?",
			Options:       question.Options{{Label: "B", Text: "Import"}, {Label: "A", Text: "Direct Lake"}},
			CorrectAnswer: question.Label("A"),
			Explanation:   "Direct Lake",
			Category:      "semantic_models",
		},
		{
			ID:       1,
			Text:     "Unmarked",
			Options:  question.Options{{Label: "A", Text: "x"}, {Label: "B", Text: "y"}},
			Category: "prepare_data",
		},
		{
			ID:            2,
			Text:          "Role?",
			Options:       question.Options{{Label: "A", Text: "Admin"}, {Label: "B", Text: "Viewer"}},
			CorrectAnswer: question.Label("B"),
			Category:      "semantic_models",
		},
	}
}

func TestQuestionRepoRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, sampleQuestions()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("All returned %d questions, want 3", len(got))
	}
	// Import order, not id order.
	if got[0].ID != 3 || got[1].ID != 1 || got[2].ID != 2 {
		t.Errorf("order = %d,%d,%d; want 3,1,2", got[0].ID, got[1].ID, got[2].ID)
	}
	if labels := got[0].Options.Labels(); labels[0] != "B" || labels[1] != "A" {
		t.Errorf("option order = %v, want [B A]", labels)
	}
	if ans, ok := got[0].Answer(); !ok || ans != "A" {
		t.Errorf("answer = %q, %v; want A, true", ans, ok)
	}
	if got[1].Gradable() {
		t.Error("unmarked question came back gradable")
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v; want 3", n, err)
	}

	cats, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if cats["semantic_models"] != 2 || cats["prepare_data"] != 1 {
		t.Errorf("Categories = %v", cats)
	}

	sm, err := repo.ByCategory(ctx, "semantic_models")
	if err != nil || len(sm) != 2 {
		t.Errorf("ByCategory = %d, %v; want 2", len(sm), err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examiz.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.QuestionRepo().ReplaceAll(ctx, sampleQuestions()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "explain", Success: true}); err != nil {
		t.Fatalf("AppendLLMRequest: %v", err)
	}
	s.Close()

	// Migrating an existing database must leave its rows alone.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	n, err := s.QuestionRepo().Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count after reopen = %d, %v; want 3", n, err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "explain", Success: true}); err != nil {
		t.Fatalf("AppendLLMRequest after reopen: %v", err)
	}
	events, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	if err != nil || len(events) != 2 {
		t.Fatalf("events after reopen = %d, %v; want 2", len(events), err)
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("sequence did not continue across reopen: %d then %d", events[1].Sequence, events[0].Sequence)
	}
}

func TestQuestionRepoLargeImport(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	qs := make([]question.Question, 450)
	for i := range qs {
		qs[i] = question.Question{
			ID:       i + 1,
			Text:     "Q",
			Options:  question.Options{{Label: "A", Text: "x"}, {Label: "B", Text: "y"}},
			Category: "prepare_data",
		}
	}
	if err := repo.ReplaceAll(ctx, qs); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 450 || got[449].ID != 450 {
		t.Errorf("All returned %d questions", len(got))
	}
}

func TestQuestionRepoReplaceIsAtomic(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, sampleQuestions()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	dup := sampleQuestions()
	dup[1].ID = dup[0].ID
	if err := repo.ReplaceAll(ctx, dup); err == nil {
		t.Fatal("expected duplicate id to fail")
	}

	n, _ := repo.Count(ctx)
	if n != 3 {
		t.Errorf("Count after failed replace = %d, want 3", n)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"explain", "explain", "other"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      purpose,
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    int64(100 + i),
			Success:      i != 2,
			RequestBody:  "req",
			ResponseBody: "resp",
		})
		if err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Error("events not newest first")
	}
	if all[0].Success {
		t.Error("newest event should be the failed one")
	}

	explain, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "explain", Limit: 1})
	if err != nil {
		t.Fatalf("QueryLLMEvents purpose: %v", err)
	}
	if len(explain) != 1 || explain[0].InputTokens != 20 {
		t.Errorf("purpose filter = %+v", explain)
	}

	e, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("GetLLMEvent: %v", err)
	}
	if e == nil || e.RequestBody != "req" || e.Timestamp.IsZero() {
		t.Errorf("GetLLMEvent = %+v", e)
	}
	if time.Since(e.Timestamp) > time.Hour {
		t.Errorf("timestamp %v too old", e.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetLLMEvent(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestLLMUsageByModel(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 20, LatencyMs: 200, Success: true},
		{Model: "gpt-4o-mini", InputTokens: 300, OutputTokens: 40, LatencyMs: 400, Success: false},
		{Model: "claude-haiku-4-5-20251001", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: true},
	}
	for _, e := range events {
		e.Provider, e.Purpose = "test", "explain"
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByModel: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d models, want 2", len(usage))
	}
	u := usage[0]
	if u.Model != "gpt-4o-mini" || u.Calls != 2 || u.Failures != 1 {
		t.Errorf("busiest model = %+v", u)
	}
	if u.InputTokens != 400 || u.OutputTokens != 60 || u.AvgLatencyMs != 300 {
		t.Errorf("totals = %+v", u)
	}
}
