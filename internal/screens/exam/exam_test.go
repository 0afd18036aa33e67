package exam

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/scoring"
	"github.com/abhisek/examiz/internal/screens/deps"
	"github.com/abhisek/examiz/internal/screens/results"
	"github.com/abhisek/examiz/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func abcd() question.Options {
	return question.Options{
		{Label: "A", Text: "Lakehouse"},
		{Label: "B", Text: "Warehouse"},
		{Label: "C", Text: "Eventhouse"},
		{Label: "D", Text: "Datamart"},
	}
}

func testScreen(n int) (*ExamScreen, *session.State) {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			ID:            100 + i,
			Text:          "Which item stores Delta tables?",
			Options:       abcd(),
			CorrectAnswer: question.Label("A"),
			Explanation:   "Lakehouses store Delta tables.",
			Category:      "prepare_data",
		}
	}
	st := session.New()
	st.Load(question.LengthShort, qs)
	return New(deps.Deps{Policy: scoring.DefaultPolicy()}, st), st
}

func TestExamScreen_Title(t *testing.T) {
	s, _ := testScreen(3)
	if s.Title() != "DP-600 Practice Test" {
		t.Errorf("Title = %q", s.Title())
	}
	if s.Init() == nil {
		t.Error("expected timer tick from Init")
	}
}

func TestExamScreen_AnswerByLetter(t *testing.T) {
	s, st := testScreen(3)

	s.Update(keyPress('c'))
	if got, _ := st.Answer(100); got != "C" {
		t.Errorf("answer = %q, want C", got)
	}

	// Changing the answer replaces it.
	s.Update(keyPress('B'))
	if got, _ := st.Answer(100); got != "B" {
		t.Errorf("answer = %q, want B", got)
	}
	if st.AnsweredCount() != 1 {
		t.Errorf("AnsweredCount = %d, want 1", st.AnsweredCount())
	}
}

func TestExamScreen_AnswerByNumberAndArrows(t *testing.T) {
	s, st := testScreen(3)

	s.Update(keyPress('4'))
	if got, _ := st.Answer(100); got != "D" {
		t.Errorf("answer = %q, want D", got)
	}

	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyEnter))
	if got, _ := st.Answer(100); got != "B" {
		t.Errorf("answer = %q, want B", got)
	}
}

func TestExamScreen_Navigation(t *testing.T) {
	s, st := testScreen(3)

	s.Update(keyPress('n'))
	if st.Index() != 1 {
		t.Fatalf("Index = %d, want 1", st.Index())
	}
	s.Update(specialKey(tea.KeyRight))
	if st.Index() != 2 {
		t.Fatalf("Index = %d, want 2", st.Index())
	}
	s.Update(keyPress('p'))
	s.Update(specialKey(tea.KeyLeft))
	if st.Index() != 0 {
		t.Fatalf("Index = %d, want 0", st.Index())
	}
	// Retreat at the first question stays put.
	s.Update(keyPress('p'))
	if st.Index() != 0 {
		t.Errorf("Index = %d, want 0", st.Index())
	}
}

func TestExamScreen_OptionsFollowQuestion(t *testing.T) {
	s, _ := testScreen(2)
	s.Update(keyPress('a'))
	s.Update(keyPress('n'))
	if s.options.Chosen != "" {
		t.Errorf("second question should start unanswered, got %q", s.options.Chosen)
	}
	s.Update(keyPress('p'))
	if s.options.Chosen != "A" {
		t.Errorf("first question should show its answer, got %q", s.options.Chosen)
	}
}

func TestExamScreen_JumpToUnanswered(t *testing.T) {
	s, st := testScreen(4)
	s.Update(keyPress('a'))
	s.Update(keyPress('n'))
	s.Update(keyPress('a'))

	s.Update(keyPress('u'))
	if st.Index() != 2 {
		t.Errorf("Index = %d, want 2", st.Index())
	}
}

func TestExamScreen_ExplanationToggle(t *testing.T) {
	s, _ := testScreen(2)
	if strings.Contains(s.View(100, 40), "Explanation:") {
		t.Fatal("explanation should be hidden at first")
	}
	s.Update(keyPress('e'))
	view := s.View(100, 40)
	if !strings.Contains(view, "Lakehouses store Delta tables.") {
		t.Error("expected explanation text")
	}
	if !strings.Contains(view, "Correct Answer: A") {
		t.Error("expected correct answer in explanation")
	}

	// Moving hides it again.
	s.Update(keyPress('n'))
	if s.showExplanation {
		t.Error("explanation should hide on navigation")
	}
}

func TestExamScreen_OptionLetterBeatsScreenKey(t *testing.T) {
	s, st := testScreen(1)
	st.Load(question.LengthShort, []question.Question{{
		ID:   1,
		Text: "Pick one",
		Options: question.Options{
			{Label: "A", Text: "a"}, {Label: "B", Text: "b"}, {Label: "C", Text: "c"},
			{Label: "D", Text: "d"}, {Label: "E", Text: "e"},
		},
	}})
	s.syncOptions()

	s.Update(keyPress('e'))
	if got, _ := st.Answer(1); got != "E" {
		t.Errorf("answer = %q, want E", got)
	}
	if s.showExplanation {
		t.Error("e should have answered, not toggled the explanation")
	}
}

func TestExamScreen_FinishFromLastNeedsAnswer(t *testing.T) {
	s, _ := testScreen(2)
	s.Update(keyPress('n'))

	s.Update(keyPress('n'))
	if s.confirm != confirmNone {
		t.Fatal("finish should not be offered while the last question is unanswered")
	}
	if s.notice != NoticeAnswerToFinish {
		t.Errorf("notice = %q", s.notice)
	}

	s.Update(keyPress('b'))
	s.Update(keyPress('n'))
	if s.confirm != confirmFinish {
		t.Fatal("expected finish confirmation")
	}
}

func TestExamScreen_FinishConfirmYes(t *testing.T) {
	s, st := testScreen(3)
	s.Update(keyPress('a'))

	s.Update(keyPress('f'))
	if s.confirm != confirmFinish {
		t.Fatal("expected finish confirmation")
	}
	if !strings.Contains(s.View(100, 30), "2 questions are unanswered") {
		t.Error("expected unanswered count in confirmation")
	}

	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected navigation to results")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	rs, ok := replace.Screen.(*results.ResultsScreen)
	if !ok {
		t.Fatalf("expected results screen, got %T", replace.Screen)
	}
	if !st.Complete() {
		t.Error("session should be complete")
	}
	if got := rs.Result().Overall; got.Correct != 1 || got.Total != 3 {
		t.Errorf("overall = %+v, want 1/3", got)
	}
}

func TestExamScreen_FinishConfirmButtons(t *testing.T) {
	s, st := testScreen(2)
	s.Update(keyPress('f'))

	// Keep Going is the default button.
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil || s.confirm != confirmNone {
		t.Fatal("Enter on Keep Going should close the dialog")
	}
	if st.Complete() {
		t.Fatal("session should not be complete")
	}

	s.Update(keyPress('f'))
	s.Update(specialKey(tea.KeyLeft))
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("Enter on Finish Test should navigate")
	}
	if !st.Complete() {
		t.Error("session should be complete")
	}
}

func TestExamScreen_AbandonResetsSession(t *testing.T) {
	s, st := testScreen(2)
	if !s.HandlesBack() {
		t.Fatal("exam screen should own Esc")
	}
	s.Update(keyPress('a'))

	s.Update(specialKey(tea.KeyEscape))
	if s.confirm != confirmAbandon {
		t.Fatal("expected abandon confirmation")
	}
	s.Update(keyPress('n'))
	if s.confirm != confirmNone || !st.Ready() {
		t.Fatal("declining should keep the attempt")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if st.Ready() {
		t.Error("session should be reset")
	}
}

func TestExamScreen_StatusAndNavigator(t *testing.T) {
	s, _ := testScreen(3)
	s.Update(keyPress('a'))
	if !strings.HasPrefix(s.Status(), "1/3 answered") {
		t.Errorf("Status = %q", s.Status())
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Answered: 1/3") {
		t.Error("expected answered count in navigator")
	}
	if !strings.Contains(view, "Question 1 of 3") {
		t.Error("expected position line")
	}
}
