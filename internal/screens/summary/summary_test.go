package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/app"
	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
)

func testRound() engine.Round {
	return engine.Round{
		Answered: 5,
		Correct:  4,
		Missed: []catalog.Card{
			{ID: "b2", Prompt: "Show notes.txt", Answers: []string{"cat notes.txt"}},
		},
		Transitions: []progress.Transition{
			{ModuleID: "base", From: progress.StateStarted, To: progress.StateCompleted, Trigger: "all-correct"},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New("Learn base", testRound())
	if s.Title() != "Learn base summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Learn base summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New("Practice", testRound())
	view := s.View(80, 24)

	for _, want := range []string{"Answered: 5", "Accuracy: 80%", "base: started → completed", "cat notes.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_EnterLeaves(t *testing.T) {
	s := New("Practice", testRound())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	if _, ok := cmd().(app.PopMsg); !ok {
		t.Error("expected PopMsg on enter")
	}
}

func TestSummaryScreen_OtherKeysIgnored(t *testing.T) {
	s := New("Practice", testRound())
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil {
		t.Error("expected no command for unrelated keys")
	}
}
