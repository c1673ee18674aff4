package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/matcher"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
)

func TestRound_Record(t *testing.T) {
	var r Round
	assert.Zero(t, r.Accuracy())

	b1 := catalog.Card{ID: "b1"}
	b2 := catalog.Card{ID: "b2"}
	done := &progress.Transition{ModuleID: "base", From: progress.StateStarted, To: progress.StateCompleted, Trigger: "all-correct"}

	r.Record(AnswerOutcome{Card: b1, Result: matcher.Result{Reason: "wrong command"}})
	r.Record(AnswerOutcome{Card: b1, Result: matcher.Result{Reason: "wrong command"}})
	r.Record(AnswerOutcome{Card: b1, Result: matcher.Result{Correct: true}})
	r.Record(AnswerOutcome{Card: b2, Result: matcher.Result{Correct: true}, Transition: done})

	assert.Equal(t, 4, r.Answered)
	assert.Equal(t, 2, r.Correct)
	assert.InDelta(t, 0.5, r.Accuracy(), 1e-9)
	assert.Equal(t, []catalog.Card{b1}, r.Missed)
	assert.Equal(t, []progress.Transition{*done}, r.Transitions)
}
