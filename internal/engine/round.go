package engine

import (
	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
)

// Round tallies the answers given during one learn or practice pass.
type Round struct {
	Answered int
	Correct  int
	// Missed lists cards answered incorrectly at least once, in the order
	// they were first missed.
	Missed      []catalog.Card
	Transitions []progress.Transition

	missed map[string]bool
}

// Record adds one graded answer to the tally.
func (r *Round) Record(o AnswerOutcome) {
	r.Answered++
	if o.Result.Correct {
		r.Correct++
	} else {
		if r.missed == nil {
			r.missed = make(map[string]bool)
		}
		if !r.missed[o.Card.ID] {
			r.missed[o.Card.ID] = true
			r.Missed = append(r.Missed, o.Card)
		}
	}
	if o.Transition != nil {
		r.Transitions = append(r.Transitions, *o.Transition)
	}
}

// Accuracy returns the share of correct answers, or 0 before any answer.
func (r Round) Accuracy() float64 {
	if r.Answered == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Answered)
}
