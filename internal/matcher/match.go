package matcher

import (
	"errors"
	"fmt"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
)

// Result is the outcome of grading one answer. Reason is a short hint for
// the learner and is empty on a match.
type Result struct {
	Correct bool
	Reason  string
}

// Match grades input against every accepted answer of card. It never fails:
// unparsable input is simply incorrect, with the reason saying why.
func Match(input string, card catalog.Card) Result {
	got, err := Normalize(input)
	if err != nil {
		return Result{Reason: reasonFor(err)}
	}

	commandSeen := false
	for _, answer := range card.Answers {
		want, err := Normalize(answer)
		if err != nil {
			continue
		}
		if intersects(got, want) {
			return Result{Correct: true}
		}
		if want[0].Command == got[0].Command {
			commandSeen = true
		}
	}

	if !commandSeen {
		if card.Command != "" {
			return Result{Reason: fmt.Sprintf("expected the %q command", card.Command)}
		}
		return Result{Reason: "wrong command"}
	}
	return Result{Reason: "options or arguments differ from the expected answer"}
}

// Matches reports whether input is an accepted answer for card.
func Matches(input string, card catalog.Card) bool {
	return Match(input, card).Correct
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrEmpty):
		return "no answer given"
	case errors.Is(err, ErrTooManyTokens):
		return "answer is too long"
	default:
		return "answer could not be parsed (check quotes and escapes)"
	}
}
