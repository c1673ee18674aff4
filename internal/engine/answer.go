package engine

import (
	"context"
	"fmt"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/matcher"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
)

// AnswerOutcome is everything one graded answer changed.
type AnswerOutcome struct {
	Card       catalog.Card
	Result     matcher.Result
	Attempt    progress.Attempt
	Schedule   spacedrep.CardSchedule
	Transition *progress.Transition
}

// RecordAnswer grades input against a card and records the attempt, the
// card's next schedule and any module progress change in one transaction.
// Nothing is written when any step fails.
func (e *Engine) RecordAnswer(ctx context.Context, profileID int, cardID, input string) (AnswerOutcome, error) {
	card, ok := e.cat.Card(cardID)
	if !ok {
		return AnswerOutcome{}, fmt.Errorf("%w: %q", ErrUnknownCard, cardID)
	}
	m, ok := e.cat.Module(card.ModuleID)
	if !ok {
		return AnswerOutcome{}, fmt.Errorf("%w: %q", ErrUnknownModule, card.ModuleID)
	}

	out := AnswerOutcome{Card: card, Result: matcher.Match(input, card)}
	now := e.clock()

	err := e.store.WithTx(ctx, func(r store.Repository) error {
		snap, err := loadSnapshot(ctx, r, profileID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		st, err := progress.StatusOf(e.cat, snap, m.ID)
		if err != nil {
			return err
		}
		if st.State == progress.StateLocked {
			return fmt.Errorf("%w: %q", ErrModuleLocked, m.ID)
		}

		out.Attempt, err = r.AppendAttempt(ctx, profileID, progress.Attempt{
			CardID:    card.ID,
			Input:     input,
			Correct:   out.Result.Correct,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}

		prev, err := r.LoadSchedule(ctx, profileID, card.ID)
		if err != nil {
			return err
		}
		out.Schedule = spacedrep.Next(card.ID, prev, out.Result.Correct, now)
		if err := r.SaveSchedule(ctx, profileID, out.Schedule); err != nil {
			return err
		}

		correct := snap.Correct
		if out.Result.Correct {
			correct[card.ID] = true
		}
		next, transition := progress.Advance(m, st.Progress, correct, now)
		if st.Progress == nil || transition != nil {
			if err := r.SaveModuleProgress(ctx, profileID, next); err != nil {
				return err
			}
		}
		out.Transition = transition
		return nil
	})
	if err != nil {
		return AnswerOutcome{}, err
	}
	return out, nil
}
