package engine

import (
	"context"
	"fmt"

	"github.com/cmdtrainer/cmdtrainer/internal/practice"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

// PracticeOptions tunes one practice round.
type PracticeOptions struct {
	// Limit overrides the engine's practice limit when positive.
	Limit int
	// Ahead practices scheduled cards when nothing is due.
	Ahead bool
}

// PracticeRound builds the next practice queue for a profile. The card it
// presents first is remembered so the following round starts elsewhere.
func (e *Engine) PracticeRound(ctx context.Context, profileID int, opts PracticeOptions) (practice.Queue, error) {
	snap, err := loadSnapshot(ctx, e.store, profileID)
	if err != nil {
		return practice.Queue{}, fmt.Errorf("load progress: %w", err)
	}
	schedules, err := e.store.ListSchedules(ctx, profileID)
	if err != nil {
		return practice.Queue{}, fmt.Errorf("load schedules: %w", err)
	}
	byCard := make(map[string]spacedrep.CardSchedule, len(schedules))
	for _, s := range schedules {
		byCard[s.CardID] = s
	}

	limit := e.limit
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	q := e.builder.Build(practice.Input{
		Catalog:       e.cat,
		Statuses:      progress.Evaluate(e.cat, snap),
		Correct:       snap.Correct,
		Schedules:     byCard,
		PreviousFirst: e.lastFirst[profileID],
		Limit:         limit,
		Ahead:         opts.Ahead,
		Now:           e.clock(),
	})
	if first := q.First(); first != "" {
		e.lastFirst[profileID] = first
	}
	return q, nil
}
