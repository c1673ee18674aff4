package practice

import (
	"math/rand/v2"
	"sort"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

// Builder assembles practice queues. Its random source only affects the
// presentation order of the active queue.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder creates a builder with a deterministic random source.
func NewBuilder(seed1, seed2 uint64) *Builder {
	return &Builder{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewRandomBuilder creates a builder seeded from the global source.
func NewRandomBuilder() *Builder {
	return NewBuilder(rand.Uint64(), rand.Uint64())
}

// EligibleModules returns the modules practice draws from: every completed
// or outdated module, or every started module when none is completed.
func EligibleModules(statuses []progress.ModuleStatus) []string {
	var completed, started []string
	for _, st := range statuses {
		switch {
		case st.State.IsCompleted():
			completed = append(completed, st.ModuleID)
		case st.State == progress.StateStarted:
			started = append(started, st.ModuleID)
		}
	}
	if len(completed) > 0 {
		return completed
	}
	return started
}

// Build classifies every eligible card and returns the shuffled active
// queue. Cards never answered correctly are left out even when due.
func (b *Builder) Build(in Input) Queue {
	var q Queue
	for _, moduleID := range EligibleModules(in.Statuses) {
		m, ok := in.Catalog.Module(moduleID)
		if !ok {
			continue
		}
		for _, card := range m.Cards() {
			if !in.Correct[card.ID] {
				continue
			}
			item := Item{Card: card}
			if s, ok := in.Schedules[card.ID]; ok {
				item.Schedule = &s
			}
			switch item.Schedule.Status(in.Now) {
			case spacedrep.ReviewNew:
				item.Category = CategoryNew
				q.Active = append(q.Active, item)
			case spacedrep.ReviewDue:
				item.Category = CategoryDue
				q.Active = append(q.Active, item)
			default:
				item.Category = CategoryScheduled
				q.Scheduled = append(q.Scheduled, item)
			}
		}
	}

	sort.SliceStable(q.Scheduled, func(i, j int) bool {
		return q.Scheduled[i].Schedule.DueAt.Before(q.Scheduled[j].Schedule.DueAt)
	})

	if len(q.Active) == 0 && in.Ahead && len(q.Scheduled) > 0 {
		n := len(q.Scheduled)
		if in.Limit > 0 {
			n = min(n, in.Limit)
		}
		q.Active, q.Scheduled = q.Scheduled[:n:n], q.Scheduled[n:]
		q.Ahead = true
		avoidRepeat(q.Active, in.PreviousFirst)
		return q
	}

	b.rng.Shuffle(len(q.Active), func(i, j int) {
		q.Active[i], q.Active[j] = q.Active[j], q.Active[i]
	})
	avoidRepeat(q.Active, in.PreviousFirst)

	if in.Limit > 0 && len(q.Active) > in.Limit {
		q.Active = q.Active[:in.Limit]
	}
	return q
}

// avoidRepeat swaps the head with the first card that differs from the one
// shown first last round. A single-card queue is left as is.
func avoidRepeat(items []Item, previousFirst string) {
	if previousFirst == "" || len(items) < 2 || items[0].Card.ID != previousFirst {
		return
	}
	for i := 1; i < len(items); i++ {
		if items[i].Card.ID != previousFirst {
			items[0], items[i] = items[i], items[0]
			return
		}
	}
}
