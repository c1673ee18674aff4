package progress

import (
	"errors"
	"time"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
)

// ErrUnknownModule is returned for module ids absent from the catalog.
var ErrUnknownModule = errors.New("unknown module")

// ModuleProgress is the stored progress row of one module for one profile.
// A row exists once the module has been started.
type ModuleProgress struct {
	ModuleID                string
	StartedAt               time.Time
	CompletedAt             *time.Time
	CompletedContentVersion int
}

// IsCompleted reports whether the module was completed at some content version.
func (p *ModuleProgress) IsCompleted() bool {
	return p != nil && p.CompletedAt != nil
}

// Attempt is one immutable graded answer.
type Attempt struct {
	ID        string
	CardID    string
	Input     string
	Correct   bool
	CreatedAt time.Time
}

// Snapshot is the slice of a profile's history the state machine reads:
// progress rows by module id and the card ids ever attempted or answered
// correctly.
type Snapshot struct {
	Progress  map[string]ModuleProgress
	Attempted map[string]bool
	Correct   map[string]bool
}

func (s Snapshot) progressOf(moduleID string) *ModuleProgress {
	p, ok := s.Progress[moduleID]
	if !ok {
		return nil
	}
	return &p
}

// stateOf derives the state of a module that has a progress row.
func stateOf(m catalog.Module, p *ModuleProgress) State {
	switch {
	case p == nil:
		return StateUnlocked
	case p.CompletedAt == nil:
		return StateStarted
	case p.CompletedContentVersion < m.ContentVersion:
		return StateOutdated
	default:
		return StateCompleted
	}
}

// Advance applies one recorded attempt to a module's progress. prev is nil
// before the module's first attempt. correct must already include the
// attempt being applied. The returned transition is nil when the state did
// not change.
func Advance(m catalog.Module, prev *ModuleProgress, correct map[string]bool, now time.Time) (ModuleProgress, *Transition) {
	from := stateOf(m, prev)

	var next ModuleProgress
	if prev == nil {
		next = ModuleProgress{ModuleID: m.ID, StartedAt: now}
	} else {
		next = *prev
	}

	trigger := "first-attempt"
	if allCorrect(m, correct) && stateOf(m, &next) != StateCompleted {
		if from == StateOutdated {
			trigger = "catch-up"
		} else {
			trigger = "all-correct"
		}
		completedAt := now
		next.CompletedAt = &completedAt
		next.CompletedContentVersion = m.ContentVersion
	}

	to := stateOf(m, &next)
	if to == from {
		return next, nil
	}
	return next, &Transition{ModuleID: m.ID, From: from, To: to, Trigger: trigger}
}

// ForceUnlockPlan returns the module and its whole prerequisite closure,
// prerequisites first.
func ForceUnlockPlan(cat *catalog.Catalog, moduleID string) ([]string, error) {
	plan := cat.Closure(moduleID)
	if plan == nil {
		return nil, ErrUnknownModule
	}
	return plan, nil
}

// ForceUnlock marks every module in the plan for moduleID completed at its
// current content version. It returns the rows to store and the
// transitions they cause; modules already completed at the current version
// are left alone.
func ForceUnlock(cat *catalog.Catalog, snap Snapshot, moduleID string, now time.Time) ([]ModuleProgress, []Transition, error) {
	plan, err := ForceUnlockPlan(cat, moduleID)
	if err != nil {
		return nil, nil, err
	}

	statuses := Evaluate(cat, snap)
	byID := make(map[string]State, len(statuses))
	for _, st := range statuses {
		byID[st.ModuleID] = st.State
	}

	var rows []ModuleProgress
	var transitions []Transition
	for _, id := range plan {
		m, _ := cat.Module(id)
		from := byID[id]
		if from == StateCompleted {
			continue
		}

		row := ModuleProgress{ModuleID: id, StartedAt: now}
		if p := snap.progressOf(id); p != nil {
			row = *p
		}
		completedAt := now
		row.CompletedAt = &completedAt
		row.CompletedContentVersion = m.ContentVersion

		rows = append(rows, row)
		transitions = append(transitions, Transition{ModuleID: id, From: from, To: StateCompleted, Trigger: "force-unlock"})
	}
	return rows, transitions, nil
}

// CatchUpCards returns the cards of a module that have no correct answer on
// record, in lesson order. For an outdated module these are the cards added
// since it was completed.
func CatchUpCards(m catalog.Module, snap Snapshot) []catalog.Card {
	var out []catalog.Card
	for _, c := range m.Cards() {
		if !snap.Correct[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func allCorrect(m catalog.Module, correct map[string]bool) bool {
	for _, id := range m.CardIDs() {
		if !correct[id] {
			return false
		}
	}
	return true
}
