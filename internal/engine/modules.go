package engine

import (
	"context"
	"fmt"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
)

// ModuleStatuses derives the status of every module for a profile, in
// display order.
func (e *Engine) ModuleStatuses(ctx context.Context, profileID int) ([]progress.ModuleStatus, error) {
	snap, err := loadSnapshot(ctx, e.store, profileID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return progress.Evaluate(e.cat, snap), nil
}

// ModuleStatus derives the status of one module for a profile.
func (e *Engine) ModuleStatus(ctx context.Context, profileID int, moduleID string) (progress.ModuleStatus, error) {
	if _, ok := e.cat.Module(moduleID); !ok {
		return progress.ModuleStatus{}, fmt.Errorf("%w: %q", ErrUnknownModule, moduleID)
	}
	snap, err := loadSnapshot(ctx, e.store, profileID)
	if err != nil {
		return progress.ModuleStatus{}, fmt.Errorf("load progress: %w", err)
	}
	return progress.StatusOf(e.cat, snap, moduleID)
}

// LearnPlan is the set of cards a learning pass over one module presents.
type LearnPlan struct {
	Status progress.ModuleStatus
	Cards  []catalog.Card
	// CatchUp is set when Cards only holds the cards an outdated module
	// gained since it was completed.
	CatchUp bool
}

// Learn returns the cards to present for a module. Locked modules fail
// with ErrModuleLocked. An outdated module presents only its catch-up
// cards when it has any.
func (e *Engine) Learn(ctx context.Context, profileID int, moduleID string) (LearnPlan, error) {
	m, ok := e.cat.Module(moduleID)
	if !ok {
		return LearnPlan{}, fmt.Errorf("%w: %q", ErrUnknownModule, moduleID)
	}
	snap, err := loadSnapshot(ctx, e.store, profileID)
	if err != nil {
		return LearnPlan{}, fmt.Errorf("load progress: %w", err)
	}
	st, err := progress.StatusOf(e.cat, snap, moduleID)
	if err != nil {
		return LearnPlan{}, err
	}

	plan := LearnPlan{Status: st}
	switch st.State {
	case progress.StateLocked:
		return plan, fmt.Errorf("%w: %q needs %v", ErrModuleLocked, moduleID, st.MissingPrerequisites)
	case progress.StateOutdated:
		if cards := progress.CatchUpCards(m, snap); len(cards) > 0 {
			plan.Cards, plan.CatchUp = cards, true
			return plan, nil
		}
	}
	plan.Cards = m.Cards()
	return plan, nil
}

// ForceUnlock completes a module and its whole prerequisite closure,
// bypassing normal gating. It returns the transitions applied.
func (e *Engine) ForceUnlock(ctx context.Context, profileID int, moduleID string) ([]progress.Transition, error) {
	if _, ok := e.cat.Module(moduleID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, moduleID)
	}

	var transitions []progress.Transition
	err := e.store.WithTx(ctx, func(r store.Repository) error {
		snap, err := loadSnapshot(ctx, r, profileID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		rows, ts, err := progress.ForceUnlock(e.cat, snap, moduleID, e.clock())
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := r.SaveModuleProgress(ctx, profileID, row); err != nil {
				return err
			}
		}
		transitions = ts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transitions, nil
}
