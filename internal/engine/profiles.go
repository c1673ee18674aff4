package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmdtrainer/cmdtrainer/internal/store"
)

// Profiles lists every profile by name.
func (e *Engine) Profiles(ctx context.Context) ([]store.Profile, error) {
	return e.store.ListProfiles(ctx)
}

// CreateProfile adds a new profile. Names must be unique.
func (e *Engine) CreateProfile(ctx context.Context, name string) (store.Profile, error) {
	return e.store.CreateProfile(ctx, name, e.clock())
}

// Profile looks up a profile by name.
func (e *Engine) Profile(ctx context.Context, name string) (store.Profile, error) {
	p, err := e.store.ProfileByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return store.Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, err
}

// EnsureProfile returns the named profile, creating it first when missing.
func (e *Engine) EnsureProfile(ctx context.Context, name string) (store.Profile, bool, error) {
	p, err := e.Profile(ctx, name)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrUnknownProfile) {
		return store.Profile{}, false, err
	}
	p, err = e.CreateProfile(ctx, name)
	if err != nil {
		return store.Profile{}, false, err
	}
	return p, true, nil
}

// DeleteProfile removes a profile and everything recorded for it.
func (e *Engine) DeleteProfile(ctx context.Context, name string) error {
	p, err := e.Profile(ctx, name)
	if err != nil {
		return err
	}
	if _, err := e.store.DeleteProfile(ctx, p.ID); err != nil {
		return err
	}

	e.mu.Lock()
	delete(e.lastFirst, p.ID)
	e.mu.Unlock()
	return nil
}

// ResetProfile clears every attempt, schedule and module progress row of a
// profile while keeping the profile itself.
func (e *Engine) ResetProfile(ctx context.Context, name string) error {
	p, err := e.Profile(ctx, name)
	if err != nil {
		return err
	}
	err = e.store.WithTx(ctx, func(r store.Repository) error {
		return r.ReplaceProfileData(ctx, p.ID, nil, nil, nil)
	})
	if err != nil {
		return fmt.Errorf("reset profile %q: %w", name, err)
	}

	e.mu.Lock()
	delete(e.lastFirst, p.ID)
	e.mu.Unlock()
	return nil
}
