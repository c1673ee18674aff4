// Package engine ties the learning components to persistent profile state.
// Every write that must stay consistent runs inside one store transaction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/practice"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
)

var (
	// ErrUnknownModule is returned for module ids absent from the catalog.
	ErrUnknownModule = progress.ErrUnknownModule
	// ErrUnknownCard is returned for card ids absent from the catalog.
	ErrUnknownCard = errors.New("unknown card")
	// ErrUnknownProfile is returned when a named profile does not exist.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrModuleLocked is returned when answering cards of a locked module.
	ErrModuleLocked = errors.New("module is locked")
)

// Store is the persistence boundary the engine needs. *store.Store
// satisfies it.
type Store interface {
	store.Repository
	WithTx(ctx context.Context, fn func(store.Repository) error) error
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Builder orders practice rounds. Defaults to a randomly seeded builder.
	Builder *practice.Builder
	// AppVersion is written to exports and compared on import.
	AppVersion string
	// Warnings receives non-fatal problems. Defaults to os.Stderr.
	Warnings io.Writer
	// PracticeLimit caps practice rounds. Defaults to practice.DefaultLimit.
	PracticeLimit int
}

// Engine runs learning operations for any profile in the store.
type Engine struct {
	cat     *catalog.Catalog
	store   Store
	now     func() time.Time
	builder *practice.Builder
	version string
	warn    io.Writer
	limit   int

	mu sync.Mutex
	// lastFirst remembers, per profile, the card shown first in the most
	// recent practice round.
	lastFirst map[int]string
}

// New creates an Engine over a validated catalog and an open store.
func New(cat *catalog.Catalog, st Store, opts Options) *Engine {
	e := &Engine{
		cat:       cat,
		store:     st,
		now:       opts.Now,
		builder:   opts.Builder,
		version:   opts.AppVersion,
		warn:      opts.Warnings,
		limit:     opts.PracticeLimit,
		lastFirst: make(map[int]string),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.builder == nil {
		e.builder = practice.NewRandomBuilder()
	}
	if e.warn == nil {
		e.warn = os.Stderr
	}
	if e.limit <= 0 {
		e.limit = practice.DefaultLimit
	}
	return e
}

// Catalog returns the content the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

func (e *Engine) warnf(format string, args ...any) {
	fmt.Fprintf(e.warn, "warning: "+format+"\n", args...)
}

// loadSnapshot reads the parts of a profile's history the progress state
// machine needs.
func loadSnapshot(ctx context.Context, r store.Repository, profileID int) (progress.Snapshot, error) {
	rows, err := r.ListModuleProgress(ctx, profileID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	attempted, err := r.AttemptedCardIDs(ctx, profileID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	correct, err := r.CorrectCardIDs(ctx, profileID)
	if err != nil {
		return progress.Snapshot{}, err
	}

	snap := progress.Snapshot{
		Progress:  make(map[string]progress.ModuleProgress, len(rows)),
		Attempted: attempted,
		Correct:   correct,
	}
	for _, p := range rows {
		snap.Progress[p.ModuleID] = p
	}
	return snap, nil
}
