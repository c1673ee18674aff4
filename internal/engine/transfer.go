package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
	"github.com/cmdtrainer/cmdtrainer/internal/transfer"
)

// ErrNoProfileName is returned when an import names no profile and none
// was given.
var ErrNoProfileName = errors.New("could not determine profile name from import file")

// TransferSummary counts what an export or import moved.
type TransferSummary struct {
	ProfileID    int
	ProfileName  string
	ModuleRows   int
	ScheduleRows int
	AttemptRows  int
	// Skipped counts import rows dropped during normalization.
	Skipped  int
	Warnings []string
}

// Export serializes everything recorded for a profile.
func (e *Engine) Export(ctx context.Context, profileName string) ([]byte, TransferSummary, error) {
	p, err := e.Profile(ctx, profileName)
	if err != nil {
		return nil, TransferSummary{}, err
	}

	modules, err := e.store.ListModuleProgress(ctx, p.ID)
	if err != nil {
		return nil, TransferSummary{}, err
	}
	schedules, err := e.store.ListSchedules(ctx, p.ID)
	if err != nil {
		return nil, TransferSummary{}, err
	}
	attempts, err := e.store.ListAttempts(ctx, p.ID)
	if err != nil {
		return nil, TransferSummary{}, err
	}

	data, err := transfer.Encode(transfer.Export{
		ProfileName:   p.Name,
		ExportedAt:    e.clock(),
		AppVersion:    e.version,
		SchemaVersion: store.SchemaVersion,
		Modules:       modules,
		Schedules:     schedules,
		Attempts:      attempts,
	})
	if err != nil {
		return nil, TransferSummary{}, fmt.Errorf("encode export: %w", err)
	}
	return data, TransferSummary{
		ProfileID:    p.ID,
		ProfileName:  p.Name,
		ModuleRows:   len(modules),
		ScheduleRows: len(schedules),
		AttemptRows:  len(attempts),
	}, nil
}

// Import decodes an export into a new profile. name overrides the profile
// name stored in the export. The envelope is fully checked before anything
// is written, and the profile with all of its rows is created in one
// transaction.
func (e *Engine) Import(ctx context.Context, data []byte, name string) (TransferSummary, error) {
	payload, err := transfer.Decode(data, transfer.DecodeOptions{Now: e.clock(), AppVersion: e.version})
	if err != nil {
		return TransferSummary{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = payload.ProfileName
	}
	if name == "" {
		return TransferSummary{}, ErrNoProfileName
	}

	attempts, dupes := uniqueAttempts(payload.Attempts)
	sum := TransferSummary{
		ProfileName:  name,
		ModuleRows:   len(payload.Modules),
		ScheduleRows: len(payload.Schedules),
		AttemptRows:  len(attempts),
		Skipped:      payload.Skipped + dupes,
		Warnings:     append([]string(nil), payload.Warnings...),
	}
	if unknown := e.unknownReferences(payload); unknown > 0 {
		sum.Warnings = append(sum.Warnings,
			fmt.Sprintf("%d imported rows reference modules or cards not in the current content", unknown))
	}

	err = e.store.WithTx(ctx, func(r store.Repository) error {
		p, err := r.CreateProfile(ctx, name, e.clock())
		if err != nil {
			return err
		}
		sum.ProfileID, sum.ProfileName = p.ID, p.Name
		return r.ReplaceProfileData(ctx, p.ID, payload.Modules, payload.Schedules, attempts)
	})
	if err != nil {
		return TransferSummary{}, err
	}

	for _, w := range sum.Warnings {
		e.warnf("%s", w)
	}
	return sum, nil
}

// uniqueAttempts drops attempts whose id repeats an earlier one.
func uniqueAttempts(in []progress.Attempt) ([]progress.Attempt, int) {
	seen := make(map[string]bool, len(in))
	out := make([]progress.Attempt, 0, len(in))
	dupes := 0
	for _, a := range in {
		if a.ID != "" {
			if seen[a.ID] {
				dupes++
				continue
			}
			seen[a.ID] = true
		}
		out = append(out, a)
	}
	return out, dupes
}

func (e *Engine) unknownReferences(p *transfer.Payload) int {
	n := 0
	for _, m := range p.Modules {
		if _, ok := e.cat.Module(m.ModuleID); !ok {
			n++
		}
	}
	for _, s := range p.Schedules {
		if _, ok := e.cat.Card(s.CardID); !ok {
			n++
		}
	}
	for _, a := range p.Attempts {
		if _, ok := e.cat.Card(a.CardID); !ok {
			n++
		}
	}
	return n
}
