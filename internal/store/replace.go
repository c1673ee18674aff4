package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

// ReplaceProfileData swaps all learning state of a profile for the given
// rows. Run it inside WithTx so a failed import leaves nothing behind.
func (r *Repo) ReplaceProfileData(ctx context.Context, profileID int, modules []progress.ModuleProgress,
	schedules []spacedrep.CardSchedule, attempts []progress.Attempt) error {
	for _, table := range []string{tableAttempts, tableCardSchedules, tableModuleProgress} {
		query, args := builder().Delete(table).Where(entsql.EQ("profile_id", profileID)).Query()
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, m := range modules {
		if err := r.SaveModuleProgress(ctx, profileID, m); err != nil {
			return err
		}
	}
	for _, s := range schedules {
		if err := r.SaveSchedule(ctx, profileID, s); err != nil {
			return err
		}
	}
	for _, a := range attempts {
		if _, err := r.AppendAttempt(ctx, profileID, a); err != nil {
			return err
		}
	}
	return nil
}
