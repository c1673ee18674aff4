package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
)

var moduleColumns = []string{"module_id", "started_at", "completed_at", "completed_content_version"}

func scanModuleProgress(row rowScanner) (progress.ModuleProgress, error) {
	var (
		p         progress.ModuleProgress
		completed time.Time
	)
	tv := scanTime(&completed)
	if err := row.Scan(&p.ModuleID, scanTime(&p.StartedAt), tv, &p.CompletedContentVersion); err != nil {
		return p, err
	}
	if tv.valid {
		p.CompletedAt = &completed
	}
	return p, nil
}

// LoadModuleProgress returns a module's progress row, or nil before the
// module was started.
func (r *Repo) LoadModuleProgress(ctx context.Context, profileID int, moduleID string) (*progress.ModuleProgress, error) {
	b := builder()
	query, args := b.Select(moduleColumns...).
		From(b.Table(tableModuleProgress)).
		Where(entsql.And(entsql.EQ("profile_id", profileID), entsql.EQ("module_id", moduleID))).
		Query()

	p, err := scanModuleProgress(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load module progress %q: %w", moduleID, err)
	}
	return &p, nil
}

// SaveModuleProgress inserts or replaces a module's progress row.
func (r *Repo) SaveModuleProgress(ctx context.Context, profileID int, p progress.ModuleProgress) error {
	var completed any
	if p.CompletedAt != nil {
		completed = p.CompletedAt.UTC()
	}
	query, args := builder().Insert(tableModuleProgress).
		Columns(append([]string{"profile_id"}, moduleColumns...)...).
		Values(profileID, p.ModuleID, p.StartedAt.UTC(), completed, p.CompletedContentVersion).
		OnConflict(
			entsql.ConflictColumns("profile_id", "module_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save module progress %q: %w", p.ModuleID, err)
	}
	return nil
}

// ListModuleProgress returns every progress row of a profile.
func (r *Repo) ListModuleProgress(ctx context.Context, profileID int) ([]progress.ModuleProgress, error) {
	b := builder()
	query, args := b.Select(moduleColumns...).
		From(b.Table(tableModuleProgress)).
		Where(entsql.EQ("profile_id", profileID)).
		OrderBy("module_id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list module progress: %w", err)
	}
	defer rows.Close()

	var out []progress.ModuleProgress
	for rows.Next() {
		p, err := scanModuleProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan module progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
