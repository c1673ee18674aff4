package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ListProfiles returns every profile ordered by name.
func (r *Repo) ListProfiles(ctx context.Context) ([]Profile, error) {
	b := builder()
	query, args := b.Select("id", "name", "created_at").
		From(b.Table(tableProfiles)).
		OrderBy("name").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, scanTime(&p.CreatedAt)); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateProfile inserts a profile. Names are trimmed and must be unique.
func (r *Repo) CreateProfile(ctx context.Context, name string, now time.Time) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, fmt.Errorf("create profile: empty name")
	}
	if _, err := r.ProfileByName(ctx, name); err == nil {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileExists, name)
	} else if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	now = now.UTC()
	query, args := builder().Insert(tableProfiles).
		Columns("name", "created_at").
		Values(name, now).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return Profile{ID: int(id), Name: name, CreatedAt: now}, nil
}

// ProfileByName looks up a profile. Returns ErrNotFound if none matches.
func (r *Repo) ProfileByName(ctx context.Context, name string) (Profile, error) {
	b := builder()
	query, args := b.Select("id", "name", "created_at").
		From(b.Table(tableProfiles)).
		Where(entsql.EQ("name", strings.TrimSpace(name))).
		Query()

	var p Profile
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, scanTime(&p.CreatedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// DeleteProfile removes a profile and, by cascade, all of its state.
func (r *Repo) DeleteProfile(ctx context.Context, id int) (bool, error) {
	query, args := builder().Delete(tableProfiles).Where(entsql.EQ("id", id)).Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}
	return n > 0, nil
}
