package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/oklog/ulid/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
)

// AppendAttempt stores one graded answer. A ULID is assigned when the
// attempt has no id yet.
func (r *Repo) AppendAttempt(ctx context.Context, profileID int, a progress.Attempt) (progress.Attempt, error) {
	a.CreatedAt = a.CreatedAt.UTC()
	if a.ID == "" {
		id, err := ulid.New(ulid.Timestamp(a.CreatedAt), r.entropy)
		if err != nil {
			return progress.Attempt{}, fmt.Errorf("attempt id: %w", err)
		}
		a.ID = id.String()
	}

	query, args := builder().Insert(tableAttempts).
		Columns("uid", "card_id", "input", "correct", "created_at", "profile_id").
		Values(a.ID, a.CardID, a.Input, a.Correct, a.CreatedAt, profileID).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return progress.Attempt{}, fmt.Errorf("append attempt: %w", err)
	}
	return a, nil
}

// ListAttempts returns a profile's attempts oldest first.
func (r *Repo) ListAttempts(ctx context.Context, profileID int) ([]progress.Attempt, error) {
	b := builder()
	query, args := b.Select("uid", "card_id", "input", "correct", "created_at").
		From(b.Table(tableAttempts)).
		Where(entsql.EQ("profile_id", profileID)).
		OrderBy("created_at", "id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []progress.Attempt
	for rows.Next() {
		var a progress.Attempt
		if err := rows.Scan(&a.ID, &a.CardID, &a.Input, &a.Correct, scanTime(&a.CreatedAt)); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AttemptedCardIDs returns the set of cards the profile ever answered.
func (r *Repo) AttemptedCardIDs(ctx context.Context, profileID int) (map[string]bool, error) {
	return r.cardIDs(ctx, entsql.EQ("profile_id", profileID))
}

// CorrectCardIDs returns the set of cards the profile ever answered correctly.
func (r *Repo) CorrectCardIDs(ctx context.Context, profileID int) (map[string]bool, error) {
	return r.cardIDs(ctx, entsql.And(entsql.EQ("profile_id", profileID), entsql.EQ("correct", true)))
}

func (r *Repo) cardIDs(ctx context.Context, where *entsql.Predicate) (map[string]bool, error) {
	b := builder()
	query, args := b.Select("card_id").
		Distinct().
		From(b.Table(tableAttempts)).
		Where(where).
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query card ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan card id: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}
