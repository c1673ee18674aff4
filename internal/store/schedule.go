package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

var scheduleColumns = []string{
	"card_id", "streak", "spacing_score", "interval_minutes",
	"due_at", "last_seen_at", "last_result", "seen_count",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (spacedrep.CardSchedule, error) {
	var s spacedrep.CardSchedule
	var result string
	err := row.Scan(&s.CardID, &s.Streak, &s.SpacingScore, &s.IntervalMinutes,
		scanTime(&s.DueAt), scanTime(&s.LastSeenAt), &result, &s.SeenCount)
	s.LastResult = spacedrep.Result(result)
	return s, err
}

// LoadSchedule returns a card's schedule, or nil if the card was never attempted.
func (r *Repo) LoadSchedule(ctx context.Context, profileID int, cardID string) (*spacedrep.CardSchedule, error) {
	b := builder()
	query, args := b.Select(scheduleColumns...).
		From(b.Table(tableCardSchedules)).
		Where(entsql.And(entsql.EQ("profile_id", profileID), entsql.EQ("card_id", cardID))).
		Query()

	s, err := scanSchedule(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load schedule %q: %w", cardID, err)
	}
	return &s, nil
}

// SaveSchedule inserts or replaces a card's schedule.
func (r *Repo) SaveSchedule(ctx context.Context, profileID int, s spacedrep.CardSchedule) error {
	query, args := builder().Insert(tableCardSchedules).
		Columns(append([]string{"profile_id"}, scheduleColumns...)...).
		Values(profileID, s.CardID, s.Streak, s.SpacingScore, s.IntervalMinutes,
			s.DueAt.UTC(), s.LastSeenAt.UTC(), string(s.LastResult), s.SeenCount).
		OnConflict(
			entsql.ConflictColumns("profile_id", "card_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save schedule %q: %w", s.CardID, err)
	}
	return nil
}

// ListSchedules returns every schedule of a profile ordered by due time.
func (r *Repo) ListSchedules(ctx context.Context, profileID int) ([]spacedrep.CardSchedule, error) {
	b := builder()
	query, args := b.Select(scheduleColumns...).
		From(b.Table(tableCardSchedules)).
		Where(entsql.EQ("profile_id", profileID)).
		OrderBy("due_at", "card_id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []spacedrep.CardSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
