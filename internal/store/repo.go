package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

var (
	// ErrNotFound is returned when a looked up profile does not exist.
	ErrNotFound = errors.New("not found")
	// ErrProfileExists is returned when creating a profile with a taken name.
	ErrProfileExists = errors.New("profile already exists")
)

// Profile is a learner identity. Everything else is scoped to one profile.
type Profile struct {
	ID        int
	Name      string
	CreatedAt time.Time
}

// Repository is the persistence boundary the learning engine works against.
// The same methods run inside and outside a transaction.
type Repository interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
	CreateProfile(ctx context.Context, name string, now time.Time) (Profile, error)
	ProfileByName(ctx context.Context, name string) (Profile, error)
	DeleteProfile(ctx context.Context, id int) (bool, error)

	LoadSchedule(ctx context.Context, profileID int, cardID string) (*spacedrep.CardSchedule, error)
	SaveSchedule(ctx context.Context, profileID int, s spacedrep.CardSchedule) error
	ListSchedules(ctx context.Context, profileID int) ([]spacedrep.CardSchedule, error)

	AppendAttempt(ctx context.Context, profileID int, a progress.Attempt) (progress.Attempt, error)
	ListAttempts(ctx context.Context, profileID int) ([]progress.Attempt, error)
	AttemptedCardIDs(ctx context.Context, profileID int) (map[string]bool, error)
	CorrectCardIDs(ctx context.Context, profileID int) (map[string]bool, error)

	LoadModuleProgress(ctx context.Context, profileID int, moduleID string) (*progress.ModuleProgress, error)
	SaveModuleProgress(ctx context.Context, profileID int, p progress.ModuleProgress) error
	ListModuleProgress(ctx context.Context, profileID int) ([]progress.ModuleProgress, error)

	ReplaceProfileData(ctx context.Context, profileID int, modules []progress.ModuleProgress,
		schedules []spacedrep.CardSchedule, attempts []progress.Attempt) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo implements Repository over a connection or a transaction.
type Repo struct {
	q       querier
	entropy io.Reader
}

var _ Repository = (*Repo)(nil)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// timeValue scans SQLite timestamps whether the driver hands back a
// time.Time or the stored text.
type timeValue struct {
	t     *time.Time
	valid bool
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

func (v *timeValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		v.valid = false
		return nil
	case time.Time:
		*v.t, v.valid = s.UTC(), true
		return nil
	case string:
		return v.parse(s)
	case []byte:
		return v.parse(string(s))
	}
	return fmt.Errorf("unsupported time value %T", src)
}

func (v *timeValue) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*v.t, v.valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unparsable time %q", s)
}

func scanTime(t *time.Time) *timeValue {
	return &timeValue{t: t}
}
