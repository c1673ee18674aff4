package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// SchemaVersion is recorded in exports so imports can tell which table
// layout produced them.
const SchemaVersion = 1

const (
	tableProfiles       = "profiles"
	tableModuleProgress = "module_progress"
	tableCardSchedules  = "card_schedules"
	tableAttempts       = "attempts"
)

var (
	// ProfilesColumns holds the columns for the "profiles" table.
	ProfilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// ProfilesTable holds the schema information for the "profiles" table.
	ProfilesTable = &schema.Table{
		Name:       tableProfiles,
		Columns:    ProfilesColumns,
		PrimaryKey: []*schema.Column{ProfilesColumns[0]},
	}

	// ModuleProgressColumns holds the columns for the "module_progress" table.
	ModuleProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "module_id", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_content_version", Type: field.TypeInt, Default: 0},
		{Name: "profile_id", Type: field.TypeInt},
	}
	// ModuleProgressTable holds the schema information for the "module_progress" table.
	ModuleProgressTable = &schema.Table{
		Name:       tableModuleProgress,
		Columns:    ModuleProgressColumns,
		PrimaryKey: []*schema.Column{ModuleProgressColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "module_progress_profiles_module_progress",
				Columns:    []*schema.Column{ModuleProgressColumns[5]},
				RefColumns: []*schema.Column{ProfilesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "moduleprogress_profile_id_module_id",
				Unique:  true,
				Columns: []*schema.Column{ModuleProgressColumns[5], ModuleProgressColumns[1]},
			},
		},
	}

	// CardSchedulesColumns holds the columns for the "card_schedules" table.
	CardSchedulesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "card_id", Type: field.TypeString},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "spacing_score", Type: field.TypeFloat64, Default: 0},
		{Name: "interval_minutes", Type: field.TypeInt},
		{Name: "due_at", Type: field.TypeTime},
		{Name: "last_seen_at", Type: field.TypeTime},
		{Name: "last_result", Type: field.TypeString},
		{Name: "seen_count", Type: field.TypeInt, Default: 0},
		{Name: "profile_id", Type: field.TypeInt},
	}
	// CardSchedulesTable holds the schema information for the "card_schedules" table.
	CardSchedulesTable = &schema.Table{
		Name:       tableCardSchedules,
		Columns:    CardSchedulesColumns,
		PrimaryKey: []*schema.Column{CardSchedulesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "card_schedules_profiles_card_schedules",
				Columns:    []*schema.Column{CardSchedulesColumns[9]},
				RefColumns: []*schema.Column{ProfilesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "cardschedule_profile_id_card_id",
				Unique:  true,
				Columns: []*schema.Column{CardSchedulesColumns[9], CardSchedulesColumns[1]},
			},
			{
				Name:    "cardschedule_profile_id_due_at",
				Columns: []*schema.Column{CardSchedulesColumns[9], CardSchedulesColumns[5]},
			},
		},
	}

	// AttemptsColumns holds the columns for the "attempts" table.
	AttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "uid", Type: field.TypeString},
		{Name: "card_id", Type: field.TypeString},
		{Name: "input", Type: field.TypeString, Size: 2147483647},
		{Name: "correct", Type: field.TypeBool},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "profile_id", Type: field.TypeInt},
	}
	// AttemptsTable holds the schema information for the "attempts" table.
	AttemptsTable = &schema.Table{
		Name:       tableAttempts,
		Columns:    AttemptsColumns,
		PrimaryKey: []*schema.Column{AttemptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "attempts_profiles_attempts",
				Columns:    []*schema.Column{AttemptsColumns[6]},
				RefColumns: []*schema.Column{ProfilesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "attempt_profile_id_uid",
				Unique:  true,
				Columns: []*schema.Column{AttemptsColumns[6], AttemptsColumns[1]},
			},
			{
				Name:    "attempt_profile_id_card_id",
				Columns: []*schema.Column{AttemptsColumns[6], AttemptsColumns[2]},
			},
			{
				Name:    "attempt_profile_id_created_at",
				Columns: []*schema.Column{AttemptsColumns[6], AttemptsColumns[5]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProfilesTable,
		ModuleProgressTable,
		CardSchedulesTable,
		AttemptsTable,
	}
)

func init() {
	ModuleProgressTable.ForeignKeys[0].RefTable = ProfilesTable
	CardSchedulesTable.ForeignKeys[0].RefTable = ProfilesTable
	AttemptsTable.ForeignKeys[0].RefTable = ProfilesTable
}

// migrate creates or updates every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
