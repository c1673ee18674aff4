// Package transfer converts profile state to and from the versioned export
// file format.
package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cmdtrainer/cmdtrainer/internal/docschema"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

// CurrentFormatVersion is the newest format this build reads and the one it
// writes. Versions 0 and 1 use the legacy layout with one array per row kind.
const CurrentFormatVersion = 2

// AppName identifies exports written by this program.
const AppName = "cmdtrainer"

// Row kinds in the current layout.
const (
	KindModuleProgress = "module_progress"
	KindCardSchedule   = "card_schedule"
	KindAttempt        = "attempt"
)

// Source describes the build that wrote an export.
type Source struct {
	App           string `json:"app"`
	AppVersion    string `json:"app_version"`
	SchemaVersion int    `json:"schema_version"`
	ExportID      string `json:"export_id,omitempty"`
}

// Export is the profile state handed to Encode.
type Export struct {
	ProfileName   string
	ExportedAt    time.Time
	AppVersion    string
	SchemaVersion int
	Modules       []progress.ModuleProgress
	Schedules     []spacedrep.CardSchedule
	Attempts      []progress.Attempt
}

type envelope struct {
	FormatVersion int    `json:"format_version"`
	ExportedAt    string `json:"exported_at"`
	Source        Source `json:"source"`
	ProfileName   string `json:"profile_name"`
	Rows          []any  `json:"rows"`
}

type moduleRow struct {
	Kind                    string  `json:"kind"`
	ModuleID                string  `json:"module_id"`
	StartedAt               string  `json:"started_at"`
	CompletedAt             *string `json:"completed_at"`
	CompletedContentVersion int     `json:"completed_content_version"`
}

type scheduleRow struct {
	Kind            string  `json:"kind"`
	CardID          string  `json:"card_id"`
	Streak          int     `json:"streak"`
	SpacingScore    float64 `json:"spacing_score"`
	IntervalMinutes int     `json:"interval_minutes"`
	DueAt           string  `json:"due_at"`
	LastSeenAt      string  `json:"last_seen_at"`
	LastResult      string  `json:"last_result"`
	SeenCount       int     `json:"seen_count"`
}

type attemptRow struct {
	Kind      string `json:"kind"`
	ID        string `json:"id,omitempty"`
	CardID    string `json:"card_id"`
	Input     string `json:"input"`
	Correct   bool   `json:"correct"`
	CreatedAt string `json:"created_at"`
}

// Encode writes an export in the current format. Every export gets a fresh
// random export id.
func Encode(e Export) ([]byte, error) {
	env := envelope{
		FormatVersion: CurrentFormatVersion,
		ExportedAt:    formatTime(e.ExportedAt),
		Source: Source{
			App:           AppName,
			AppVersion:    e.AppVersion,
			SchemaVersion: e.SchemaVersion,
			ExportID:      uuid.NewString(),
		},
		ProfileName: e.ProfileName,
		Rows:        make([]any, 0, len(e.Modules)+len(e.Schedules)+len(e.Attempts)),
	}

	for _, m := range e.Modules {
		row := moduleRow{
			Kind:                    KindModuleProgress,
			ModuleID:                m.ModuleID,
			StartedAt:               formatTime(m.StartedAt),
			CompletedContentVersion: m.CompletedContentVersion,
		}
		if m.CompletedAt != nil {
			s := formatTime(*m.CompletedAt)
			row.CompletedAt = &s
		}
		env.Rows = append(env.Rows, row)
	}
	for _, s := range e.Schedules {
		env.Rows = append(env.Rows, scheduleRow{
			Kind:            KindCardSchedule,
			CardID:          s.CardID,
			Streak:          s.Streak,
			SpacingScore:    s.SpacingScore,
			IntervalMinutes: s.IntervalMinutes,
			DueAt:           formatTime(s.DueAt),
			LastSeenAt:      formatTime(s.LastSeenAt),
			LastResult:      string(s.LastResult),
			SeenCount:       s.SeenCount,
		})
	}
	for _, a := range e.Attempts {
		env.Rows = append(env.Rows, attemptRow{
			Kind:      KindAttempt,
			ID:        a.ID,
			CardID:    a.CardID,
			Input:     a.Input,
			Correct:   a.Correct,
			CreatedAt: formatTime(a.CreatedAt),
		})
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// envelopeSchema checks the shape of the envelope only. Individual rows are
// normalized, and dropped when broken, by Decode.
var envelopeSchema = &docschema.Schema{
	Name: "profile-export",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"format_version":  map[string]any{"type": []any{"integer", "string"}},
			"exported_at":     map[string]any{"type": []any{"string", "null"}},
			"profile_name":    map[string]any{"type": []any{"string", "null"}},
			"profile":         map[string]any{"type": []any{"object", "null"}},
			"source":          map[string]any{"type": []any{"object", "null"}},
			"rows":            map[string]any{"type": []any{"array", "null"}},
			"module_progress": map[string]any{"type": []any{"array", "null"}},
			"card_progress":   map[string]any{"type": []any{"array", "null"}},
			"attempts":        map[string]any{"type": []any{"array", "null"}},
		},
	},
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
