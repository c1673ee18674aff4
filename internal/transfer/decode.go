package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/cmdtrainer/cmdtrainer/internal/docschema"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

// DecodeOptions supplies the context rows are normalized in.
type DecodeOptions struct {
	// Now fills in missing timestamps.
	Now time.Time
	// AppVersion is this build's version, compared against the source.
	AppVersion string
}

// Payload is a decoded export with every row normalized.
type Payload struct {
	FormatVersion int
	ProfileName   string
	ExportedAt    time.Time
	Source        Source
	Modules       []progress.ModuleProgress
	Schedules     []spacedrep.CardSchedule
	Attempts      []progress.Attempt
	// Skipped counts rows dropped because they could not be normalized.
	Skipped  int
	Warnings []string
}

// Decode reads an export of any supported format version. It fails only
// when the data is not an export envelope or the format is too new; broken
// rows are dropped and counted in Payload.Skipped.
func Decode(data []byte, opts DecodeOptions) (*Payload, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	opts.Now = opts.Now.UTC()

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the export object", ErrMalformedEnvelope)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root must be a JSON object", ErrMalformedEnvelope)
	}

	version := 0
	if raw, present := root["format_version"]; present {
		v, err := formatVersionOf(raw)
		if err != nil {
			return nil, err
		}
		version = v
	}

	if err := docschema.ValidateValue(envelopeSchema, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	p := &Payload{FormatVersion: version}
	p.ExportedAt, _ = timeValue(root["exported_at"])
	p.Source = decodeSource(root["source"])
	p.ProfileName = profileName(root)

	n := normalizer{now: opts.Now, payload: p}
	if version >= 2 {
		for _, raw := range arrayOf(root["rows"]) {
			row, ok := raw.(map[string]any)
			if !ok {
				p.Skipped++
				continue
			}
			switch stringValue(row["kind"]) {
			case KindModuleProgress:
				n.module(row)
			case KindCardSchedule:
				n.schedule(row)
			case KindAttempt:
				n.attempt(row)
			default:
				p.Skipped++
			}
		}
	} else {
		n.each(root["module_progress"], n.module)
		n.each(root["card_progress"], n.schedule)
		n.each(root["attempts"], n.attempt)
	}

	if w := versionWarning(p.Source.AppVersion, opts.AppVersion); w != "" {
		p.Warnings = append(p.Warnings, w)
	}
	return p, nil
}

// formatVersionOf reads format_version. Numbers too large for an int still
// count as newer than supported rather than malformed.
func formatVersionOf(raw any) (int, error) {
	malformed := fmt.Errorf("%w: invalid format_version %v", ErrMalformedEnvelope, raw)

	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		n, ok := intValue(raw)
		if !ok || n < 0 {
			return 0, malformed
		}
		if n > CurrentFormatVersion {
			return 0, &UnsupportedFormatVersionError{Version: n, Supported: CurrentFormatVersion, Raw: textValue(raw)}
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, malformed
	}
	if math.IsNaN(f) || (math.IsInf(f, 0) && err == nil) {
		return 0, malformed
	}
	if f > CurrentFormatVersion {
		n := math.MaxInt
		if f < float64(math.MaxInt) {
			n = int(f)
		}
		return 0, &UnsupportedFormatVersionError{Version: n, Supported: CurrentFormatVersion, Raw: text}
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, malformed
	}
	return int(f), nil
}

func decodeSource(raw any) Source {
	m, _ := raw.(map[string]any)
	s := Source{
		App:        stringValue(m["app"]),
		AppVersion: stringValue(m["app_version"]),
		ExportID:   stringValue(m["export_id"]),
	}
	s.SchemaVersion, _ = intValue(m["schema_version"])
	return s
}

func profileName(root map[string]any) string {
	if name := strings.TrimSpace(stringValue(root["profile_name"])); name != "" {
		return name
	}
	if prof, ok := root["profile"].(map[string]any); ok {
		return strings.TrimSpace(stringValue(prof["name"]))
	}
	return ""
}

// versionWarning reports an export written by a newer build. Versions that
// are not semver, such as development builds, are not compared.
func versionWarning(source, current string) string {
	src, cur := canonicalVersion(source), canonicalVersion(current)
	if !semver.IsValid(src) || !semver.IsValid(cur) {
		return ""
	}
	if semver.Compare(src, cur) > 0 {
		return fmt.Sprintf("export was written by version %s, newer than this build (%s)", src, cur)
	}
	return ""
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

type normalizer struct {
	now     time.Time
	payload *Payload
}

func (n normalizer) each(raw any, fn func(map[string]any)) {
	for _, item := range arrayOf(raw) {
		row, ok := item.(map[string]any)
		if !ok {
			n.payload.Skipped++
			continue
		}
		fn(row)
	}
}

func (n normalizer) module(row map[string]any) {
	id := strings.TrimSpace(stringValue(row["module_id"]))
	started, okStarted := n.timeOr(row["started_at"], n.now)
	completed, okCompleted := optionalTime(row["completed_at"])
	if id == "" || !okStarted || !okCompleted {
		n.payload.Skipped++
		return
	}

	p := progress.ModuleProgress{ModuleID: id, StartedAt: started, CompletedAt: completed}
	if completed != nil {
		v, _ := intValue(row["completed_content_version"])
		p.CompletedContentVersion = max(v, 1)
	}
	n.payload.Modules = append(n.payload.Modules, p)
}

func (n normalizer) schedule(row map[string]any) {
	id := strings.TrimSpace(stringValue(row["card_id"]))
	due, okDue := n.timeOr(row["due_at"], n.now)
	if id == "" || !okDue {
		n.payload.Skipped++
		return
	}
	lastSeen, okSeen := n.timeOr(row["last_seen_at"], due)
	if !okSeen {
		n.payload.Skipped++
		return
	}

	s := spacedrep.CardSchedule{CardID: id, DueAt: due, LastSeenAt: lastSeen}
	s.Streak, _ = intValue(row["streak"])
	s.Streak = max(s.Streak, 0)
	s.SeenCount, _ = intValue(row["seen_count"])
	s.SeenCount = max(s.SeenCount, 0)
	s.SpacingScore, _ = floatValue(row["spacing_score"])
	s.SpacingScore = max(s.SpacingScore, 0)

	interval, ok := intValue(row["interval_minutes"])
	if !ok || interval <= 0 {
		interval = spacedrep.IntervalFromScore(s.SpacingScore)
	}
	s.IntervalMinutes = min(max(interval, spacedrep.MinIntervalMinutes), spacedrep.MaxIntervalMinutes)

	if correct, ok := boolValue(row["last_result"]); ok {
		s.LastResult = spacedrep.ResultOf(correct)
	} else {
		s.LastResult = spacedrep.ResultOf(s.Streak > 0)
	}
	n.payload.Schedules = append(n.payload.Schedules, s)
}

func (n normalizer) attempt(row map[string]any) {
	cardID := strings.TrimSpace(stringValue(row["card_id"]))
	created, ok := n.timeOr(row["created_at"], n.now)
	if cardID == "" || !ok {
		n.payload.Skipped++
		return
	}

	a := progress.Attempt{
		ID:        strings.TrimSpace(stringValue(row["id"])),
		CardID:    cardID,
		CreatedAt: created,
	}
	if in, present := row["input"]; present {
		a.Input = textValue(in)
	} else {
		a.Input = textValue(row["user_input"])
	}
	if v, present := row["correct"]; present {
		a.Correct, _ = boolValue(v)
	} else {
		a.Correct, _ = boolValue(row["is_correct"])
	}
	n.payload.Attempts = append(n.payload.Attempts, a)
}

// timeOr parses a timestamp field, using def when the field is absent or
// empty. It reports false for a present but unparsable value.
func (n normalizer) timeOr(raw any, def time.Time) (time.Time, bool) {
	if raw == nil {
		return def, true
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return def, true
	}
	return timeValue(raw)
}

func optionalTime(raw any) (*time.Time, bool) {
	if raw == nil || raw == "" {
		return nil, true
	}
	t, ok := timeValue(raw)
	if !ok {
		return nil, false
	}
	return &t, true
}
