package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/practice"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
	"github.com/cmdtrainer/cmdtrainer/internal/transfer"
)

type fakeClock struct{ t time.Time }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func rawCard(id, answer string) catalog.RawCard {
	return catalog.RawCard{ID: id, Prompt: "prompt " + id, Answers: []string{answer}}
}

func lesson(id string, cards ...catalog.RawCard) []catalog.RawLesson {
	return []catalog.RawLesson{{ID: id, Title: id, Order: 1, Cards: cards}}
}

func rawContent(baseVersion int, extraBase ...catalog.RawCard) []catalog.RawModule {
	baseCards := append([]catalog.RawCard{
		rawCard("b1", "ls -la"),
		rawCard("b2", "cat notes.txt"),
	}, extraBase...)
	return []catalog.RawModule{
		{ID: "base", Title: "Base", Order: 1, ContentVersion: baseVersion, Lessons: lesson("bl", baseCards...)},
		{ID: "files", Title: "Files", Order: 2, Prerequisites: []string{"base"}, Lessons: lesson("fl", rawCard("f1", "cp -r src dst"))},
		{ID: "net", Title: "Net", Order: 3, Prerequisites: []string{"files"}, Lessons: lesson("nl", rawCard("n1", "ping -c 3 example.com"))},
	}
}

func testCatalog(t *testing.T, raw []catalog.RawModule) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Validate(raw, catalog.OverlapPolicy{})
	require.NoError(t, err)
	return cat
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

type fixture struct {
	eng     *Engine
	store   *store.Store
	clock   *fakeClock
	warn    *bytes.Buffer
	profile store.Profile
}

func newFixture(t *testing.T, cat *catalog.Catalog) *fixture {
	t.Helper()
	f := &fixture{store: openStore(t), clock: newClock(), warn: &bytes.Buffer{}}
	f.eng = New(cat, f.store, Options{
		Now:        f.clock.Now,
		Builder:    practice.NewBuilder(1, 2),
		AppVersion: "1.2.0",
		Warnings:   f.warn,
	})
	p, err := f.eng.CreateProfile(context.Background(), "alice")
	require.NoError(t, err)
	f.profile = p
	return f
}

func (f *fixture) answer(t *testing.T, cardID, input string) AnswerOutcome {
	t.Helper()
	out, err := f.eng.RecordAnswer(context.Background(), f.profile.ID, cardID, input)
	require.NoError(t, err)
	return out
}

func statesOf(t *testing.T, e *Engine, profileID int) map[string]progress.State {
	t.Helper()
	sts, err := e.ModuleStatuses(context.Background(), profileID)
	require.NoError(t, err)
	out := make(map[string]progress.State, len(sts))
	for _, st := range sts {
		out[st.ModuleID] = st.State
	}
	return out
}

func TestRecordAnswer_Lifecycle(t *testing.T) {
	f := newFixture(t, testCatalog(t, rawContent(1)))

	assert.Equal(t, map[string]progress.State{
		"base": progress.StateUnlocked, "files": progress.StateLocked, "net": progress.StateLocked,
	}, statesOf(t, f.eng, f.profile.ID))

	out := f.answer(t, "b1", "ls -l")
	assert.False(t, out.Result.Correct)
	assert.Equal(t, 0, out.Schedule.Streak)
	assert.Equal(t, spacedrep.IncorrectIntervalMinutes, out.Schedule.IntervalMinutes)
	require.NotNil(t, out.Transition)
	assert.Equal(t, progress.StateUnlocked, out.Transition.From)
	assert.Equal(t, progress.StateStarted, out.Transition.To)
	assert.NotEmpty(t, out.Attempt.ID)

	out = f.answer(t, "b1", "ls -al")
	assert.True(t, out.Result.Correct)
	assert.Equal(t, 1, out.Schedule.Streak)
	assert.Equal(t, 2, out.Schedule.SeenCount)
	assert.Nil(t, out.Transition)

	out = f.answer(t, "b2", "cat   notes.txt")
	require.NotNil(t, out.Transition)
	assert.Equal(t, progress.StateCompleted, out.Transition.To)
	assert.Equal(t, "all-correct", out.Transition.Trigger)

	states := statesOf(t, f.eng, f.profile.ID)
	assert.Equal(t, progress.StateCompleted, states["base"])
	assert.Equal(t, progress.StateUnlocked, states["files"])
	assert.Equal(t, progress.StateLocked, states["net"])

	st, err := f.eng.ModuleStatus(context.Background(), f.profile.ID, "base")
	require.NoError(t, err)
	assert.Equal(t, 2, st.CorrectCards)
	require.NotNil(t, st.Progress)
	assert.Equal(t, 1, st.Progress.CompletedContentVersion)

	attempts, err := f.store.ListAttempts(context.Background(), f.profile.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 3)
}

func TestRecordAnswer_Errors(t *testing.T) {
	f := newFixture(t, testCatalog(t, rawContent(1)))
	ctx := context.Background()

	_, err := f.eng.RecordAnswer(ctx, f.profile.ID, "nope", "ls")
	assert.ErrorIs(t, err, ErrUnknownCard)

	_, err = f.eng.RecordAnswer(ctx, f.profile.ID, "n1", "ping -c 3 example.com")
	assert.ErrorIs(t, err, ErrModuleLocked)

	attempts, err := f.store.ListAttempts(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts, "a rejected answer writes nothing")

	_, err = f.eng.ModuleStatus(ctx, f.profile.ID, "nope")
	assert.ErrorIs(t, err, ErrUnknownModule)
}

// failingStore hands transactions a repository whose SaveSchedule fails.
type failingStore struct {
	*store.Store
}

type failingRepo struct {
	store.Repository
}

func (failingRepo) SaveSchedule(context.Context, int, spacedrep.CardSchedule) error {
	return errors.New("disk full")
}

func (s failingStore) WithTx(ctx context.Context, fn func(store.Repository) error) error {
	return s.Store.WithTx(ctx, func(r store.Repository) error {
		return fn(failingRepo{r})
	})
}

func TestRecordAnswer_RollsBackOnStoreFailure(t *testing.T) {
	cat := testCatalog(t, rawContent(1))
	st := openStore(t)
	eng := New(cat, failingStore{st}, Options{Now: newClock().Now, Warnings: &bytes.Buffer{}})
	ctx := context.Background()
	p, err := eng.CreateProfile(ctx, "alice")
	require.NoError(t, err)

	_, err = eng.RecordAnswer(ctx, p.ID, "b1", "ls -la")
	require.ErrorContains(t, err, "disk full")

	attempts, err := st.ListAttempts(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
	mods, err := st.ListModuleProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, mods)
}

func TestForceUnlock(t *testing.T) {
	f := newFixture(t, testCatalog(t, rawContent(1)))
	ctx := context.Background()

	transitions, err := f.eng.ForceUnlock(ctx, f.profile.ID, "net")
	require.NoError(t, err)
	var ids []string
	for _, tr := range transitions {
		ids = append(ids, tr.ModuleID)
		assert.Equal(t, "force-unlock", tr.Trigger)
	}
	assert.Equal(t, []string{"base", "files", "net"}, ids)

	for id, state := range statesOf(t, f.eng, f.profile.ID) {
		assert.Equal(t, progress.StateCompleted, state, id)
	}

	transitions, err = f.eng.ForceUnlock(ctx, f.profile.ID, "net")
	require.NoError(t, err)
	assert.Empty(t, transitions, "already completed modules are left alone")

	_, err = f.eng.ForceUnlock(ctx, f.profile.ID, "ghost")
	assert.ErrorIs(t, err, ErrUnknownModule)
}

func TestLearn_LockedAndCatchUp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog(t, rawContent(1)))

	_, err := f.eng.Learn(ctx, f.profile.ID, "files")
	assert.ErrorIs(t, err, ErrModuleLocked)

	plan, err := f.eng.Learn(ctx, f.profile.ID, "base")
	require.NoError(t, err)
	assert.False(t, plan.CatchUp)
	assert.Len(t, plan.Cards, 2)

	f.answer(t, "b1", "ls -la")
	f.answer(t, "b2", "cat notes.txt")

	// The same profile under newer content with one more base card.
	v2 := New(testCatalog(t, rawContent(2, rawCard("b3", "pwd"))), f.store, Options{
		Now: f.clock.Now, Warnings: f.warn,
	})
	assert.Equal(t, progress.StateOutdated, statesOf(t, v2, f.profile.ID)["base"])
	assert.Equal(t, progress.StateUnlocked, statesOf(t, v2, f.profile.ID)["files"], "outdated counts as completed")

	plan, err = v2.Learn(ctx, f.profile.ID, "base")
	require.NoError(t, err)
	assert.True(t, plan.CatchUp)
	require.Len(t, plan.Cards, 1)
	assert.Equal(t, "b3", plan.Cards[0].ID)

	out, err := v2.RecordAnswer(ctx, f.profile.ID, "b3", "pwd")
	require.NoError(t, err)
	require.NotNil(t, out.Transition)
	assert.Equal(t, progress.StateOutdated, out.Transition.From)
	assert.Equal(t, progress.StateCompleted, out.Transition.To)
	assert.Equal(t, "catch-up", out.Transition.Trigger)
}

func TestPracticeRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog(t, rawContent(1)))

	q, err := f.eng.PracticeRound(ctx, f.profile.ID, PracticeOptions{})
	require.NoError(t, err)
	assert.Empty(t, q.Active, "nothing started yet")

	f.answer(t, "b1", "ls -la")
	f.answer(t, "b2", "cat notes.txt")

	q, err = f.eng.PracticeRound(ctx, f.profile.ID, PracticeOptions{})
	require.NoError(t, err)
	assert.Empty(t, q.Active, "both cards were just scheduled")
	assert.Len(t, q.Scheduled, 2)

	q, err = f.eng.PracticeRound(ctx, f.profile.ID, PracticeOptions{Ahead: true, Limit: 1})
	require.NoError(t, err)
	assert.True(t, q.Ahead)
	assert.Len(t, q.Active, 1)

	f.clock.Advance(24 * time.Hour)
	prev := ""
	for round := 0; round < 10; round++ {
		q, err = f.eng.PracticeRound(ctx, f.profile.ID, PracticeOptions{})
		require.NoError(t, err)
		require.Len(t, q.Active, 2)
		for _, it := range q.Active {
			assert.Equal(t, practice.CategoryDue, it.Category)
		}
		if prev != "" {
			assert.NotEqual(t, prev, q.First(), "round %d", round)
		}
		prev = q.First()
	}
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog(t, rawContent(1)))

	p, created, err := f.eng.EnsureProfile(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f.profile.ID, p.ID)

	_, created, err = f.eng.EnsureProfile(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, created)

	_, err = f.eng.CreateProfile(ctx, "bob")
	assert.ErrorIs(t, err, store.ErrProfileExists)

	require.NoError(t, f.eng.DeleteProfile(ctx, "bob"))
	assert.ErrorIs(t, f.eng.DeleteProfile(ctx, "bob"), ErrUnknownProfile)

	list, err := f.eng.Profiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Name)
}

func TestResetProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog(t, rawContent(1)))

	f.answer(t, "b1", "ls -la")
	f.answer(t, "b2", "cat notes.txt")
	require.Equal(t, progress.StateCompleted, statesOf(t, f.eng, f.profile.ID)["base"])

	require.NoError(t, f.eng.ResetProfile(ctx, "alice"))

	states := statesOf(t, f.eng, f.profile.ID)
	assert.Equal(t, progress.StateUnlocked, states["base"])
	assert.Equal(t, progress.StateLocked, states["files"])
	attempts, err := f.store.ListAttempts(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	_, err = f.eng.Profile(ctx, "alice")
	assert.NoError(t, err, "the profile itself survives a reset")
	assert.ErrorIs(t, f.eng.ResetProfile(ctx, "nobody"), ErrUnknownProfile)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog(t, rawContent(1)))

	f.answer(t, "b1", "ls")
	f.answer(t, "b1", "ls -la")
	f.answer(t, "b2", "cat notes.txt")
	f.answer(t, "f1", "cp -r src dst")

	data, sum, err := f.eng.Export(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.ModuleRows)
	assert.Equal(t, 3, sum.ScheduleRows)
	assert.Equal(t, 4, sum.AttemptRows)

	imported, err := f.eng.Import(ctx, data, "alice-copy")
	require.NoError(t, err)
	assert.Equal(t, "alice-copy", imported.ProfileName)
	assert.Zero(t, imported.Skipped)
	assert.Equal(t, 4, imported.AttemptRows)

	assert.Equal(t, statesOf(t, f.eng, f.profile.ID), statesOf(t, f.eng, imported.ProfileID))

	orig, err := f.store.ListSchedules(ctx, f.profile.ID)
	require.NoError(t, err)
	copied, err := f.store.ListSchedules(ctx, imported.ProfileID)
	require.NoError(t, err)
	require.Len(t, copied, len(orig))
	for i := range orig {
		assert.Equal(t, orig[i].CardID, copied[i].CardID)
		assert.Equal(t, orig[i].Streak, copied[i].Streak)
		assert.InDelta(t, orig[i].SpacingScore, copied[i].SpacingScore, 1e-9)
		assert.WithinDuration(t, orig[i].DueAt, copied[i].DueAt, time.Second)
	}

	_, err = f.eng.Import(ctx, data, "alice-copy")
	assert.ErrorIs(t, err, store.ErrProfileExists)

	_, err = f.eng.Import(ctx, data, "")
	assert.ErrorIs(t, err, store.ErrProfileExists, "falls back to the exported name")
}

func TestImport_RejectsNewerFormatWithoutWriting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog(t, rawContent(1)))

	data := []byte(`{"format_version": 99, "profile_name": "future", "rows": []}`)
	_, err := f.eng.Import(ctx, data, "")
	var unsupported *transfer.UnsupportedFormatVersionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 99, unsupported.Version)

	list, err := f.eng.Profiles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.eng.Import(ctx, []byte(`not json`), "x")
	assert.ErrorIs(t, err, transfer.ErrMalformedEnvelope)
}

func TestImport_WarningsAndNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog(t, rawContent(1)))

	data := []byte(`{
		"format_version": 1,
		"source": {"app_version": "9.0.0"},
		"module_progress": [{"module_id": "base", "started_at": "2026-01-01T00:00:00Z"}],
		"card_progress": [{"card_id": "gone", "due_at": "2026-01-01T00:00:00Z"}],
		"attempts": [
			{"id": "a1", "card_id": "b1", "user_input": "ls -la", "is_correct": true},
			{"id": "a1", "card_id": "b1", "user_input": "ls -la", "is_correct": true}
		]
	}`)
	_, err := f.eng.Import(ctx, data, "")
	assert.ErrorIs(t, err, ErrNoProfileName)

	sum, err := f.eng.Import(ctx, data, "legacy")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.AttemptRows)
	assert.Equal(t, 1, sum.Skipped, "duplicate attempt id")
	require.Len(t, sum.Warnings, 2)
	assert.Contains(t, f.warn.String(), "warning: export was written by version v9.0.0")
	assert.Contains(t, f.warn.String(), "not in the current content")

	assert.Equal(t, progress.StateStarted, statesOf(t, f.eng, sum.ProfileID)["base"])
}
