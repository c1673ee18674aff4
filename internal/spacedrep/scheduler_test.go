package spacedrep

import (
	"math"
	"testing"
	"time"
)

func TestIntervalFromScore_KnownValues(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 10},
		{1, 17},
		{2, 29},
		{-3, 10},
		{math.NaN(), 10},
		{20, MaxIntervalMinutes},
		{math.Inf(1), MaxIntervalMinutes},
	}
	for _, tt := range tests {
		if got := IntervalFromScore(tt.score); got != tt.want {
			t.Errorf("IntervalFromScore(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestIntervalFromScore_MonotonicAndBounded(t *testing.T) {
	prev := IntervalFromScore(0)
	for s := 0.0; s <= 30; s += 0.05 {
		got := IntervalFromScore(s)
		if got < MinIntervalMinutes || got > MaxIntervalMinutes {
			t.Fatalf("IntervalFromScore(%.2f) = %d, out of bounds", s, got)
		}
		if got < prev {
			t.Fatalf("IntervalFromScore(%.2f) = %d, decreased from %d", s, got, prev)
		}
		prev = got
	}
}

func TestNext_FirstCorrect(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	got := Next("ls-1", nil, true, now)

	if got.CardID != "ls-1" {
		t.Errorf("CardID = %q, want ls-1", got.CardID)
	}
	if got.Streak != 1 {
		t.Errorf("Streak = %d, want 1", got.Streak)
	}
	if got.SpacingScore != 1 {
		t.Errorf("SpacingScore = %v, want 1", got.SpacingScore)
	}
	if got.IntervalMinutes != 17 {
		t.Errorf("IntervalMinutes = %d, want 17", got.IntervalMinutes)
	}
	if !got.DueAt.Equal(now.Add(17 * time.Minute)) {
		t.Errorf("DueAt = %v, want %v", got.DueAt, now.Add(17*time.Minute))
	}
	if got.SeenCount != 1 || got.LastResult != ResultCorrect || !got.LastSeenAt.Equal(now) {
		t.Errorf("unexpected bookkeeping: %+v", got)
	}
}

func TestNext_StreakBonusUsesPreviousStreak(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	prev := &CardSchedule{Streak: 4, SpacingScore: 2, SeenCount: 7}
	got := Next("c", prev, true, now)

	want := 2 + 1 + 0.15*4
	if math.Abs(got.SpacingScore-want) > 1e-9 {
		t.Errorf("SpacingScore = %v, want %v", got.SpacingScore, want)
	}
	if got.Streak != 5 {
		t.Errorf("Streak = %d, want 5", got.Streak)
	}
	if got.SeenCount != 8 {
		t.Errorf("SeenCount = %d, want 8", got.SeenCount)
	}
	if got.IntervalMinutes != IntervalFromScore(want) {
		t.Errorf("IntervalMinutes = %d, want %d", got.IntervalMinutes, IntervalFromScore(want))
	}
}

func TestNext_IncorrectResets(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, score := range []float64{0, 0.5, 3, 12, 40} {
		prev := &CardSchedule{Streak: 9, SpacingScore: score, IntervalMinutes: 9000, SeenCount: 3}
		got := Next("c", prev, false, now)

		if got.Streak != 0 {
			t.Errorf("score %v: Streak = %d, want 0", score, got.Streak)
		}
		if got.IntervalMinutes != 2 {
			t.Errorf("score %v: IntervalMinutes = %d, want 2", score, got.IntervalMinutes)
		}
		if !got.DueAt.Equal(now.Add(2 * time.Minute)) {
			t.Errorf("score %v: DueAt = %v, want now+2m", score, got.DueAt)
		}
		wantScore := math.Max(0, score*0.6-0.5)
		if math.Abs(got.SpacingScore-wantScore) > 1e-9 {
			t.Errorf("score %v: SpacingScore = %v, want %v", score, got.SpacingScore, wantScore)
		}
		if got.LastResult != ResultIncorrect || got.SeenCount != 4 {
			t.Errorf("score %v: unexpected bookkeeping: %+v", score, got)
		}
	}
}

func TestNext_ClampsInvalidPrevious(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	prev := &CardSchedule{Streak: -4, SpacingScore: -7, SeenCount: -1}
	got := Next("c", prev, true, now)

	if got.Streak != 1 || got.SpacingScore != 1 || got.SeenCount != 1 {
		t.Errorf("expected negative state to be clamped, got %+v", got)
	}
}

func TestNext_CorrectRunIncreasesDueUntilCeiling(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var prev *CardSchedule
	var lastDue time.Time
	lastInterval := 0

	for i := 0; i < 40; i++ {
		next := Next("c", prev, true, now)
		if i > 0 && !next.DueAt.After(lastDue) {
			t.Fatalf("attempt %d: DueAt %v not after %v", i, next.DueAt, lastDue)
		}
		if next.IntervalMinutes < lastInterval {
			t.Fatalf("attempt %d: interval shrank from %d to %d", i, lastInterval, next.IntervalMinutes)
		}
		lastDue, lastInterval = next.DueAt, next.IntervalMinutes
		prev = &next
		now = next.DueAt
	}

	if lastInterval != MaxIntervalMinutes {
		t.Errorf("interval after 40 correct answers = %d, want ceiling %d", lastInterval, MaxIntervalMinutes)
	}
}
