package spacedrep

import (
	"math"
	"time"
)

// IntervalFromScore converts a spacing score into a review interval in
// minutes: round(10 * 1.7^score), clamped to [MinIntervalMinutes,
// MaxIntervalMinutes]. Negative or NaN scores count as zero.
func IntervalFromScore(score float64) int {
	score = sanitizeScore(score)
	minutes := math.Round(intervalBase * math.Pow(intervalGrowth, score))
	if math.IsInf(minutes, 1) || minutes > MaxIntervalMinutes {
		return MaxIntervalMinutes
	}
	if minutes < MinIntervalMinutes {
		return MinIntervalMinutes
	}
	return int(minutes)
}

// Next computes the schedule that follows one graded attempt. prev is nil for
// a card that has never been attempted. Next is pure; the caller persists the
// result together with the attempt record.
func Next(cardID string, prev *CardSchedule, correct bool, now time.Time) CardSchedule {
	var streak, seen int
	var score float64
	if prev != nil {
		streak = max(prev.Streak, 0)
		seen = max(prev.SeenCount, 0)
		score = sanitizeScore(prev.SpacingScore)
	}

	next := CardSchedule{
		CardID:     cardID,
		LastSeenAt: now,
		LastResult: ResultOf(correct),
		SeenCount:  seen + 1,
	}

	if correct {
		next.Streak = streak + 1
		next.SpacingScore = max(0, score+1+streakBonus*float64(streak))
		next.IntervalMinutes = IntervalFromScore(next.SpacingScore)
	} else {
		next.Streak = 0
		next.SpacingScore = max(0, score*missDecay-missPenalty)
		next.IntervalMinutes = IncorrectIntervalMinutes
	}
	next.DueAt = now.Add(next.Interval())
	return next
}

func sanitizeScore(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return s
}
