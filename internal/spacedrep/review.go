package spacedrep

import "time"

// Result is the outcome of one graded attempt.
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
)

// ResultOf maps a grading outcome to a Result.
func ResultOf(correct bool) Result {
	if correct {
		return ResultCorrect
	}
	return ResultIncorrect
}

// CardSchedule holds the spaced repetition state of one card for one profile.
type CardSchedule struct {
	CardID          string    `json:"card_id"`
	Streak          int       `json:"streak"`
	SpacingScore    float64   `json:"spacing_score"`
	IntervalMinutes int       `json:"interval_minutes"`
	DueAt           time.Time `json:"due_at"`
	LastSeenAt      time.Time `json:"last_seen_at"`
	LastResult      Result    `json:"last_result"`
	SeenCount       int       `json:"seen_count"`
}

// IsDue returns true if the card is due for review (at or past its due time).
func (cs *CardSchedule) IsDue(now time.Time) bool {
	return !now.Before(cs.DueAt)
}

// Interval returns the current review interval as a duration.
func (cs *CardSchedule) Interval() time.Duration {
	return time.Duration(cs.IntervalMinutes) * time.Minute
}

// ReviewStatus describes a card's review status for display.
type ReviewStatus string

const (
	ReviewNew       ReviewStatus = "new"
	ReviewDue       ReviewStatus = "due"
	ReviewScheduled ReviewStatus = "scheduled"
)

// Status classifies a schedule. A nil schedule is a card never attempted,
// which is treated as due immediately.
func (cs *CardSchedule) Status(now time.Time) ReviewStatus {
	if cs == nil {
		return ReviewNew
	}
	if cs.IsDue(now) {
		return ReviewDue
	}
	return ReviewScheduled
}

// TimeUntilDue returns how long until the card is due. Returns 0 if already due.
func (cs *CardSchedule) TimeUntilDue(now time.Time) time.Duration {
	if cs.IsDue(now) {
		return 0
	}
	return cs.DueAt.Sub(now)
}
