// Package practice builds review queues from a profile's completed modules.
package practice

import (
	"time"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/spacedrep"
)

// Category is the reason a card is, or is not, in the active queue.
type Category string

const (
	CategoryNew       Category = "new"
	CategoryDue       Category = "due"
	CategoryScheduled Category = "scheduled"
)

// DefaultLimit is the default number of cards in one practice round.
const DefaultLimit = 30

// Item is one card in a queue with the schedule it was classified by.
type Item struct {
	Card     catalog.Card
	Category Category
	Schedule *spacedrep.CardSchedule
}

// Queue is the result of one build. Active holds new and due cards in
// presentation order; Scheduled holds the remaining eligible cards ordered
// by due time.
type Queue struct {
	Active    []Item
	Scheduled []Item
	// Ahead is set when Active was filled from scheduled cards because
	// nothing was due.
	Ahead bool
}

// First returns the card id presented first, or "" for an empty queue.
func (q Queue) First() string {
	if len(q.Active) == 0 {
		return ""
	}
	return q.Active[0].Card.ID
}

// NextDue returns the earliest due time among scheduled cards.
func (q Queue) NextDue() (time.Time, bool) {
	if len(q.Scheduled) == 0 {
		return time.Time{}, false
	}
	return q.Scheduled[0].Schedule.DueAt, true
}

// Input is everything a build reads about the profile.
type Input struct {
	Catalog   *catalog.Catalog
	Statuses  []progress.ModuleStatus
	Correct   map[string]bool
	Schedules map[string]spacedrep.CardSchedule

	// PreviousFirst is the card shown first in the preceding round.
	PreviousFirst string
	// Limit caps the active queue; zero or less means no cap.
	Limit int
	// Ahead practices the soonest scheduled cards when nothing is due.
	Ahead bool
	Now   time.Time
}
