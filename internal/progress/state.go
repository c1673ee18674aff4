package progress

// State represents a module's position in the learning lifecycle for one profile.
type State string

const (
	StateLocked    State = "locked"
	StateUnlocked  State = "unlocked"
	StateStarted   State = "started"
	StateCompleted State = "completed"
	// StateOutdated is a completed module whose content has moved on since.
	// It is derived on read and never stored.
	StateOutdated State = "outdated"
)

// IsCompleted reports whether the state counts as completed for unlocking
// and practice eligibility. Outdated modules still count.
func (s State) IsCompleted() bool {
	return s == StateCompleted || s == StateOutdated
}

// IsAvailable reports whether the learner may work on the module.
func (s State) IsAvailable() bool {
	return s != StateLocked
}

// Transition records a module state change for display.
type Transition struct {
	ModuleID string
	From     State
	To       State
	Trigger  string // "first-attempt", "all-correct", "catch-up", "force-unlock"
}
