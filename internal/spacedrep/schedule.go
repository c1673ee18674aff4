package spacedrep

// Interval bounds in minutes: a two minute floor and a thirty day ceiling.
const (
	MinIntervalMinutes = 2
	MaxIntervalMinutes = 43200
)

// IncorrectIntervalMinutes is the flat retry interval after a miss.
const IncorrectIntervalMinutes = MinIntervalMinutes

const (
	// intervalBase and intervalGrowth shape IntervalFromScore: 10 * 1.7^score.
	intervalBase   = 10.0
	intervalGrowth = 1.7

	// streakBonus is added to the score per correct answer already in the streak.
	streakBonus = 0.15

	// missDecay and missPenalty shrink the score after an incorrect answer.
	missDecay   = 0.6
	missPenalty = 0.5
)
