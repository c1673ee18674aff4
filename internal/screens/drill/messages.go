package drill

import "github.com/cmdtrainer/cmdtrainer/internal/engine"

// answerRecordedMsg is sent when the recorder has graded and stored an answer.
type answerRecordedMsg struct {
	Outcome engine.AnswerOutcome
	Err     error
}
