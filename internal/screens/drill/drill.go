// Package drill is the prompt and answer loop shared by learn and practice
// rounds. Each submitted answer is graded and stored before feedback shows.
package drill

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/app"
	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/screens/summary"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/components"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/layout"
)

// Recorder grades and stores one answer.
type Recorder interface {
	RecordAnswer(ctx context.Context, profileID int, cardID, input string) (engine.AnswerOutcome, error)
}

// Options describes one round.
type Options struct {
	Title     string
	ProfileID int
	Cards     []catalog.Card
	// Notice is shown above the first card, e.g. for catch-up rounds.
	Notice string
}

// Screen presents cards one at a time.
type Screen struct {
	ctx      context.Context
	recorder Recorder
	opts     Options

	index       int
	input       components.CommandInput
	outcome     *engine.AnswerOutcome
	round       engine.Round
	pending     bool
	confirmQuit bool
	errMsg      string
}

var _ app.Screen = (*Screen)(nil)

// New creates a drill over opts.Cards. ctx bounds every store call.
func New(ctx context.Context, recorder Recorder, opts Options) *Screen {
	return &Screen{
		ctx:      ctx,
		recorder: recorder,
		opts:     opts,
		input:    newInput(),
	}
}

func newInput() components.CommandInput {
	return components.NewCommandInput("type the command")
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return s.opts.Title
}

// Round returns the tally so far.
func (s *Screen) Round() engine.Round {
	return s.round
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "" || len(s.opts.Cards) == 0:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End round"},
			{Key: "N", Description: "Keep going"},
		}
	case s.outcome != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "End round"},
	}
}

func (s *Screen) Update(msg tea.Msg) (app.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerRecordedMsg:
		return s.handleRecorded(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.acceptingInput() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) acceptingInput() bool {
	return s.errMsg == "" && !s.confirmQuit && s.outcome == nil && !s.pending && s.index < len(s.opts.Cards)
}

func (s *Screen) current() (catalog.Card, bool) {
	if s.index >= len(s.opts.Cards) {
		return catalog.Card{}, false
	}
	return s.opts.Cards[s.index], true
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (app.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || len(s.opts.Cards) == 0 {
		return s, app.Pop
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.outcome != nil {
		return s, s.advance()
	}

	if s.pending {
		return s, nil
	}

	switch key {
	case "esc":
		if s.round.Answered == 0 {
			return s, app.Pop
		}
		s.confirmQuit = true
		return s, nil
	case "enter":
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit sends the typed answer to the recorder. Blank input is ignored.
func (s *Screen) submit() tea.Cmd {
	card, ok := s.current()
	answer := s.input.Value()
	if !ok || strings.TrimSpace(answer) == "" {
		return nil
	}

	s.pending = true
	ctx, rec, pid := s.ctx, s.recorder, s.opts.ProfileID
	return func() tea.Msg {
		out, err := rec.RecordAnswer(ctx, pid, card.ID, answer)
		return answerRecordedMsg{Outcome: out, Err: err}
	}
}

func (s *Screen) handleRecorded(msg answerRecordedMsg) (app.Screen, tea.Cmd) {
	s.pending = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	out := msg.Outcome
	s.outcome = &out
	s.round.Record(out)
	s.input.Submit(out.Result.Correct)
	return s, nil
}

// advance moves past the feedback to the next card, or ends the round.
func (s *Screen) advance() tea.Cmd {
	s.outcome = nil
	s.index++
	if s.index >= len(s.opts.Cards) {
		return s.finish()
	}
	s.input = newInput()
	return s.input.Init()
}

func (s *Screen) finish() tea.Cmd {
	return app.Replace(summary.New(s.opts.Title, s.round))
}
