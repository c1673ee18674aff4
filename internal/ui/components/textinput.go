package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/ui/theme"
)

// MaxCommandLength caps what the prompt accepts in one answer.
const MaxCommandLength = 512

// CommandInput is a single-line shell prompt for typed answers.
type CommandInput struct {
	Model     textinput.Model
	submitted bool
	correct   bool
}

// NewCommandInput creates a focused prompt showing "$ ".
func NewCommandInput(placeholder string) CommandInput {
	ti := textinput.New()
	ti.Prompt = "$ "
	ti.Placeholder = placeholder
	ti.CharLimit = MaxCommandLength
	ti.Focus()

	return CommandInput{Model: ti}
}

// Init returns the initial command.
func (c CommandInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update handles messages. Input is ignored once the answer is submitted.
func (c CommandInput) Update(msg tea.Msg) (CommandInput, tea.Cmd) {
	if c.submitted {
		return c, nil
	}
	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the prompt, with a mark after submission.
func (c CommandInput) View() string {
	view := c.Model.View()
	if c.submitted {
		if c.correct {
			view += " " + theme.Correct.Render("✓")
		} else {
			view += " " + theme.Incorrect.Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (c CommandInput) Value() string {
	return c.Model.Value()
}

// Submitted reports whether Submit was called.
func (c CommandInput) Submitted() bool {
	return c.submitted
}

// Submit freezes the input and records the grading result.
func (c *CommandInput) Submit(correct bool) {
	c.submitted = true
	c.correct = correct
	c.Model.Blur()
}
