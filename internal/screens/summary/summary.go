package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/app"
	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/layout"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/theme"
)

// Screen shows the tally of a finished learn or practice round.
type Screen struct {
	title string
	round engine.Round
}

var _ app.Screen = (*Screen)(nil)

// New creates a summary for the round named title.
func New(title string, round engine.Round) *Screen {
	return &Screen{title: title, round: round}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return s.title + " summary"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
}

func (s *Screen) Update(msg tea.Msg) (app.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, app.Pop
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	r := s.round
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title, "Round complete"))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Answered: %d      Correct: %d      Accuracy: %.0f%%",
		r.Answered, r.Correct, r.Accuracy()*100)
	b.WriteString(layout.Centered(width, theme.Body, stats))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))

	if len(r.Transitions) > 0 {
		b.WriteString(layout.Centered(width, theme.Hint, "Modules"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, t := range r.Transitions {
			line := fmt.Sprintf("%s: %s → %s", t.ModuleID, t.From, t.To)
			style := theme.Body
			if t.To.IsCompleted() {
				style = theme.Correct
			}
			b.WriteString(layout.Centered(width, style, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Missed) > 0 {
		b.WriteString(layout.Centered(width, theme.Hint, "Review these"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, c := range r.Missed {
			line := theme.Body.Render(c.Prompt) + "  " + theme.Command.Render(c.PrimaryAnswer())
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
	}

	return b.String()
}
