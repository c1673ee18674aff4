package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/components"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/layout"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case len(s.opts.Cards) == 0:
		return "\n\n" + layout.Centered(width, theme.Hint, "Nothing to do here right now.")
	case s.confirmQuit:
		return renderQuitConfirm(width, s.round.Answered)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n\n")

	if s.opts.Notice != "" && s.index == 0 && s.outcome == nil {
		b.WriteString(layout.Centered(width, theme.Notice, s.opts.Notice))
		b.WriteString("\n\n")
	}

	card, _ := s.current()
	prompt := theme.Body.Bold(true).Width(min(width-8, 70)).Render(card.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")
	b.WriteString("    " + s.input.View())
	b.WriteString("\n")

	if s.outcome != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width))
	}
	return b.String()
}

func (s *Screen) renderInfoLine(width int) string {
	card, _ := s.current()
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + card.ModuleID + " / " + card.LessonID)

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d/%d", theme.Correct.Render("✓"), s.round.Correct, s.round.Answered))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}

	bar := components.NewProgressBar("", s.index, len(s.opts.Cards), true, width-4)
	return line + "\n  " + bar.View()
}

func (s *Screen) renderFeedback(width int) string {
	out := s.outcome
	var b strings.Builder

	if out.Result.Correct {
		b.WriteString("    " + theme.Correct.Render("Correct!"))
	} else {
		b.WriteString("    " + theme.Incorrect.Render("Not quite") + "  " + theme.Hint.Render(out.Result.Reason))
		b.WriteString("\n    " + theme.Body.Render("Answer: ") + theme.Command.Render(out.Card.PrimaryAnswer()))
	}
	b.WriteString("\n")

	if len(out.Card.Answers) > 1 {
		b.WriteString("    " + theme.Hint.Render("Also accepted: "+strings.Join(out.Card.Answers[1:], ", ")))
		b.WriteString("\n")
	}

	if out.Card.Explanation != "" {
		exp := theme.Body.Width(min(width-8, 70)).Render(out.Card.Explanation)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(4).Render(exp))
		b.WriteString("\n")
	}

	if t := out.Transition; t != nil {
		b.WriteString("\n    " + theme.Notice.Render(DescribeTransition(*t)))
		b.WriteString("\n")
	}
	return b.String()
}

// DescribeTransition phrases a module state change for the learner.
func DescribeTransition(t progress.Transition) string {
	switch t.To {
	case progress.StateCompleted:
		return fmt.Sprintf("Module %s completed!", t.ModuleID)
	case progress.StateStarted:
		return fmt.Sprintf("Started module %s", t.ModuleID)
	}
	return fmt.Sprintf("Module %s is now %s", t.ModuleID, t.To)
}

func renderQuitConfirm(width, answered int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Title, "End this round?"))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Hint,
		fmt.Sprintf("%d answers are already saved.", answered)))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Body, "[Y] End round    [N] Keep going"))
	return b.String()
}

func renderError(width int, msg string) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Incorrect, "Could not save the answer"))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Hint, msg))
	return b.String()
}
