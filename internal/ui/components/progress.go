package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for done out of total.
type ProgressBar struct {
	Label      string
	Done       int
	Total      int
	ShowCounts bool
	Width      int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, done, total int, showCounts bool, width int) ProgressBar {
	return ProgressBar{
		Label:      label,
		Done:       done,
		Total:      total,
		ShowCounts: showCounts,
		Width:      width,
	}
}

// Fraction returns Done/Total clamped to [0, 1]. An empty bar is zero.
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 || p.Done <= 0 {
		return 0
	}
	if p.Done >= p.Total {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	counts := ""
	if p.ShowCounts {
		counts = fmt.Sprintf("  %d/%d", p.Done, p.Total)
	}

	barWidth := p.Width - lipgloss.Width(result) - len(counts)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowCounts {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(counts)
	}

	return result
}
