package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/ui/layout"
)

// Screen is one full-window view hosted by the app frame.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string

	// KeyHints are shown in the footer.
	KeyHints() []layout.KeyHint
}

// PushMsg asks the app to show a screen on top of the current one.
type PushMsg struct {
	Screen Screen
}

// ReplaceMsg asks the app to swap the current screen for another.
type ReplaceMsg struct {
	Screen Screen
}

// PopMsg asks the app to leave the current screen. Leaving the last screen
// ends the program.
type PopMsg struct{}

// Push returns a command that emits PushMsg.
func Push(s Screen) tea.Cmd {
	return func() tea.Msg { return PushMsg{Screen: s} }
}

// Replace returns a command that emits ReplaceMsg.
func Replace(s Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceMsg{Screen: s} }
}

// Pop returns a command that emits PopMsg.
func Pop() tea.Msg {
	return PopMsg{}
}
