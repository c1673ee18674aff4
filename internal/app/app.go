// Package app hosts full-screen terminal views inside a shared frame with a
// header, a footer of key hints and a stack of screens.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/ui/layout"
)

// Model is the root Bubble Tea model.
type Model struct {
	router  *router
	profile string
	width   int
	height  int
}

// New creates a Model showing initial for the named profile.
func New(initial Screen, profile string) Model {
	return Model{router: newRouter(initial), profile: profile}
}

func (m Model) Init() tea.Cmd {
	return m.router.active().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, m.router.update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame around the active screen.
func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.active()
	header := layout.RenderHeader(active.Title(), m.profile, m.width)
	hints := append(active.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(hints, m.width)
	content := active.View(m.width, layout.ContentHeight(header, footer, m.height))

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Active returns the screen currently receiving input.
func (m Model) Active() Screen {
	return m.router.active()
}

// Run starts the program and blocks until the last screen is left, the
// user quits or ctx is cancelled.
func Run(ctx context.Context, initial Screen, profile string) error {
	p := tea.NewProgram(New(initial, profile), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
