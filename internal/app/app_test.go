package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdtrainer/cmdtrainer/internal/ui/layout"
)

type initMsg struct{ name string }

// stubScreen records the messages it receives.
type stubScreen struct {
	name string
	got  []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{name: s.name} }
}

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string       { return "content of " + s.name }
func (s *stubScreen) Title() string              { return strings.ToUpper(s.name) }
func (s *stubScreen) KeyHints() []layout.KeyHint { return []layout.KeyHint{{Key: "X", Description: "Do " + s.name}} }

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestRouter_Navigation(t *testing.T) {
	first := &stubScreen{name: "first"}
	second := &stubScreen{name: "second"}
	third := &stubScreen{name: "third"}
	r := newRouter(first)

	cmd := r.update(PushMsg{Screen: second})
	require.NotNil(t, cmd)
	assert.Equal(t, initMsg{name: "second"}, cmd())
	assert.Equal(t, 2, r.depth())
	assert.Same(t, second, r.active())

	r.update(ReplaceMsg{Screen: third})
	assert.Equal(t, 2, r.depth())
	assert.Same(t, third, r.active())

	cmd = r.update(PopMsg{})
	assert.Same(t, first, r.active())
	require.NotNil(t, cmd)
	assert.Equal(t, initMsg{name: "first"}, cmd(), "revealed screen is initialized again")

	assert.True(t, isQuit(r.update(PopMsg{})), "leaving the last screen quits")
}

func TestRouter_ForwardsToActive(t *testing.T) {
	first := &stubScreen{name: "first"}
	r := newRouter(first)
	r.update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	require.Len(t, first.got, 1)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := New(&stubScreen{name: "first"}, "alice")
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	assert.True(t, isQuit(cmd))
}

func TestModel_Render(t *testing.T) {
	m := New(&stubScreen{name: "first"}, "alice")
	assert.Empty(t, m.render(), "nothing renders before the first window size")
	assert.True(t, m.View().AltScreen)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Contains(t, updated.(Model).render(), "Terminal too small")

	updated, _ = updated.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := updated.(Model).render()
	assert.Contains(t, out, "FIRST")
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "content of first")
	assert.Contains(t, out, "Do first")
}
