package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar_Fraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 4, 0.25},
		{4, 4, 1},
		{9, 4, 1},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.done, tt.total, false, 20)
		assert.InDelta(t, tt.want, p.Fraction(), 1e-9, "%d/%d", tt.done, tt.total)
	}
}

func TestProgressBar_ViewShowsCounts(t *testing.T) {
	view := NewProgressBar("git", 3, 7, true, 40).View()
	assert.Contains(t, view, "git")
	assert.Contains(t, view, "3/7")
}

func TestMenu_SkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "locked", Disabled: true},
		{Label: "base", Value: "base"},
		{Label: "also locked", Disabled: true},
		{Label: "git", Value: "git"},
	})
	require.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	assert.Equal(t, 1, m.Selected)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(MenuSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "base", msg.Item.Value)
}

func TestMenu_AllDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "locked", Disabled: true}})
	assert.Equal(t, -1, m.Selected)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	_, ok := m.Current()
	assert.False(t, ok)
	assert.True(t, strings.Contains(m.View(), "locked"))
}

func TestCommandInput_FrozenAfterSubmit(t *testing.T) {
	in := NewCommandInput("type a command")
	in.Model.SetValue("ls -la")
	in.Submit(true)

	in, _ = in.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Equal(t, "ls -la", in.Value())
	assert.True(t, in.Submitted())
	assert.Contains(t, in.View(), "✓")
}
