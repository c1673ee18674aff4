package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/ui/theme"
)

// MenuItem is one selectable row. Detail is rendered dimmed after the label.
type MenuItem struct {
	Label    string
	Detail   string
	Value    string
	Disabled bool
}

// Menu is a vertical list with keyboard navigation. Disabled items are shown
// but skipped by the cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// MenuSelectedMsg is emitted when enter is pressed on an enabled item.
type MenuSelectedMsg struct {
	Item MenuItem
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	selected := -1
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{Items: items, Selected: selected}
}

// Current returns the item under the cursor.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Selected < 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if item, ok := m.Current(); ok && !item.Disabled {
			return m, func() tea.Msg { return MenuSelectedMsg{Item: item} }
		}
	}

	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		var line string
		switch {
		case i == m.Selected:
			line = theme.Selected.Render("  ▸ " + item.Label)
		case item.Disabled:
			line = theme.Disabled.Render("    " + item.Label)
		default:
			line = theme.Unselected.Render("    " + item.Label)
		}
		if item.Detail != "" {
			line += "  " + theme.Hint.Render(item.Detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
