// Package modules lists a profile's modules and starts a learning round on
// the one picked.
package modules

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/cmdtrainer/cmdtrainer/internal/app"
	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/screens/drill"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/components"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/layout"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/theme"
)

// Engine is what the picker needs from the learning engine.
type Engine interface {
	drill.Recorder
	ModuleStatuses(ctx context.Context, profileID int) ([]progress.ModuleStatus, error)
	Learn(ctx context.Context, profileID int, moduleID string) (engine.LearnPlan, error)
}

type statusesMsg struct {
	Statuses []progress.ModuleStatus
	Err      error
}

type planMsg struct {
	ModuleID string
	Plan     engine.LearnPlan
	Err      error
}

// Screen is the module picker.
type Screen struct {
	ctx       context.Context
	eng       Engine
	profileID int
	menu      components.Menu
	loaded    bool
	errMsg    string
}

var _ app.Screen = (*Screen)(nil)

// New creates a picker for the profile. Statuses load on Init.
func New(ctx context.Context, eng Engine, profileID int) *Screen {
	return &Screen{ctx: ctx, eng: eng, profileID: profileID}
}

func (s *Screen) Init() tea.Cmd {
	ctx, eng, pid := s.ctx, s.eng, s.profileID
	return func() tea.Msg {
		st, err := eng.ModuleStatuses(ctx, pid)
		return statusesMsg{Statuses: st, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Modules"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Learn"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (app.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusesMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.loaded = true
		s.menu = buildMenu(msg.Statuses, s.menu.Selected)
		return s, nil

	case components.MenuSelectedMsg:
		return s, s.learn(msg.Item.Value)

	case planMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, app.Push(drill.New(s.ctx, s.eng, drillOptions(msg.ModuleID, s.profileID, msg.Plan)))

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, app.Pop
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) learn(moduleID string) tea.Cmd {
	ctx, eng, pid := s.ctx, s.eng, s.profileID
	return func() tea.Msg {
		plan, err := eng.Learn(ctx, pid, moduleID)
		return planMsg{ModuleID: moduleID, Plan: plan, Err: err}
	}
}

func drillOptions(moduleID string, profileID int, plan engine.LearnPlan) drill.Options {
	opts := drill.Options{
		Title:     "Learn " + moduleID,
		ProfileID: profileID,
		Cards:     plan.Cards,
	}
	if plan.CatchUp {
		opts.Notice = fmt.Sprintf("This module changed since you completed it: %d new cards", len(plan.Cards))
	}
	return opts
}

// buildMenu lists every module; locked ones are shown but cannot be picked.
// The cursor stays where it was when that row is still selectable.
func buildMenu(statuses []progress.ModuleStatus, keep int) components.Menu {
	items := make([]components.MenuItem, 0, len(statuses))
	for _, st := range statuses {
		detail := fmt.Sprintf("%s  %d/%d", st.State, st.CorrectCards, st.CardCount)
		if st.State == progress.StateLocked {
			detail = "locked, needs " + strings.Join(st.MissingPrerequisites, ", ")
		}
		items = append(items, components.MenuItem{
			Label:    st.Title,
			Detail:   detail,
			Value:    st.ModuleID,
			Disabled: !st.State.IsAvailable(),
		})
	}
	m := components.NewMenu(items)
	if keep >= 0 && keep < len(items) && !items[keep].Disabled {
		m.Selected = keep
	}
	return m
}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return "\n\n" + layout.Centered(width, theme.Incorrect, s.errMsg)
	}
	if !s.loaded {
		return "\n\n" + layout.Centered(width, theme.Hint, "Loading modules...")
	}
	return "\n" + s.menu.View()
}
