package app

import (
	tea "charm.land/bubbletea/v2"
)

// router keeps the stack of screens. The top screen receives input.
type router struct {
	stack []Screen
}

func newRouter(initial Screen) *router {
	return &router{stack: []Screen{initial}}
}

func (r *router) active() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *router) depth() int {
	return len(r.stack)
}

// update applies navigation messages and forwards everything else to the
// active screen. A screen revealed by a pop is initialized again so it can
// refresh. Popping the last screen quits.
func (r *router) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushMsg:
		r.stack = append(r.stack, msg.Screen)
		return msg.Screen.Init()
	case ReplaceMsg:
		r.stack[len(r.stack)-1] = msg.Screen
		return msg.Screen.Init()
	case PopMsg:
		if len(r.stack) <= 1 {
			return tea.Quit
		}
		r.stack = r.stack[:len(r.stack)-1]
		return r.active().Init()
	}

	active := r.active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}
