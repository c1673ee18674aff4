package catalog

import (
	"slices"
	"sort"
)

// Catalog is the validated, immutable content set. It is only produced by
// Validate, so every Catalog is acyclic with globally unique card ids.
type Catalog struct {
	modules    []Module
	byID       map[string]*Module
	cards      map[string]*Card
	dependents map[string][]string
	topoOrder  []string
	homes      map[string]string
	users      map[string][]string
}

// buildCatalog constructs the indices over modules already sorted in display
// order. It tolerates cycles and unknown prerequisites so that validation can
// run every check over the same indices.
func buildCatalog(modules []Module, policy OverlapPolicy) *Catalog {
	c := &Catalog{
		modules:    modules,
		byID:       make(map[string]*Module, len(modules)),
		cards:      make(map[string]*Card),
		dependents: make(map[string][]string),
	}

	for i := range c.modules {
		m := &c.modules[i]
		c.byID[m.ID] = m
		for li := range m.Lessons {
			for ci := range m.Lessons[li].Cards {
				card := &m.Lessons[li].Cards[ci]
				if _, dup := c.cards[card.ID]; !dup {
					c.cards[card.ID] = card
				}
			}
		}
	}

	for _, m := range c.modules {
		for _, prereq := range m.Prerequisites {
			c.dependents[prereq] = append(c.dependents[prereq], m.ID)
		}
	}

	c.topoOrder = c.topologicalOrder()
	c.users = commandUsers(c.modules)
	c.homes = deriveHomes(c.users, c.topoOrder, policy)
	return c
}

// topologicalOrder runs Kahn's algorithm, prerequisites first. Ties follow
// display order. Modules stuck in a cycle are appended at the end.
func (c *Catalog) topologicalOrder() []string {
	position := make(map[string]int, len(c.modules))
	inDegree := make(map[string]int, len(c.modules))
	for i, m := range c.modules {
		position[m.ID] = i
		for _, prereq := range m.Prerequisites {
			if _, ok := c.byID[prereq]; ok {
				inDegree[m.ID]++
			}
		}
	}

	var queue []string
	for _, m := range c.modules {
		if inDegree[m.ID] == 0 {
			queue = append(queue, m.ID)
		}
	}

	order := make([]string, 0, len(c.modules))
	placed := make(map[string]bool, len(c.modules))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		placed[id] = true

		deps := slices.Clone(c.dependents[id])
		sort.Slice(deps, func(i, j int) bool { return position[deps[i]] < position[deps[j]] })
		for _, dep := range deps {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	for _, m := range c.modules {
		if !placed[m.ID] {
			order = append(order, m.ID)
		}
	}
	return order
}

// Module returns a module by id.
func (c *Catalog) Module(id string) (Module, bool) {
	m, ok := c.byID[id]
	if !ok {
		return Module{}, false
	}
	return m.clone(), true
}

// Modules returns all modules in display order.
func (c *Catalog) Modules() []Module {
	out := make([]Module, len(c.modules))
	for i, m := range c.modules {
		out[i] = m.clone()
	}
	return out
}

// Card returns a card by id.
func (c *Catalog) Card(id string) (Card, bool) {
	card, ok := c.cards[id]
	if !ok {
		return Card{}, false
	}
	return card.clone(), true
}

// TopologicalOrder returns module ids with every prerequisite before its dependents.
func (c *Catalog) TopologicalOrder() []string {
	return slices.Clone(c.topoOrder)
}

// Dependents returns the ids of modules that directly require id.
func (c *Catalog) Dependents(id string) []string {
	return slices.Clone(c.dependents[id])
}

// Closure returns the transitive prerequisites of id followed by id itself,
// prerequisites first. It returns nil for an unknown module.
func (c *Catalog) Closure(id string) []string {
	if _, ok := c.byID[id]; !ok {
		return nil
	}
	visited := make(map[string]bool)
	var order []string
	var visit func(string)
	visit = func(cur string) {
		if visited[cur] {
			return
		}
		visited[cur] = true
		m, ok := c.byID[cur]
		if !ok {
			return
		}
		for _, prereq := range m.Prerequisites {
			visit(prereq)
		}
		order = append(order, cur)
	}
	visit(id)
	return order
}

// Home returns the home module of a command id.
func (c *Catalog) Home(command string) (string, bool) {
	home, ok := c.homes[command]
	return home, ok
}

// Commands returns every distinct command id in the content, sorted.
func (c *Catalog) Commands() []string {
	cmds := make([]string, 0, len(c.users))
	for cmd := range c.users {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// CommandReferences returns the commands a module uses with the union of
// flags it tests for each, sorted by command.
func (c *Catalog) CommandReferences(moduleID string) []CommandReference {
	m, ok := c.byID[moduleID]
	if !ok {
		return nil
	}
	flags := moduleCommandFlags(*m)
	refs := make([]CommandReference, 0, len(flags))
	for cmd, set := range flags {
		refs = append(refs, CommandReference{Command: cmd, TestedFlags: sortedKeys(set)})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Command < refs[j].Command })
	return refs
}

// LessonReferences returns lesson metadata for a module in lesson order.
func (c *Catalog) LessonReferences(moduleID string) []LessonReference {
	m, ok := c.byID[moduleID]
	if !ok {
		return nil
	}
	refs := make([]LessonReference, 0, len(m.Lessons))
	for _, l := range m.Lessons {
		cmds := make(map[string]bool)
		for _, card := range l.Cards {
			cmds[card.Command] = true
		}
		refs = append(refs, LessonReference{
			LessonID:     l.ID,
			Title:        l.Title,
			Order:        l.Order,
			CardCount:    len(l.Cards),
			CommandCount: len(cmds),
		})
	}
	return refs
}
