package catalog

import (
	"slices"
	"sort"
)

// commandUsers maps each command id to the modules using it, in display order.
func commandUsers(modules []Module) map[string][]string {
	users := make(map[string][]string)
	for _, m := range modules {
		for _, card := range m.Cards() {
			if card.Command == "" {
				continue
			}
			if !slices.Contains(users[card.Command], m.ID) {
				users[card.Command] = append(users[card.Command], m.ID)
			}
		}
	}
	return users
}

// deriveHomes picks the home of every command: the policy entry when one is
// configured, otherwise the user that comes first in topological order.
func deriveHomes(users map[string][]string, topoOrder []string, policy OverlapPolicy) map[string]string {
	rank := make(map[string]int, len(topoOrder))
	for i, id := range topoOrder {
		rank[id] = i
	}

	homes := make(map[string]string, len(users))
	for cmd, mods := range users {
		if home, ok := policy.Homes[cmd]; ok && home != "" {
			homes[cmd] = home
			continue
		}
		best := mods[0]
		for _, id := range mods[1:] {
			if rank[id] < rank[best] {
				best = id
			}
		}
		homes[cmd] = best
	}
	return homes
}

// moduleCommandFlags returns, per command used in m, the union of tested flags.
func moduleCommandFlags(m Module) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, card := range m.Cards() {
		if card.Command == "" {
			continue
		}
		set, ok := out[card.Command]
		if !ok {
			set = make(map[string]bool)
			out[card.Command] = set
		}
		for _, f := range card.TestedFlags {
			set[f] = true
		}
	}
	return out
}

// checkOwnership runs the overlap check and then the home-prerequisite check
// over every command in command order.
func checkOwnership(c *Catalog, policy OverlapPolicy) []error {
	flags := make(map[string]map[string]map[string]bool, len(c.modules))
	for _, m := range c.modules {
		flags[m.ID] = moduleCommandFlags(m)
	}

	var overlaps, missing []error
	for _, cmd := range c.Commands() {
		users := c.users[cmd]
		home := c.homes[cmd]

		if !slices.Contains(users, home) {
			overlaps = append(overlaps, &UnownedOverlapError{Command: cmd, Modules: slices.Clone(users)})
			continue
		}
		if len(users) < 2 {
			continue
		}

		homeFlags := flags[home][cmd]
		var offenders []string
		for _, id := range users {
			if id == home {
				continue
			}
			if !addsFlags(flags[id][cmd], homeFlags) && !policy.allowsContextual(cmd, id) {
				offenders = append(offenders, id)
			}
			m := c.byID[id]
			if !slices.Contains(m.Prerequisites, home) {
				missing = append(missing, &MissingHomePrerequisiteError{ModuleID: id, Command: cmd, RequiredHome: home})
			}
		}
		if len(offenders) > 0 {
			sort.Strings(offenders)
			overlaps = append(overlaps, &UnownedOverlapError{Command: cmd, Home: home, Modules: offenders})
		}
	}
	return append(overlaps, missing...)
}

func addsFlags(flags, covered map[string]bool) bool {
	for f := range flags {
		if !covered[f] {
			return true
		}
	}
	return false
}
