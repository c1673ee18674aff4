package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Validate turns raw module records into a Catalog. Every problem found is
// reported in a single *ContentError; a nil error means the catalog is safe
// to use.
func Validate(raw []RawModule, policy OverlapPolicy) (*Catalog, error) {
	modules, errs := normalizeModules(raw)

	known := make(map[string]bool, len(modules))
	for _, m := range modules {
		known[m.ID] = true
	}
	for _, m := range modules {
		for _, prereq := range m.Prerequisites {
			if !known[prereq] {
				errs = append(errs, &UnknownPrerequisiteError{ModuleID: m.ID, Prerequisite: prereq})
			}
		}
	}

	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].Order != modules[j].Order {
			return modules[i].Order < modules[j].Order
		}
		return modules[i].ID < modules[j].ID
	})

	c := buildCatalog(modules, policy)

	errs = append(errs, duplicateCards(c.modules)...)
	errs = append(errs, findCycles(c)...)
	errs = append(errs, checkOwnership(c, policy)...)

	if len(errs) > 0 {
		return nil, &ContentError{Problems: errs}
	}
	return c, nil
}

// normalizeModules applies defaults and inference to raw records and
// reports records too broken to keep.
func normalizeModules(raw []RawModule) ([]Module, []error) {
	var errs []error
	seen := make(map[string]bool, len(raw))
	modules := make([]Module, 0, len(raw))

	for i, rm := range raw {
		id := strings.TrimSpace(rm.ID)
		if id == "" {
			errs = append(errs, &MissingFieldError{Where: fmt.Sprintf("module #%d", i+1), Field: "id"})
			continue
		}
		if seen[id] {
			errs = append(errs, &DuplicateModuleIDError{ModuleID: id})
			continue
		}
		seen[id] = true

		m := Module{
			ID:             id,
			Title:          strings.TrimSpace(rm.Title),
			Description:    strings.TrimSpace(rm.Description),
			Order:          rm.Order,
			ContentVersion: max(rm.ContentVersion, 1),
			Prerequisites:  dedupe(rm.Prerequisites),
		}
		if m.Title == "" {
			m.Title = id
		}

		for li, rl := range rm.Lessons {
			lessonID := strings.TrimSpace(rl.ID)
			if lessonID == "" {
				errs = append(errs, &MissingFieldError{Where: fmt.Sprintf("module %q lesson #%d", id, li+1), Field: "id"})
				continue
			}
			lesson := Lesson{ID: lessonID, Title: strings.TrimSpace(rl.Title), Order: rl.Order}
			for ci, rc := range rl.Cards {
				card, err := normalizeCard(id, lessonID, ci, rc)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				lesson.Cards = append(lesson.Cards, card)
			}
			m.Lessons = append(m.Lessons, lesson)
		}
		sort.SliceStable(m.Lessons, func(a, b int) bool { return m.Lessons[a].Order < m.Lessons[b].Order })

		modules = append(modules, m)
	}
	return modules, errs
}

func normalizeCard(moduleID, lessonID string, index int, rc RawCard) (Card, error) {
	id := strings.TrimSpace(rc.ID)
	if id == "" {
		return Card{}, &MissingFieldError{Where: fmt.Sprintf("lesson %q card #%d", lessonID, index+1), Field: "id"}
	}
	prompt := strings.TrimSpace(rc.Prompt)
	if prompt == "" {
		return Card{}, &MissingFieldError{Where: fmt.Sprintf("card %q", id), Field: "prompt"}
	}

	var answers []string
	for _, a := range rc.Answers {
		if a = strings.TrimSpace(a); a != "" {
			answers = append(answers, a)
		}
	}
	if len(answers) == 0 {
		return Card{}, &EmptyAnswersError{CardID: id}
	}

	command := strings.TrimSpace(rc.Command)
	if command == "" {
		command = InferCommand(answers[0])
	}
	flags := dedupe(rc.TestedFlags)
	if len(flags) == 0 {
		flags = InferFlags(answers)
	}
	sort.Strings(flags)

	return Card{
		ID:          id,
		ModuleID:    moduleID,
		LessonID:    lessonID,
		Prompt:      prompt,
		Answers:     answers,
		Command:     command,
		TestedFlags: flags,
		Explanation: strings.TrimSpace(rc.Explanation),
	}, nil
}

// duplicateCards reports card ids used more than once across the content.
func duplicateCards(modules []Module) []error {
	owners := make(map[string][]string)
	var order []string
	for _, m := range modules {
		for _, card := range m.Cards() {
			if _, ok := owners[card.ID]; !ok {
				order = append(order, card.ID)
			}
			owners[card.ID] = append(owners[card.ID], m.ID)
		}
	}

	var errs []error
	for _, id := range order {
		if len(owners[id]) > 1 {
			errs = append(errs, &DuplicateCardIDError{CardID: id, Modules: owners[id]})
		}
	}
	return errs
}

const (
	white = iota
	gray
	black
)

// findCycles walks the prerequisite graph depth first. A prerequisite edge
// into a gray (in progress) module closes a cycle.
func findCycles(c *Catalog) []error {
	color := make(map[string]int, len(c.modules))
	var stack []string
	var errs []error

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)
		for _, prereq := range c.byID[id].Prerequisites {
			if _, ok := c.byID[prereq]; !ok {
				continue
			}
			switch color[prereq] {
			case white:
				visit(prereq)
			case gray:
				start := slices.Index(stack, prereq)
				path := append(slices.Clone(stack[start:]), prereq)
				errs = append(errs, &CyclicDependencyError{Path: path})
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, m := range c.modules {
		if color[m.ID] == white {
			visit(m.ID)
		}
	}
	return errs
}

func dedupe(items []string) []string {
	var out []string
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
