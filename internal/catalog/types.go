package catalog

import "slices"

// Card is a single prompt/answer unit. Answers[0] is the display form.
type Card struct {
	ID          string
	ModuleID    string
	LessonID    string
	Prompt      string
	Answers     []string
	Command     string
	TestedFlags []string
	Explanation string
}

// PrimaryAnswer returns the answer shown to the learner after a miss.
func (c Card) PrimaryAnswer() string {
	if len(c.Answers) == 0 {
		return ""
	}
	return c.Answers[0]
}

func (c Card) clone() Card {
	c.Answers = slices.Clone(c.Answers)
	c.TestedFlags = slices.Clone(c.TestedFlags)
	return c
}

// Lesson is an ordered group of cards inside a module.
type Lesson struct {
	ID    string
	Title string
	Order int
	Cards []Card
}

// Module is a top-level content grouping with prerequisites.
type Module struct {
	ID             string
	Title          string
	Description    string
	Order          int
	ContentVersion int
	Prerequisites  []string
	Lessons        []Lesson
}

// clone returns a copy sharing no slices with m, so callers cannot edit
// the catalog through it.
func (m Module) clone() Module {
	m.Prerequisites = slices.Clone(m.Prerequisites)
	if m.Lessons != nil {
		lessons := make([]Lesson, len(m.Lessons))
		for i, l := range m.Lessons {
			if l.Cards != nil {
				cards := make([]Card, len(l.Cards))
				for j, c := range l.Cards {
					cards[j] = c.clone()
				}
				l.Cards = cards
			}
			lessons[i] = l
		}
		m.Lessons = lessons
	}
	return m
}

// Cards returns every card of the module in lesson order.
func (m Module) Cards() []Card {
	var cards []Card
	for _, l := range m.Lessons {
		cards = append(cards, l.Cards...)
	}
	return cards
}

// CardIDs returns the ids of every card of the module in lesson order.
func (m Module) CardIDs() []string {
	var ids []string
	for _, l := range m.Lessons {
		for _, c := range l.Cards {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// RawModule is a module record as it comes out of a content file, before
// validation. Field tags match the on-disk JSON/YAML keys.
type RawModule struct {
	ID             string      `json:"id" yaml:"id"`
	Title          string      `json:"title" yaml:"title"`
	Description    string      `json:"description,omitempty" yaml:"description,omitempty"`
	Order          int         `json:"order,omitempty" yaml:"order,omitempty"`
	ContentVersion int         `json:"content_version,omitempty" yaml:"content_version,omitempty"`
	Prerequisites  []string    `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Lessons        []RawLesson `json:"lessons" yaml:"lessons"`
}

// RawLesson is an unvalidated lesson record.
type RawLesson struct {
	ID    string    `json:"id" yaml:"id"`
	Title string    `json:"title" yaml:"title"`
	Order int       `json:"order,omitempty" yaml:"order,omitempty"`
	Cards []RawCard `json:"cards" yaml:"cards"`
}

// RawCard is an unvalidated card record. Command and TestedFlags are
// inferred from the answers when left empty.
type RawCard struct {
	ID          string   `json:"id" yaml:"id"`
	Prompt      string   `json:"prompt" yaml:"prompt"`
	Answers     []string `json:"answers" yaml:"answers"`
	Command     string   `json:"command,omitempty" yaml:"command,omitempty"`
	TestedFlags []string `json:"tested_flags,omitempty" yaml:"tested_flags,omitempty"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// OverlapPolicy is the content-specific table consulted by the ownership
// checks. Homes pins the home module of a command; Contextual lists, per
// command, the non-home modules allowed to reuse it without new flags.
type OverlapPolicy struct {
	Homes      map[string]string   `json:"homes,omitempty" yaml:"homes,omitempty"`
	Contextual map[string][]string `json:"contextual,omitempty" yaml:"contextual,omitempty"`
}

func (p OverlapPolicy) allowsContextual(command, moduleID string) bool {
	for _, id := range p.Contextual[command] {
		if id == moduleID {
			return true
		}
	}
	return false
}

// CommandReference aggregates the flags a module tests for one command.
type CommandReference struct {
	Command     string
	TestedFlags []string
}

// LessonReference summarizes one lesson for module detail views.
type LessonReference struct {
	LessonID     string
	Title        string
	Order        int
	CardCount    int
	CommandCount int
}
