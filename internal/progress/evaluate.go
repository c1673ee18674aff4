package progress

import "github.com/cmdtrainer/cmdtrainer/internal/catalog"

// LessonProgress counts attempted and correctly answered cards in one lesson.
type LessonProgress struct {
	LessonID  string
	Title     string
	CardCount int
	Attempted int
	Correct   int
}

// ModuleStatus is the derived view of one module for one profile.
type ModuleStatus struct {
	ModuleID             string
	Title                string
	State                State
	MissingPrerequisites []string
	CardCount            int
	AttemptedCards       int
	CorrectCards         int
	Lessons              []LessonProgress
	Progress             *ModuleProgress
}

// Evaluate derives the status of every module in display order.
//
// A module with a progress row keeps the state the row implies, even if its
// prerequisites have since changed. Any other module is unlocked only when
// every module in its transitive prerequisite closure is completed.
func Evaluate(cat *catalog.Catalog, snap Snapshot) []ModuleStatus {
	mods := cat.Modules()
	completed := make(map[string]bool, len(mods))
	for _, m := range mods {
		if p := snap.progressOf(m.ID); p.IsCompleted() {
			completed[m.ID] = true
		}
	}

	out := make([]ModuleStatus, 0, len(mods))
	for _, m := range mods {
		out = append(out, evaluateModule(cat, m, snap, completed))
	}
	return out
}

// StatusOf derives the status of a single module.
func StatusOf(cat *catalog.Catalog, snap Snapshot, moduleID string) (ModuleStatus, error) {
	m, ok := cat.Module(moduleID)
	if !ok {
		return ModuleStatus{}, ErrUnknownModule
	}
	completed := make(map[string]bool)
	for _, id := range cat.Closure(moduleID) {
		if p := snap.progressOf(id); p.IsCompleted() {
			completed[id] = true
		}
	}
	return evaluateModule(cat, m, snap, completed), nil
}

func evaluateModule(cat *catalog.Catalog, m catalog.Module, snap Snapshot, completed map[string]bool) ModuleStatus {
	st := ModuleStatus{ModuleID: m.ID, Title: m.Title}

	for _, id := range cat.Closure(m.ID) {
		if id != m.ID && !completed[id] {
			st.MissingPrerequisites = append(st.MissingPrerequisites, id)
		}
	}

	if p := snap.progressOf(m.ID); p != nil {
		st.Progress = p
		st.State = stateOf(m, p)
	} else if len(st.MissingPrerequisites) == 0 {
		st.State = StateUnlocked
	} else {
		st.State = StateLocked
	}

	for _, l := range m.Lessons {
		lp := LessonProgress{LessonID: l.ID, Title: l.Title, CardCount: len(l.Cards)}
		for _, c := range l.Cards {
			if snap.Attempted[c.ID] {
				lp.Attempted++
			}
			if snap.Correct[c.ID] {
				lp.Correct++
			}
		}
		st.CardCount += lp.CardCount
		st.AttemptedCards += lp.Attempted
		st.CorrectCards += lp.Correct
		st.Lessons = append(st.Lessons, lp)
	}
	return st
}
