package catalog

import (
	"fmt"
	"strings"
)

// DuplicateModuleIDError reports two content records claiming the same module id.
type DuplicateModuleIDError struct {
	ModuleID string
}

func (e *DuplicateModuleIDError) Error() string {
	return fmt.Sprintf("duplicate module id %q", e.ModuleID)
}

// MissingFieldError reports a record without a required identifier or text.
type MissingFieldError struct {
	Where string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Where, e.Field)
}

// EmptyAnswersError reports a card with no usable accepted answer.
type EmptyAnswersError struct {
	CardID string
}

func (e *EmptyAnswersError) Error() string {
	return fmt.Sprintf("card %q has no valid answers", e.CardID)
}

// UnknownPrerequisiteError reports a prerequisite that names no module.
type UnknownPrerequisiteError struct {
	ModuleID     string
	Prerequisite string
}

func (e *UnknownPrerequisiteError) Error() string {
	return fmt.Sprintf("module %q has unknown prerequisite %q", e.ModuleID, e.Prerequisite)
}

// DuplicateCardIDError reports a card id used more than once.
type DuplicateCardIDError struct {
	CardID  string
	Modules []string
}

func (e *DuplicateCardIDError) Error() string {
	return fmt.Sprintf("duplicate card id %q (in %s)", e.CardID, strings.Join(e.Modules, ", "))
}

// CyclicDependencyError reports a prerequisite cycle. Path starts and ends
// with the same module.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("circular module dependency: %s", strings.Join(e.Path, " -> "))
}

// UnownedOverlapError reports modules reusing another module's command
// without testing new flags and without a contextual allowance.
type UnownedOverlapError struct {
	Command string
	Home    string
	Modules []string
}

func (e *UnownedOverlapError) Error() string {
	if e.Home == "" {
		return fmt.Sprintf("command %q has no home among %s", e.Command, strings.Join(e.Modules, ", "))
	}
	return fmt.Sprintf("command %q (home %q) overlaps in %s without new flags or contextual allowance",
		e.Command, e.Home, strings.Join(e.Modules, ", "))
}

// MissingHomePrerequisiteError reports a module using a command owned by a
// module it does not directly depend on.
type MissingHomePrerequisiteError struct {
	ModuleID     string
	Command      string
	RequiredHome string
}

func (e *MissingHomePrerequisiteError) Error() string {
	return fmt.Sprintf("module %q uses %q and must list its home %q as a direct prerequisite",
		e.ModuleID, e.Command, e.RequiredHome)
}

// ContentError aggregates every problem found in one validation pass.
type ContentError struct {
	Problems []error
}

func (e *ContentError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("content validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ContentError) Unwrap() []error { return e.Problems }
