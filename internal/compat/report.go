// Package compat decides whether a selected component combination is
// legal. Compatibility is capability-tag matching over the catalog plus
// structural invariants on the configuration itself; every violation is
// collected before reporting so one correction round fixes everything.
package compat

import (
	"fmt"
	"strings"
)

// ConflictReason records one unmet component requirement: either a
// required capability missing from the union of provided capabilities,
// or a catalog constraint rule that evaluated false.
type ConflictReason struct {
	Component string `json:"component" yaml:"component"`
	Missing   string `json:"missing,omitempty" yaml:"missing,omitempty"`
	Detail    string `json:"detail" yaml:"detail"`
}

func (c ConflictReason) String() string {
	return fmt.Sprintf("%s: %s", c.Component, c.Detail)
}

// StructuralViolation records a malformed configuration field,
// independent of which components were selected.
type StructuralViolation struct {
	Field  string `json:"field" yaml:"field"`
	Detail string `json:"detail" yaml:"detail"`
}

func (v StructuralViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Detail)
}

// Report is the outcome of one validation pass. A nil-problem report is
// the Valid case; anything else carries the full set of reasons in
// deterministic order.
type Report struct {
	Structural []StructuralViolation `json:"structural,omitempty" yaml:"structural,omitempty"`
	Conflicts  []ConflictReason      `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// Valid reports whether the configuration passed every check.
func (r *Report) Valid() bool {
	return len(r.Structural) == 0 && len(r.Conflicts) == 0
}

// Messages returns every problem as a printable line, structural
// violations first, in the order they were found.
func (r *Report) Messages() []string {
	msgs := make([]string, 0, len(r.Structural)+len(r.Conflicts))
	for _, v := range r.Structural {
		msgs = append(msgs, v.String())
	}
	for _, c := range r.Conflicts {
		msgs = append(msgs, c.String())
	}
	return msgs
}

// Err returns nil for a valid report, otherwise a ValidationError
// wrapping it.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Report: r}
}

// ValidationError is the error form of an invalid Report.
type ValidationError struct {
	Report *Report
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s",
		strings.Join(e.Report.Messages(), "\n  - "))
}
