// Package emit writes assembled script plans to disk.
package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wfngen-dev/wfngen/internal/assemble"
)

// DestinationUnwritableError indicates the target script could not be
// created or replaced. Nothing is left behind: writes go to a temp file
// that is renamed only on success.
type DestinationUnwritableError struct {
	Path string
	Err  error
}

func (e *DestinationUnwritableError) Error() string {
	return fmt.Sprintf("destination unwritable: %s: %v", e.Path, e.Err)
}

func (e *DestinationUnwritableError) Unwrap() error { return e.Err }

// Emit renders the plan and writes it to dest atomically.
func Emit(plan *assemble.ScriptPlan, dest string) error {
	return writeAtomic(dest, []byte(plan.Render()))
}

// EmitWithTemplate merges the plan into a user customization template
// before writing. The template's insertion markers claim blocks by
// stage; see Merge for the rules.
func EmitWithTemplate(plan *assemble.ScriptPlan, dest, customTemplate string) error {
	return writeAtomic(dest, []byte(Merge(plan, customTemplate)))
}

// WriteFileAtomic writes arbitrary content with the same temp-and-rename
// discipline used for scripts. Configuration files written by the CLI go
// through here.
func WriteFileAtomic(dest string, content []byte) error {
	return writeAtomic(dest, content)
}

// writeAtomic writes content through a temp file in the destination
// directory and renames it into place, so a failed write never leaves a
// partial script.
func writeAtomic(dest string, content []byte) error {
	dir := filepath.Dir(dest)

	tmp, err := os.CreateTemp(dir, ".wfngen-*.tmp")
	if err != nil {
		return &DestinationUnwritableError{Path: dest, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		// No-ops once the rename has succeeded.
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return &DestinationUnwritableError{Path: dest, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &DestinationUnwritableError{Path: dest, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &DestinationUnwritableError{Path: dest, Err: err}
	}

	// CreateTemp defaults to 0600; scripts should be world-readable.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &DestinationUnwritableError{Path: dest, Err: err}
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return &DestinationUnwritableError{Path: dest, Err: err}
	}
	return nil
}
