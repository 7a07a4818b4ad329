package emit

import (
	"strings"

	"github.com/wfngen-dev/wfngen/internal/assemble"
)

// Insertion markers a customization template may carry, each on its own
// line: "## wfngen:<stage>" claims that stage's block, "## wfngen:imports"
// claims the import preamble, and "## wfngen:rest" claims everything no
// other marker asked for. Unrecognized markers are the user's own
// content and are left untouched.
const markerPrefix = "## wfngen:"

const (
	markerImports = "imports"
	markerRest    = "rest"
)

// Merge splices the plan's blocks into a customization template.
// Claimed blocks replace their markers in place; unclaimed blocks are
// appended at the rest marker, or at the end of the template when no
// rest marker exists. Blocks keep their stage markers so a merged
// script still round-trips through ParseStageMarkers.
func Merge(plan *assemble.ScriptPlan, customTemplate string) string {
	lines := strings.Split(customTemplate, "\n")
	out := make([]string, 0, len(lines))

	claimed := make(map[assemble.Stage]bool)
	importsClaimed := false
	restAt := -1

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, markerPrefix) {
			out = append(out, line)
			continue
		}

		name := strings.TrimSpace(strings.TrimPrefix(trimmed, markerPrefix))
		switch name {
		case markerImports:
			importsClaimed = true
			out = append(out, plan.Imports...)
		case markerRest:
			if restAt == -1 {
				restAt = len(out)
				// Placeholder line, replaced below.
				out = append(out, "")
			} else {
				// Only the first rest marker claims anything.
				out = append(out, line)
			}
		default:
			block, ok := plan.Block(assemble.Stage(name))
			if !ok {
				// Marker for a stage the plan does not carry; the
				// user's line stays as-is.
				out = append(out, line)
				continue
			}
			claimed[block.Stage] = true
			out = append(out, assemble.StageMarkerPrefix+name, block.Text())
		}
	}

	rest := renderUnclaimed(plan, claimed, importsClaimed)

	var result string
	switch {
	case restAt >= 0:
		out[restAt] = rest
		result = strings.Join(out, "\n")
	case rest != "":
		result = strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n\n" + rest
	default:
		result = strings.Join(out, "\n")
	}

	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

// renderUnclaimed renders, in stage order, everything no marker claimed.
func renderUnclaimed(plan *assemble.ScriptPlan, claimed map[assemble.Stage]bool, importsClaimed bool) string {
	var parts []string
	if !importsClaimed {
		parts = append(parts, strings.Join(plan.Imports, "\n"))
	}
	for _, block := range plan.Blocks {
		if claimed[block.Stage] {
			continue
		}
		parts = append(parts, assemble.StageMarkerPrefix+string(block.Stage)+"\n"+block.Text())
	}
	return strings.Join(parts, "\n\n")
}

// ParseStageMarkers recovers the stage ordering from an emitted script.
// Emitting a plan and parsing the result yields exactly plan.Stages().
func ParseStageMarkers(script string) []assemble.Stage {
	var stages []assemble.Stage
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(trimmed, assemble.StageMarkerPrefix); ok {
			stages = append(stages, assemble.Stage(strings.TrimSpace(name)))
		}
	}
	return stages
}
