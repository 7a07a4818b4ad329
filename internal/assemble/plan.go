package assemble

import "strings"

// StageMarkerPrefix precedes each stage name in the rendered script.
// The emitter's round-trip parsing and the customization merge both key
// off this prefix.
const StageMarkerPrefix = "# stage: "

// StatementBlock is one rendered stage of the script, owned by exactly
// one component.
type StatementBlock struct {
	Stage Stage
	Owner string
	Lines []string
}

// Text returns the block body without its stage marker.
func (b StatementBlock) Text() string {
	return strings.Join(b.Lines, "\n")
}

// ScriptPlan is the ordered sequence of statement blocks plus the
// import preamble they need. Rendering the same plan always produces
// identical bytes: nothing in it is time- or identity-dependent.
type ScriptPlan struct {
	Imports []string
	Blocks  []StatementBlock
}

// Stages returns the stage names in plan order.
func (p *ScriptPlan) Stages() []Stage {
	stages := make([]Stage, len(p.Blocks))
	for i, b := range p.Blocks {
		stages[i] = b.Stage
	}
	return stages
}

// Block returns the block for a stage, if the plan carries it.
func (p *ScriptPlan) Block(stage Stage) (StatementBlock, bool) {
	for _, b := range p.Blocks {
		if b.Stage == stage {
			return b, true
		}
	}
	return StatementBlock{}, false
}

// Render serializes the plan as an executable Python script: import
// preamble first, then each block under its stage marker.
func (p *ScriptPlan) Render() string {
	var sb strings.Builder

	for _, imp := range p.Imports {
		sb.WriteString(imp)
		sb.WriteByte('\n')
	}

	for _, block := range p.Blocks {
		sb.WriteByte('\n')
		sb.WriteString(StageMarkerPrefix)
		sb.WriteString(string(block.Stage))
		sb.WriteByte('\n')
		sb.WriteString(block.Text())
		sb.WriteByte('\n')
	}

	return sb.String()
}
