package site

import (
	"context"
	stderrors "errors"
)

// StageName identifies a build stage.
type StageName string

// Canonical stage names, in pipeline order.
const (
	StagePrepareOutput   StageName = "prepare_output"
	StageBuildContext    StageName = "build_context"
	StageArtifacts       StageName = "artifacts"
	StageChangelog       StageName = "changelog"
	StageFunding         StageName = "funding"
	StageAdditionalPages StageName = "additional_pages"
	StageIndex           StageName = "index"
	StageWritePages      StageName = "write_pages"
	StageBook            StageName = "book"
	StageAssets          StageName = "assets"
)

// errStageSkipped is returned by a stage whose preconditions are not met at run time.
var errStageSkipped = stderrors.New("stage skipped")

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its function. Isolated stages never abort the
// build unless they fail with a structural I/O error.
type StageDef struct {
	Name     StageName
	Fn       Stage
	Isolated bool
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 10)} }

// Add appends a stage whose failure aborts the build.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// AddComponent appends a fault-isolated stage.
func (p *Pipeline) AddComponent(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn, Isolated: true})
	return p
}

// AddComponentIf appends a fault-isolated stage only if cond is true.
func (p *Pipeline) AddComponentIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.AddComponent(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}
