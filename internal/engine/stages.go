package engine

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/plugin"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names.
const (
	StageDiscover     StageName = "discover"
	StageRender       StageName = "render"
	StageApply        StageName = "apply"
	StagePreEmission  StageName = StageName(plugin.PreEmission)
	StageEmit         StageName = "emit"
	StagePostEmission StageName = StageName(plugin.PostEmission)
)

// StageError records which stage aborted a run.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// run is the state threaded through the stages of one invocation.
type run struct {
	bc        *plugin.BuildContext
	documents []docs.Document
	emitted   []string
}

// Stage is a discrete unit of pipeline work.
type Stage func(ctx context.Context, r *run) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 6)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// Build returns a copy of the stage definitions slice.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}

// runStages executes stages in order, recording timing and stopping on the
// first error. A started stage always runs to completion; cancellation is
// only observed between stages.
func (e *Engine) runStages(ctx context.Context, r *run, stages []StageDef) error {
	for _, st := range stages {
		name := string(st.Name)
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: st.Name, Err: err}
		}

		e.logger.Debug("Stage started", logfields.Stage(name))
		t0 := time.Now()
		err := st.Fn(ctx, r)
		e.recorder.ObserveStageDuration(name, time.Since(t0))

		if err != nil {
			e.recorder.IncStageResult(name, metrics.ResultFailed)
			e.logger.Debug("Stage failed", logfields.Stage(name), logfields.Error(err))
			return &StageError{Stage: st.Name, Err: err}
		}
		e.recorder.IncStageResult(name, metrics.ResultSuccess)
		e.logger.Debug("Stage finished", logfields.Stage(name), logfields.Since(t0))
	}
	return nil
}
