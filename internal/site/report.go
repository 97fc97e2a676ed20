package site

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/metrics"
)

// StageResult is the outcome of one stage.
type StageResult string

const (
	StageResultSuccess StageResult = "success"
	StageResultWarning StageResult = "warning"
	StageResultFatal   StageResult = "fatal"
	StageResultSkipped StageResult = "skipped"
)

// Outcome is the final status of a build.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// StageReport records one executed stage.
type StageReport struct {
	Name     StageName
	Result   StageResult
	Duration time.Duration
	Err      error
}

// Issue is a warning raised during a stage.
type Issue struct {
	Stage StageName
	Err   error
}

// Report describes one project build.
type Report struct {
	BuildID  string
	Project  string
	Member   string
	Start    time.Time
	End      time.Time
	Stages   []StageReport
	Warnings []Issue
	Err      error
	Outcome  Outcome
	Pages    int
	Releases int
}

func newReport(buildID, project, member string) *Report {
	return &Report{BuildID: buildID, Project: project, Member: member, Start: time.Now()}
}

// Stage returns the report of the named stage, or nil when it did not run.
func (r *Report) Stage(name StageName) *StageReport {
	for i := range r.Stages {
		if r.Stages[i].Name == name {
			return &r.Stages[i]
		}
	}
	return nil
}

func (r *Report) recordStage(sr StageReport, recorder metrics.Recorder) {
	r.Stages = append(r.Stages, sr)
	switch sr.Result {
	case StageResultWarning:
		if sr.Err != nil {
			r.Warnings = append(r.Warnings, Issue{Stage: sr.Name, Err: sr.Err})
		}
	case StageResultFatal:
		r.Err = sr.Err
	}
	recorder.ObserveStageDuration(string(sr.Name), sr.Duration)
	recorder.IncStageResult(string(sr.Name), metrics.ResultLabel(sr.Result))
}

// addWarning records a warning that did not change a stage result.
func (r *Report) addWarning(stage StageName, err error) {
	r.Warnings = append(r.Warnings, Issue{Stage: stage, Err: err})
}

// finish stamps the end time and derives the outcome.
func (r *Report) finish() {
	r.End = time.Now()
	switch {
	case r.Err != nil:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Summary renders a one-line description of the build.
func (r *Report) Summary() string {
	var parts []string
	for _, s := range r.Stages {
		if s.Result != StageResultSuccess {
			parts = append(parts, fmt.Sprintf("%s=%s", s.Name, s.Result))
		}
	}
	detail := ""
	if len(parts) > 0 {
		detail = " (" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("%s: %d pages, %d releases, %d warnings%s", r.Outcome, r.Pages, r.Releases, len(r.Warnings), detail)
}
