package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
	ResultSkipped ResultLabel = "skipped"
)

// OutcomeLabel is the final status of a build.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeWarning OutcomeLabel = "warning"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for builds, release fetches and manifest parsing.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome OutcomeLabel)
	ObserveSourceFetch(source string, d time.Duration, success bool)
	IncManifestOutcome(status string)
	SetReleaseCount(project string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)     {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)             {}
func (NoopRecorder) IncStageResult(string, ResultLabel)             {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)                   {}
func (NoopRecorder) ObserveSourceFetch(string, time.Duration, bool) {}
func (NoopRecorder) IncManifestOutcome(string)                      {}
func (NoopRecorder) SetReleaseCount(string, int)                    {}
