package eventstore

import (
	"encoding/json"
	"time"
)

// BuildStartedPayload describes what a build intends to produce.
type BuildStartedPayload struct {
	Project string   `json:"project"`
	Member  string   `json:"member,omitempty"`
	Planned []string `json:"planned,omitempty"`
}

// StageCompletedPayload records one pipeline stage result.
type StageCompletedPayload struct {
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// BuildWarningPayload records a degraded part of a build.
type BuildWarningPayload struct {
	Stage   string `json:"stage,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BuildCompletedPayload records the final outcome.
type BuildCompletedPayload struct {
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
	Pages      int    `json:"pages"`
	Releases   int    `json:"releases"`
	Error      string `json:"error,omitempty"`
}

func newEvent(buildID, eventType string, payload any) Event {
	// Payload structs contain only strings and numbers, so marshaling cannot fail.
	data, _ := json.Marshal(payload)
	return Event{BuildID: buildID, Type: eventType, Timestamp: time.Now(), Payload: data}
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, p BuildStartedPayload) Event {
	return newEvent(buildID, TypeBuildStarted, p)
}

// NewStageCompleted creates a StageCompleted event.
func NewStageCompleted(buildID string, p StageCompletedPayload) Event {
	return newEvent(buildID, TypeStageCompleted, p)
}

// NewBuildWarning creates a BuildWarning event.
func NewBuildWarning(buildID string, p BuildWarningPayload) Event {
	return newEvent(buildID, TypeBuildWarning, p)
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, p BuildCompletedPayload) Event {
	return newEvent(buildID, TypeBuildCompleted, p)
}
