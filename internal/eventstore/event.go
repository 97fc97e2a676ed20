package eventstore

import "time"

// Event types recorded for each build.
const (
	TypeBuildStarted   = "BuildStarted"
	TypeStageCompleted = "StageCompleted"
	TypeBuildWarning   = "BuildWarning"
	TypeBuildCompleted = "BuildCompleted"
)

// Event is one stored history entry. Payload is JSON specific to Type.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}
