package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// BuildSummary is the folded view of one build's events.
type BuildSummary struct {
	BuildID     string
	Project     string
	Member      string
	Outcome     string // running until BuildCompleted is seen
	StartedAt   time.Time
	CompletedAt *time.Time
	Duration    time.Duration
	Pages       int
	Releases    int
	Warnings    []string
	Stages      []StageCompletedPayload
	Error       string
}

const outcomeRunning = "running"

// Summarize folds events into per-build summaries, newest start first.
func Summarize(events []Event) []*BuildSummary {
	builds := make(map[string]*BuildSummary)
	for _, e := range events {
		if e.BuildID == "" {
			continue
		}
		s, ok := builds[e.BuildID]
		if !ok {
			s = &BuildSummary{BuildID: e.BuildID, Outcome: outcomeRunning, StartedAt: e.Timestamp}
			builds[e.BuildID] = s
		}
		apply(s, e)
	}

	out := make([]*BuildSummary, 0, len(builds))
	for _, s := range builds {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].BuildID > out[j].BuildID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

func apply(s *BuildSummary, e Event) {
	switch e.Type {
	case TypeBuildStarted:
		var p BuildStartedPayload
		if json.Unmarshal(e.Payload, &p) == nil {
			s.Project = p.Project
			s.Member = p.Member
		}
		s.StartedAt = e.Timestamp
	case TypeStageCompleted:
		var p StageCompletedPayload
		if json.Unmarshal(e.Payload, &p) == nil {
			s.Stages = append(s.Stages, p)
		}
	case TypeBuildWarning:
		var p BuildWarningPayload
		if json.Unmarshal(e.Payload, &p) == nil {
			s.Warnings = append(s.Warnings, p.Message)
		}
	case TypeBuildCompleted:
		var p BuildCompletedPayload
		if json.Unmarshal(e.Payload, &p) == nil {
			s.Outcome = p.Outcome
			s.Pages = p.Pages
			s.Releases = p.Releases
			s.Error = p.Error
			s.Duration = time.Duration(p.DurationMS) * time.Millisecond
		}
		done := e.Timestamp
		s.CompletedAt = &done
	}
}

// History returns summaries of builds with events since the given time, newest
// first, at most limit entries (0 means all).
func History(ctx context.Context, store Store, since time.Time, limit int) ([]*BuildSummary, error) {
	events, err := store.GetRange(ctx, since, time.Now().Add(time.Minute))
	if err != nil {
		return nil, err
	}
	summaries := Summarize(events)
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
