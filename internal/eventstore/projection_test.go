package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(e Event, offset time.Duration) Event {
		e.Timestamp = t0.Add(offset)
		return e
	}

	events := []Event{
		at(NewBuildStarted("old", BuildStartedPayload{Project: "widget"}), 0),
		at(NewStageCompleted("old", StageCompletedPayload{Stage: "prepare_output", Result: "success"}), time.Second),
		at(NewBuildWarning("old", BuildWarningPayload{Kind: "source_unreachable", Message: "release source unreachable"}), 2*time.Second),
		at(NewBuildCompleted("old", BuildCompletedPayload{Outcome: "warning", DurationMS: 2500, Pages: 1, Releases: 1}), 3*time.Second),
		at(NewBuildStarted("new", BuildStartedPayload{Project: "widget", Member: "cli"}), time.Hour),
	}

	summaries := Summarize(events)
	require.Len(t, summaries, 2)

	assert.Equal(t, "new", summaries[0].BuildID)
	assert.Equal(t, "running", summaries[0].Outcome)
	assert.Equal(t, "cli", summaries[0].Member)
	assert.Nil(t, summaries[0].CompletedAt)

	old := summaries[1]
	assert.Equal(t, "warning", old.Outcome)
	assert.Equal(t, 2500*time.Millisecond, old.Duration)
	assert.Equal(t, []string{"release source unreachable"}, old.Warnings)
	require.Len(t, old.Stages, 1)
	assert.Equal(t, "prepare_output", old.Stages[0].Stage)
	require.NotNil(t, old.CompletedAt)
}

func TestHistoryLimit(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(t.Context(), NewBuildStarted(id, BuildStartedPayload{Project: "widget"})))
		time.Sleep(2 * time.Millisecond)
	}

	all, err := History(t.Context(), store, time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	latest, err := History(t.Context(), store, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "c", latest[0].BuildID)
}
