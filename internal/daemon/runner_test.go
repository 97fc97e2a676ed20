package daemon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/projectsite/internal/testutil"
)

func TestRunnerFoldsConcurrentTriggers(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	build := func(context.Context) error {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return nil
	}
	_, logger := testutil.NewLogRecorder()
	r := NewRunner(build, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Trigger(context.Background(), "first")
	}()
	<-started

	// Three triggers during a running build yield one follow-up.
	for range 3 {
		r.Trigger(context.Background(), "burst")
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(2), calls.Load())
	builds, lastErr, lastDone := r.Status()
	assert.Equal(t, 2, builds)
	assert.NoError(t, lastErr)
	assert.False(t, lastDone.IsZero())
}

func TestRunnerRecordsFailures(t *testing.T) {
	logs, logger := testutil.NewLogRecorder()
	r := NewRunner(func(context.Context) error { return errors.New("disk full") }, logger)

	r.Trigger(context.Background(), "manual")

	builds, lastErr, _ := r.Status()
	assert.Equal(t, 1, builds)
	require.Error(t, lastErr)

	var failed bool
	for _, rec := range logs.Records() {
		if rec.Message == "Rebuild failed" {
			failed = true
		}
	}
	assert.True(t, failed)
}

func TestRunnerStopsFollowUpsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	var r *Runner
	r = NewRunner(func(context.Context) error {
		calls.Add(1)
		// Queue a follow-up from inside the running build, then cancel.
		go r.Trigger(ctx, "late")
		time.Sleep(20 * time.Millisecond)
		cancel()
		return nil
	}, nil)

	r.Trigger(ctx, "first")
	assert.Equal(t, int32(1), calls.Load())
}
