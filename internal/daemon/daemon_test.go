package daemon

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/projectsite/internal/metrics"
	"git.home.luguber.info/inful/projectsite/internal/testutil"
)

func TestNewRequiresIntervalOrSchedule(t *testing.T) {
	_, err := New(func(context.Context) error { return nil }, Options{})
	require.Error(t, err)

	_, err = New(nil, Options{Interval: time.Minute})
	require.Error(t, err)
}

func TestDaemonRebuildsPeriodically(t *testing.T) {
	var calls atomic.Int32
	_, logger := testutil.NewLogRecorder()
	d, err := New(func(context.Context) error {
		calls.Add(1)
		return nil
	}, Options{Interval: 20 * time.Millisecond, Logger: logger})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestDaemonServesMetricsAndHealth(t *testing.T) {
	reg := metrics.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	_, logger := testutil.NewLogRecorder()
	d, err := New(func(context.Context) error {
		recorder.IncBuildOutcome(metrics.OutcomeSuccess)
		return nil
	}, Options{Interval: time.Hour, MetricsAddr: "127.0.0.1:0", Registry: reg, Logger: logger})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		builds, _, _ := d.Runner().Status()
		return builds == 1 && d.Addr() != ""
	}, 3*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + d.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "projectsite_build_outcomes_total")

	resp, err = http.Get("http://" + d.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, <-done)
}

func TestHealthReflectsLastBuild(t *testing.T) {
	fail := true
	d, err := New(func(context.Context) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}, Options{Interval: time.Hour})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	d.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	d.Runner().Trigger(context.Background(), "test")
	rec = httptest.NewRecorder()
	d.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")

	fail = false
	d.Runner().Trigger(context.Background(), "test")
	rec = httptest.NewRecorder()
	d.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDevRebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "README.md"), "# One")

	var calls atomic.Int32
	_, logger := testutil.NewLogRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Dev(ctx, func(context.Context) error {
			calls.Add(1)
			return os.MkdirAll(filepath.Join(root, "public"), 0o750)
		}, DevOptions{
			Roots:    []string{root},
			Exclude:  []string{filepath.Join(root, "public")},
			Debounce: 30 * time.Millisecond,
			Logger:   logger,
			Ready:    ready,
		})
	}()

	<-ready
	assert.Equal(t, int32(1), calls.Load())
	testutil.WriteFile(t, filepath.Join(root, "README.md"), "# Two")
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
