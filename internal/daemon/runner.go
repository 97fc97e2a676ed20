package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

// BuildFunc performs one complete site build.
type BuildFunc func(ctx context.Context) error

// Runner serializes builds. A trigger that arrives while a build runs is folded
// into exactly one follow-up build.
type Runner struct {
	build  BuildFunc
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	pending bool

	lastErr  error
	lastDone time.Time
	builds   int
}

// NewRunner returns a Runner executing build.
func NewRunner(build BuildFunc, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{build: build, logger: logger}
}

// Trigger runs a build now, or schedules one follow-up if a build is in progress.
// It returns after the build it started, including any follow-ups, has finished.
func (r *Runner) Trigger(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	r.mu.Lock()
	if r.running {
		r.pending = true
		r.mu.Unlock()
		r.logger.Debug("Build in progress, queued follow-up", slog.String("reason", reason))
		return
	}
	r.running = true
	r.mu.Unlock()

	for {
		r.runOnce(ctx, reason)

		r.mu.Lock()
		if !r.pending || ctx.Err() != nil {
			r.running = false
			r.pending = false
			r.mu.Unlock()
			return
		}
		r.pending = false
		r.mu.Unlock()
		reason = "follow-up"
	}
}

func (r *Runner) runOnce(ctx context.Context, reason string) {
	start := time.Now()
	r.logger.Info("Rebuilding site", slog.String("reason", reason))
	err := r.build(ctx)

	r.mu.Lock()
	r.lastErr = err
	r.lastDone = time.Now()
	r.builds++
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("Rebuild failed", logfields.Error(err), logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		return
	}
	r.logger.Info("Rebuild finished", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// Status reports the number of completed builds and the last result.
func (r *Runner) Status() (builds int, lastErr error, lastDone time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builds, r.lastErr, r.lastDone
}
