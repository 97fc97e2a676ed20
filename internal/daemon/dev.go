package daemon

import (
	"context"
	"log/slog"
	"time"
)

// DevOptions configure the watch-and-rebuild loop.
type DevOptions struct {
	// Roots are watched recursively.
	Roots []string
	// Exclude lists output directories whose changes are ignored.
	Exclude  []string
	Debounce time.Duration
	Logger   *slog.Logger
	// Ready, when set, is closed once the initial build finished and watching started.
	Ready chan<- struct{}
}

// Dev builds once, then rebuilds on every burst of source changes until ctx ends.
func Dev(ctx context.Context, build BuildFunc, opts DevOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := NewRunner(build, logger)
	runner.Trigger(ctx, "startup")

	w, err := NewWatcher(opts.Roots, opts.Exclude, opts.Debounce, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-changes:
				runner.Trigger(loopCtx, "change")
			}
		}
	}()

	logger.Info("Watching for changes", slog.Any("paths", opts.Roots))
	if opts.Ready != nil {
		close(opts.Ready)
	}
	err = w.Run(ctx, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	cancel()
	<-done
	return err
}
