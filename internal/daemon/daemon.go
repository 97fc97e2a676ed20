package daemon

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Options configure the periodic rebuild daemon.
type Options struct {
	// Interval between rebuilds. Ignored when Schedule is set.
	Interval time.Duration
	// Schedule is an optional cron expression.
	Schedule string
	// MetricsAddr enables the metrics and health endpoints when non-empty.
	MetricsAddr string
	Registry    *prom.Registry
	Logger      *slog.Logger
}

// Daemon rebuilds a site periodically.
type Daemon struct {
	opts      Options
	runner    *Runner
	scheduler *Scheduler
	logger    *slog.Logger

	listener net.Listener
	server   *http.Server
}

// New prepares a daemon running build.
func New(build BuildFunc, opts Options) (*Daemon, error) {
	if build == nil {
		return nil, errors.InternalError("daemon requires a build function").Build()
	}
	if opts.Schedule == "" && opts.Interval <= 0 {
		return nil, errors.ConfigError("rebuild interval must be positive").
			WithContext("interval", opts.Interval.String()).
			WithHelp("pass --interval, e.g. --interval=15m").Build()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s, err := NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Daemon{opts: opts, runner: NewRunner(build, logger), scheduler: s, logger: logger}, nil
}

// Runner exposes the build runner, e.g. to trigger a build on demand.
func (d *Daemon) Runner() *Runner { return d.runner }

// Run builds once, then keeps rebuilding until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	if d.opts.MetricsAddr != "" {
		if err := d.listen(); err != nil {
			return err
		}
		go func() { serveErr <- d.serve() }()
	}

	d.runner.Trigger(ctx, "startup")

	task := withContext(ctx, func(ctx context.Context) { d.runner.Trigger(ctx, "schedule") })
	var err error
	if d.opts.Schedule != "" {
		_, err = d.scheduler.ScheduleCron("rebuild", d.opts.Schedule, task)
	} else {
		_, err = d.scheduler.ScheduleEvery("rebuild", d.opts.Interval, task)
	}
	if err != nil {
		d.shutdownServer()
		return err
	}
	d.scheduler.Start()
	d.logger.Info("Daemon started", slog.String("interval", d.opts.Interval.String()), slog.String("schedule", d.opts.Schedule))

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}

	d.logger.Info("Daemon stopping")
	if err := d.scheduler.Stop(); err != nil {
		d.logger.Warn("Scheduler shutdown error", logfields.Error(err))
	}
	d.shutdownServer()
	return runErr
}

func (d *Daemon) listen() error {
	ln, err := net.Listen("tcp", d.opts.MetricsAddr)
	if err != nil {
		return errors.ConfigError("failed to listen for metrics").WithCause(err).
			WithContext("addr", d.opts.MetricsAddr).Build()
	}
	d.listener = ln

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(d.opts.Registry))
	mux.HandleFunc("/healthz", d.handleHealth)
	d.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return nil
}

// Addr is the bound metrics address, or "" when metrics are disabled.
func (d *Daemon) Addr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

func (d *Daemon) serve() error {
	d.logger.Info("Serving metrics", slog.String("addr", d.Addr()))
	if err := d.server.Serve(d.listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.InternalError("metrics server failed").WithCause(err).Build()
	}
	return nil
}

func (d *Daemon) shutdownServer() {
	if d.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		d.logger.Warn("Metrics server shutdown error", logfields.Error(err))
	}
}

// handleHealth reports 503 until a build has succeeded, and while the latest one fails.
func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	builds, lastErr, _ := d.runner.Status()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	switch {
	case builds == 0:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting\n"))
	case lastErr != nil:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("last build failed: " + lastErr.Error() + "\n"))
	default:
		_, _ = w.Write([]byte("ok\n"))
	}
}
