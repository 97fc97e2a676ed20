package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/daemon"
	"git.home.luguber.info/inful/projectsite/internal/metrics"
	"git.home.luguber.info/inful/projectsite/internal/site"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Interval    time.Duration `help:"Rebuild interval" default:"15m"`
	Schedule    string        `help:"Cron expression overriding --interval"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve /metrics and /healthz on this address"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t, err := loadTarget(root)
	if err != nil {
		return err
	}
	applyLogging(g, root, t)

	reg := metrics.NewRegistry()
	builder, closeFn, err := newBuilder(g, t, metrics.NewPrometheusRecorder(reg))
	if err != nil {
		return err
	}
	defer closeFn()

	dmn, err := daemon.New(buildFunc(g, builder, t, site.Options{}), daemon.Options{
		Interval:    d.Interval,
		Schedule:    d.Schedule,
		MetricsAddr: d.MetricsAddr,
		Registry:    reg,
		Logger:      g.logger(),
	})
	if err != nil {
		return err
	}
	g.logger().Info("Starting daemon", "project", t.name(), "interval", d.Interval, "schedule", d.Schedule)
	return dmn.Run(ctx)
}
