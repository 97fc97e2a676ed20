package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/daemon"
	"git.home.luguber.info/inful/projectsite/internal/site"
)

// DevCmd implements the 'dev' command.
type DevCmd struct {
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
	Watch    []string      `help:"Additional directories to watch"`
}

func (d *DevCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := loadTarget(root)
	if err != nil {
		return err
	}
	applyLogging(g, root, t)

	builder, closeFn, err := newBuilder(g, t, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	g.logger().Info("Watching for changes", "root", t.root(), "debounce", d.Debounce)
	return daemon.Dev(ctx, buildFunc(g, builder, t, site.Options{}), daemon.DevOptions{
		Roots:    append([]string{t.root()}, d.Watch...),
		Exclude:  t.outputs(),
		Debounce: d.Debounce,
		Logger:   g.logger(),
	})
}
