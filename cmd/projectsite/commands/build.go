package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/projectsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	JSONOnly bool `name:"json-only" help:"Only write artifacts.json"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunBuild(ctx, g, root, site.Options{JSONOnly: b.JSONOnly})
}

// RunBuild builds the project or workspace configured by root once.
func RunBuild(ctx context.Context, g *Global, root *CLI, opts site.Options) error {
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
	return buildFunc(g, builder, t, opts)(ctx)
}
