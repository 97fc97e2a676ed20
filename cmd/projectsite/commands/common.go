package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/projectsite/internal/config"
	"git.home.luguber.info/inful/projectsite/internal/eventstore"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/metrics"
	"git.home.luguber.info/inful/projectsite/internal/site"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Project configuration file; its directory is the project root" default:"projectsite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the project site (or every workspace member)"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Dev     DevCmd     `cmd:"" help:"Build, then rebuild whenever project files change"`
	Daemon  DaemonCmd  `cmd:"" help:"Rebuild periodically and expose metrics"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once. The config file's
// logging section is applied later, once the configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.LoggingConfig{}.NewLogger(c.Verbose))
	return nil
}

// ProjectDir is the directory holding the configuration file.
func (c *CLI) ProjectDir() string {
	return filepath.Dir(c.Config)
}

// target is either a single project or a workspace.
type target struct {
	cfg *config.Config
	ws  *config.Workspace
}

// root is the directory watched in dev mode.
func (t *target) root() string {
	if t.ws != nil {
		return t.ws.Root
	}
	return t.cfg.Root
}

// outputs are the directories written by a build.
func (t *target) outputs() []string {
	if t.ws != nil {
		return []string{t.ws.DistPath()}
	}
	return []string{t.cfg.DistPath()}
}

func (t *target) name() string {
	if t.ws != nil {
		return t.ws.Settings.Name
	}
	return t.cfg.Project.Name
}

// loadTarget prefers a workspace descriptor next to the configuration file.
func loadTarget(root *CLI) (*target, error) {
	ws, err := config.FindWorkspace(root.ProjectDir())
	if err != nil {
		return nil, err
	}
	if ws != nil {
		return &target{ws: ws}, nil
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	return &target{cfg: cfg}, nil
}

// applyLogging replaces the bootstrap logger with the configured one.
func applyLogging(g *Global, root *CLI, t *target) {
	if t.cfg == nil {
		return
	}
	logger := t.cfg.Logging.NewLogger(root.Verbose)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
}

// newBuilder wires the builder with history and metrics. The returned close
// function releases the history store.
func newBuilder(g *Global, t *target, recorder metrics.Recorder) (*site.Builder, func(), error) {
	b := site.NewBuilder(g.logger())
	if recorder != nil {
		b.Recorder = recorder
	}
	closeFn := func() {}
	if t.cfg != nil && t.cfg.Build.HistoryDB != "" {
		store, err := eventstore.NewSQLiteStore(t.cfg.Path(t.cfg.Build.HistoryDB))
		if err != nil {
			return nil, nil, err
		}
		b.History = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				g.logger().Warn("Failed to close build history", logfields.Error(err))
			}
		}
	}
	return b, closeFn, nil
}

// buildFunc returns the build invoked once by 'build' and repeatedly by 'dev'
// and 'daemon'.
func buildFunc(g *Global, b *site.Builder, t *target, opts site.Options) func(context.Context) error {
	return func(ctx context.Context) error {
		if t.ws != nil {
			res, err := b.BuildWorkspace(ctx, t.ws, opts)
			if res != nil {
				for _, s := range res.Sites {
					printReport(g.out(), s.Report)
				}
			}
			return err
		}
		s, err := b.Build(ctx, t.cfg, nil, opts)
		if s != nil {
			printReport(g.out(), s.Report)
		}
		return err
	}
}

func printReport(w io.Writer, r *site.Report) {
	if r == nil {
		return
	}
	name := r.Project
	if r.Member != "" {
		name = r.Member
	}
	_, _ = fmt.Fprintf(w, "%s %s in %s\n", name, r.Summary(), r.Duration().Round(time.Millisecond))
	for _, issue := range r.Warnings {
		_, _ = fmt.Fprintf(w, "  warning [%s]: %v\n", issue.Stage, issue.Err)
	}
}
