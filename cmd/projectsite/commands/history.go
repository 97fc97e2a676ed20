package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/eventstore"
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Since time.Duration `help:"Only show builds started within this window" default:"168h"`
	Limit int           `short:"n" help:"Maximum number of builds to show (0 for all)" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	t, err := loadTarget(root)
	if err != nil {
		return err
	}
	if t.cfg == nil || t.cfg.Build.HistoryDB == "" {
		return errors.ConfigError("build history is not enabled").
			WithHelp("set build.history_db in the project configuration").
			Build()
	}
	store, err := eventstore.NewSQLiteStore(t.cfg.Path(t.cfg.Build.HistoryDB))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.History(context.Background(), store, time.Now().Add(-h.Since), h.Limit)
	if err != nil {
		return err
	}
	out := g.out()
	if len(builds) == 0 {
		_, _ = fmt.Fprintln(out, "No builds recorded")
		return nil
	}
	for _, b := range builds {
		_, _ = fmt.Fprintln(out, formatSummary(b))
	}
	return nil
}

func formatSummary(b *eventstore.BuildSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s  %-8s", b.StartedAt.Local().Format(time.DateTime), shortID(b.BuildID), b.Outcome)
	name := b.Project
	if b.Member != "" {
		name = b.Member
	}
	fmt.Fprintf(&sb, "  %s", name)
	if b.CompletedAt != nil {
		fmt.Fprintf(&sb, "  %d pages, %d releases in %s", b.Pages, b.Releases, b.Duration)
	}
	if n := len(b.Warnings); n > 0 {
		fmt.Fprintf(&sb, "  %d warnings", n)
	}
	if b.Error != "" {
		fmt.Fprintf(&sb, "  error: %s", b.Error)
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
