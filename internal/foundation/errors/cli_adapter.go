package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	if classified.Severity() == SeverityWarning {
		return 0
	}
	switch classified.Kind() {
	case KindConfig:
		return 7
	case KindSourceUnreachable:
		return 8
	case KindInternal:
		return 10
	case KindStructuralIO, KindComponent, KindManifest:
		return 11
	default:
		return 1
	}
}

// FormatError renders the error with its full cause chain and an optional help line.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", classified.Severity(), classified.Message())
	for _, cause := range classified.Chain()[1:] {
		fmt.Fprintf(&b, "\n  caused by: %s", cause)
	}
	if help := classified.Help(); help != "" {
		fmt.Fprintf(&b, "\n  help: %s", help)
	}
	if a.verbose && len(classified.Context()) > 0 {
		fmt.Fprintf(&b, "\n  context: %v", map[string]any(classified.Context()))
	}
	return b.String()
}

// HandleError reports an error and exits the process when it is fatal.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logError(err)
	fmt.Fprintln(a.out, a.FormatError(err))
	if code := a.ExitCodeFor(err); code != 0 {
		os.Exit(code)
	}
}

// logError logs an error with a level matching its severity.
func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	level := slog.LevelError
	if classified.Severity() == SeverityWarning {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, classified.Message(),
		slog.String("kind", string(classified.Kind())))
}
