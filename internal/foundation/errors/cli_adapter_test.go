package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "config error", err: ConfigError("bad repository url").Build(), expected: 7},
		{name: "structural io", err: StructuralIOError("cannot create dist").Build(), expected: 11},
		{name: "warning never fails the process", err: SourceUnreachableError("offline").Build(), expected: 0},
		{name: "fatal source error", err: SourceUnreachableError("offline").Fatal().Build(), expected: 8},
		{name: "wrapped internal", err: fmt.Errorf("ctx: %w", InternalError("bug").Build()), expected: 10},
		{name: "unclassified error", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	err := ConfigError("invalid PROJECTSITE_CSS override").
		WithCause(errors.New("stat /nope.css: no such file or directory")).
		WithHelp("point PROJECTSITE_CSS at an existing css file").
		Build()

	out := adapter.FormatError(err)
	for _, want := range []string{
		"fatal: invalid PROJECTSITE_CSS override",
		"caused by: stat /nope.css: no such file or directory",
		"help: point PROJECTSITE_CSS at an existing css file",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	if got := adapter.FormatError(errors.New("boom")); got != "Error: boom" {
		t.Errorf("unexpected unclassified format: %q", got)
	}
}
