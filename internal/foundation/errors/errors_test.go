package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(KindConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "projectsite.yaml").
			Build()

		if err.Kind() != KindConfig {
			t.Errorf("expected kind %s, got %s", KindConfig, err.Kind())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "projectsite.yaml" {
			t.Errorf("expected context file=projectsite.yaml, got %v", file)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := SourceUnreachableError("failed fetching releases").Build()
		wrapped := fmt.Errorf("build context: %w", inner)

		if !HasKind(wrapped, KindSourceUnreachable) {
			t.Error("expected wrapped error to keep its kind")
		}
		if !IsWarning(wrapped) {
			t.Error("expected wrapped error to be a warning")
		}
		if GetSeverity(errors.New("plain")) != SeverityFatal {
			t.Error("expected unclassified errors to be fatal")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("connection refused")
		err := WrapError(originalErr, KindSourceUnreachable, "failed fetching releases").
			Warning().
			WithContext("repository", "acme/widget").
			Build()

		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		repo, _ := err.Context().GetString("repository")
		if repo != "acme/widget" {
			t.Errorf("expected repository context 'acme/widget', got %s", repo)
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			kind     ErrorKind
			severity Severity
		}{
			{"StructuralIOError", StructuralIOError("test"), KindStructuralIO, SeverityFatal},
			{"SourceUnreachableError", SourceUnreachableError("test"), KindSourceUnreachable, SeverityWarning},
			{"ManifestError", ManifestError("test"), KindManifest, SeverityWarning},
			{"ConfigError", ConfigError("test"), KindConfig, SeverityFatal},
			{"ComponentError", ComponentError("test"), KindComponent, SeverityWarning},
			{"InternalError", InternalError("test"), KindInternal, SeverityFatal},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Kind() != tt.kind {
					t.Errorf("expected kind %s, got %s", tt.kind, err.Kind())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
			})
		}
	})
}

func TestSentinelWithCause(t *testing.T) {
	sentinel := SourceUnreachableError("failed fetching releases").Build()
	cause := errors.New("503 Service Unavailable")

	err := sentinel.WithCause(cause).WithContext("repository", "acme/widget")

	if !errors.Is(err, sentinel) {
		t.Error("expected copy to match the sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("expected copy to wrap the cause")
	}
	if sentinel.Cause() != nil {
		t.Error("sentinel must not be mutated")
	}
}

func TestChain(t *testing.T) {
	root := errors.New("permission denied")
	mid := fmt.Errorf("mkdir dist: %w", root)
	err := StructuralIOError("failed to create output directory").WithCause(mid).Build()

	chain := err.Chain()
	want := []string{"failed to create output directory", "mkdir dist", "permission denied"}
	if len(chain) != len(want) {
		t.Fatalf("expected chain %v, got %v", want, chain)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i], want[i])
		}
	}
}

func TestErrorContext(t *testing.T) {
	ctx1 := make(ErrorContext)
	ctx1 = ctx1.Set("key1", "value1")
	ctx1 = ctx1.Set("shared", "original")

	ctx2 := make(ErrorContext)
	ctx2 = ctx2.Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	value1, _ := merged.GetString("key1")
	shared, _ := merged.GetString("shared")
	if value1 != "value1" {
		t.Errorf("expected key1=value1, got %s", value1)
	}
	if shared != "overridden" {
		t.Errorf("expected shared=overridden, got %s", shared)
	}
	if _, ok := merged.Get("missing"); ok {
		t.Error("expected missing key to not exist")
	}
}
