package normalization

import (
	"reflect"
	"testing"
)

type sourceKind string

const (
	sourceGitHub sourceKind = "github"
	sourceHosted sourceKind = "hosted"
)

func newSourceNormalizer() *Normalizer[sourceKind] {
	return NewNormalizer(map[string]sourceKind{
		"github": sourceGitHub,
		"hosted": sourceHosted,
	}, sourceGitHub)
}

func TestNormalizer_Basic(t *testing.T) {
	n := newSourceNormalizer()

	tests := []struct {
		name     string
		input    string
		expected sourceKind
	}{
		{"exact match", "hosted", sourceHosted},
		{"case insensitive", "GitHub", sourceGitHub},
		{"with spaces", "  hosted  ", sourceHosted},
		{"invalid input", "gitlab", sourceGitHub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	n := newSourceNormalizer()

	if got, err := n.NormalizeWithError(""); err != nil || got != sourceGitHub {
		t.Fatalf("empty input should yield default, got %v %v", got, err)
	}
	if got, err := n.NormalizeWithError("HOSTED"); err != nil || got != sourceHosted {
		t.Fatalf("expected hosted, got %v %v", got, err)
	}
	if _, err := n.NormalizeWithError("gitlab"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestValidKeys(t *testing.T) {
	n := newSourceNormalizer()
	if got := n.ValidKeys(); !reflect.DeepEqual(got, []string{"github", "hosted"}) {
		t.Fatalf("unexpected keys %v", got)
	}
}
