package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SiteAssertions checks the files written into a site output directory.
type SiteAssertions struct {
	t    *testing.T
	dist string
}

// NewSiteAssertions creates assertions rooted at dist.
func NewSiteAssertions(t *testing.T, dist string) *SiteAssertions {
	return &SiteAssertions{t: t, dist: dist}
}

// HasFile fails the test when relativePath does not exist.
func (sa *SiteAssertions) HasFile(relativePath string) *SiteAssertions {
	sa.t.Helper()
	fullPath := filepath.Join(sa.dist, filepath.FromSlash(relativePath))
	if info, err := os.Stat(fullPath); err != nil || info.IsDir() {
		sa.t.Errorf("Expected file to exist: %s", relativePath)
	}
	return sa
}

// LacksPath fails the test when relativePath exists.
func (sa *SiteAssertions) LacksPath(relativePath string) *SiteAssertions {
	sa.t.Helper()
	fullPath := filepath.Join(sa.dist, filepath.FromSlash(relativePath))
	if _, err := os.Stat(fullPath); err == nil {
		sa.t.Errorf("Expected %s to not exist", relativePath)
	}
	return sa
}

// FileContains fails the test when relativePath does not contain expected.
func (sa *SiteAssertions) FileContains(relativePath, expected string) *SiteAssertions {
	sa.t.Helper()
	fullPath := filepath.Join(sa.dist, filepath.FromSlash(relativePath))

	// #nosec G304 - test helper, paths are controlled by test code
	content, err := os.ReadFile(fullPath)
	if err != nil {
		sa.t.Errorf("Failed to read %s: %v", relativePath, err)
		return sa
	}
	if !strings.Contains(string(content), expected) {
		sa.t.Errorf("Expected %s to contain %q\nActual content:\n%s", relativePath, expected, string(content))
	}
	return sa
}

// Files returns every file below dist as a slash-separated relative path.
func (sa *SiteAssertions) Files() []string {
	sa.t.Helper()
	var files []string
	err := filepath.WalkDir(sa.dist, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(sa.dist, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		sa.t.Fatalf("walk %s: %v", sa.dist, err)
	}
	return files
}

// WriteFile creates path with content, making parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
