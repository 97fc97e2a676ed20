package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/projectsite/internal/testutil"
)

func TestShouldIgnoreEvent(t *testing.T) {
	for name, want := range map[string]bool{
		"README.md":        false,
		"docs/intro.md":    false,
		".README.md.swp":   true,
		"notes.md~":        true,
		"#scratch#":        true,
		"projectsite.yaml": false,
		".git":             true,
	} {
		assert.Equal(t, want, shouldIgnoreEvent(name), name)
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(dist, 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o750))

	_, logger := testutil.NewLogRecorder()
	w, err := NewWatcher([]string{root}, []string{dist}, 50*time.Millisecond, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	changes := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx, func() { changes <- struct{}{} }) }()

	// Output directory writes are ignored.
	testutil.WriteFile(t, filepath.Join(dist, "index.html"), "<html></html>")
	select {
	case <-changes:
		t.Fatal("change in output directory triggered a rebuild")
	case <-time.After(200 * time.Millisecond):
	}

	for i := range 5 {
		testutil.WriteFile(t, filepath.Join(root, "docs", "intro.md"), "# Intro "+string(rune('a'+i)))
	}
	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("source change did not trigger a rebuild")
	}
	select {
	case <-changes:
		t.Fatal("burst of writes produced more than one rebuild")
	case <-time.After(200 * time.Millisecond):
	}
}
