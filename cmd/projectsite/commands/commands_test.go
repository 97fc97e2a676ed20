package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/projectsite/internal/config"
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/site"
	"git.home.luguber.info/inful/projectsite/internal/testutil"
)

const projectYAML = `project:
  name: widget
  infer_repository: false
`

func newGlobal(t *testing.T) (*Global, *bytes.Buffer) {
	t.Helper()
	_, logger := testutil.NewLogRecorder()
	out := &bytes.Buffer{}
	return &Global{Logger: logger, Out: out}, out
}

func writeProject(t *testing.T, dir, yaml string) string {
	t.Helper()
	testutil.WriteFile(t, filepath.Join(dir, "README.md"), "# Widget\n\nWidget makes widgets.\n")
	cfgPath := filepath.Join(dir, config.ConfigFileName)
	testutil.WriteFile(t, cfgPath, yaml)
	return cfgPath
}

func TestParseCommands(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-c", "site/projectsite.yaml", "build", "--json-only"})
	require.NoError(t, err)
	assert.Equal(t, "build", ctx.Command())
	assert.True(t, cli.Build.JSONOnly)
	assert.True(t, filepath.IsAbs(cli.Config))
	assert.Equal(t, "site", filepath.Base(cli.ProjectDir()))

	ctx, err = parser.Parse([]string{"daemon", "--interval=5m", "--metrics-addr=:9090"})
	require.NoError(t, err)
	assert.Equal(t, "daemon", ctx.Command())
	assert.Equal(t, ":9090", cli.Daemon.MetricsAddr)
	assert.Equal(t, "5m0s", cli.Daemon.Interval.String())
}

func TestInitWritesConfigOnce(t *testing.T) {
	g, out := newGlobal(t)
	path := filepath.Join(t.TempDir(), config.ConfigFileName)

	require.NoError(t, RunInit(g, path, false))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "initialized successfully")

	err := RunInit(g, path, false)
	require.Error(t, err)
	assert.True(t, errors.HasKind(err, errors.KindConfig))

	require.NoError(t, RunInit(g, path, true))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my-project", cfg.Project.Name)
}

func TestInitOutputDirectory(t *testing.T) {
	g, _ := newGlobal(t)
	dir := t.TempDir()
	cmd := &InitCmd{Output: dir}
	require.NoError(t, cmd.Run(g, &CLI{Config: filepath.Join(t.TempDir(), "ignored.yaml")}))
	assert.FileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestBuildProject(t *testing.T) {
	g, out := newGlobal(t)
	dir := t.TempDir()
	cfgPath := writeProject(t, dir, projectYAML)

	require.NoError(t, RunBuild(context.Background(), g, &CLI{Config: cfgPath}, site.Options{}))

	index, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Widget makes widgets.")
	assert.FileExists(t, filepath.Join(dir, "public", "style.css"))
	assert.Contains(t, out.String(), "widget success")
}

func TestBuildInvalidConfig(t *testing.T) {
	g, _ := newGlobal(t)
	cfgPath := writeProject(t, t.TempDir(), "project: [unclosed\n")

	err := RunBuild(context.Background(), g, &CLI{Config: cfgPath}, site.Options{})
	require.Error(t, err)
	assert.True(t, errors.HasKind(err, errors.KindConfig))
}

func TestBuildWorkspace(t *testing.T) {
	g, _ := newGlobal(t)
	root := t.TempDir()
	writeProject(t, filepath.Join(root, "alpha"), "project:\n  name: alpha\n  infer_repository: false\n")
	writeProject(t, filepath.Join(root, "beta"), "project:\n  name: beta\n  infer_repository: false\n")
	testutil.WriteFile(t, filepath.Join(root, config.WorkspaceFileName), `{
  // two local projects
  "workspace": {"name": "tools"},
  "members": [
    {"slug": "alpha", "path": "alpha"},
    {"slug": "beta", "path": "beta"}
  ]
}`)

	cli := &CLI{Config: filepath.Join(root, config.ConfigFileName)}
	require.NoError(t, RunBuild(context.Background(), g, cli, site.Options{}))

	assert.FileExists(t, filepath.Join(root, "public", "index.html"))
	assert.FileExists(t, filepath.Join(root, "public", "alpha", "index.html"))
	assert.FileExists(t, filepath.Join(root, "public", "beta", "index.html"))
}

func TestHistoryRequiresStore(t *testing.T) {
	g, _ := newGlobal(t)
	cfgPath := writeProject(t, t.TempDir(), projectYAML)

	err := (&HistoryCmd{}).Run(g, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.True(t, errors.HasKind(err, errors.KindConfig))
}

func TestHistoryListsBuilds(t *testing.T) {
	g, out := newGlobal(t)
	dir := t.TempDir()
	cfgPath := writeProject(t, dir, projectYAML+"build:\n  history_db: history.db\n")
	cli := &CLI{Config: cfgPath}

	require.NoError(t, RunBuild(context.Background(), g, cli, site.Options{}))
	require.NoError(t, RunBuild(context.Background(), g, cli, site.Options{}))
	out.Reset()

	require.NoError(t, (&HistoryCmd{Since: 24 * time.Hour, Limit: 1}).Run(g, cli))
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	assert.Contains(t, string(lines[0]), "success")
	assert.Contains(t, string(lines[0]), "widget")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("12345678-aaaa"))
}
