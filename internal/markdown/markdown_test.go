package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render([]byte("# Widget\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n- [x] done\n"))
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="widget">Widget</h1>`)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `type="checkbox"`)
}

func TestTitle(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "Widget cli", r.Title([]byte("intro\n\n## Sub\n\n# Widget `cli`\n")))
	assert.Empty(t, r.Title([]byte("no heading here")))
}

func TestSummary(t *testing.T) {
	fragment := `<h1>Widget</h1><p>  </p><p>A <strong>fast</strong>
	tool for things.</p><p>second</p>`
	assert.Equal(t, "A fast tool for things.", Summary(fragment, 0))
	assert.Equal(t, "A fast…", Summary(fragment, 7))
	assert.Empty(t, Summary("<h1>only heading</h1>", 0))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Fixed a bug in parser", PlainText("<ul><li>Fixed a <em>bug</em></li><li>in parser</li></ul>"))
}
