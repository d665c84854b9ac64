package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r *Renderer, src string) Result {
	t.Helper()
	res, err := r.Render([]byte(src))
	require.NoError(t, err)
	return res
}

func TestRenderHeadingGetsID(t *testing.T) {
	res := render(t, NewRenderer(""), "# Hello World")
	assert.Contains(t, res.HTML, `<h1 id="hello-world">Hello World</h1>`)
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
	}
	r := NewRenderer("")
	for _, tt := range tests {
		res := render(t, r, tt.input)
		assert.Contains(t, res.HTML, tt.expected, "input %q", tt.input)
	}
}

func TestRenderTypographer(t *testing.T) {
	res := render(t, NewRenderer(""), `"quoted" -- text...`)
	assert.Contains(t, res.HTML, "&ldquo;quoted&rdquo;")
	assert.Contains(t, res.HTML, "&ndash;")
	assert.Contains(t, res.HTML, "&hellip;")
}

func TestRenderTable(t *testing.T) {
	res := render(t, NewRenderer(""), "| a | b |\n|---|---|\n| 1 | 2 |\n")
	assert.Contains(t, res.HTML, "<table>")
	assert.Contains(t, res.HTML, "<th>a</th>")
	assert.Contains(t, res.HTML, "<td>2</td>")
}

func TestRenderRawHTMLIsKept(t *testing.T) {
	res := render(t, NewRenderer(""), "<iframe src=\"https://www.youtube.com/embed/x\"></iframe>\n")
	assert.Contains(t, res.HTML, "<iframe")
}

func TestExternalLinksOpenInNewTab(t *testing.T) {
	r := NewRenderer("https://example.com")

	res := render(t, r, "[other](https://other.org/page)")
	assert.Contains(t, res.HTML, `target="_blank"`)
	assert.Contains(t, res.HTML, `rel="nofollow noopener noreferrer"`)

	res = render(t, r, "[own](https://example.com/posts/a/)")
	assert.NotContains(t, res.HTML, "_blank")

	res = render(t, r, "[relative](/pages/about/)")
	assert.NotContains(t, res.HTML, "_blank")
}

func TestRenderCollectsLocalImages(t *testing.T) {
	src := strings.Join([]string{
		"![a](/media/a.png)",
		"![b](https://cdn.example.org/b.png)",
		"![a again](/media/a.png)",
		"![c](images/c.jpg)",
	}, "\n\n")
	res := render(t, NewRenderer(""), src)
	assert.Equal(t, []string{"/media/a.png", "images/c.jpg"}, res.Images)
}
