package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PrefersMainAndDropsChrome(t *testing.T) {
	page := `<html><head><script>var x;</script></head><body>
<nav><a href="/">Home</a></nav>
<div class="sidebar-wrapper"><a href="#a">A</a></div>
<main><h1>Guide<a class="headerlink" href="#guide">¶</a></h1><p>Body text</p></main>
<footer>(c)</footer>
</body></html>`

	got, err := New().Extract(page)
	require.NoError(t, err)

	assert.Contains(t, got, "<h1>Guide</h1>")
	assert.Contains(t, got, "<p>Body text</p>")
	assert.NotContains(t, got, "Home")
	assert.NotContains(t, got, "¶")
	assert.NotContains(t, got, "(c)")
	assert.NotContains(t, got, "<main>")
}

func TestExtract_FallsBackToBody(t *testing.T) {
	got, err := New().Extract(`<p>Just a fragment</p>`)
	require.NoError(t, err)
	assert.Equal(t, "<p>Just a fragment</p>", got)
}
