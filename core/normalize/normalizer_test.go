package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	md, err := New().Normalize(`<h2>Setup</h2><p>Run <code>make</code> and see <a href="guide.html">the guide</a>.</p>`)
	require.NoError(t, err)

	assert.Contains(t, md, "## Setup")
	assert.Contains(t, md, "`make`")
	assert.Contains(t, md, "[the guide](guide.html)")
}

func TestNormalize_ListsAndCode(t *testing.T) {
	md, err := New().Normalize(`<ul><li>one</li><li>two</li></ul><pre><code class="language-go">fmt.Println()</code></pre>`)
	require.NoError(t, err)

	assert.Contains(t, md, "- one")
	assert.Contains(t, md, "- two")
	assert.Contains(t, md, "```go")
	assert.Contains(t, md, "fmt.Println()")
}

func TestNormalize_Table(t *testing.T) {
	md, err := New().Normalize(`<table><thead><tr><th>Key</th><th>Value</th></tr></thead><tbody><tr><td>retries</td><td>2</td></tr></tbody></table>`)
	require.NoError(t, err)

	assert.Contains(t, md, "Key")
	assert.Contains(t, md, "retries")
	assert.Contains(t, md, "|")
}
