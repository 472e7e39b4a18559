//go:build property

package linkfix

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRewriteProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	r := Rewriter{RootDoc: "index", Suffix: ".html"}

	properties.Property("rewriting is idempotent", prop.ForAll(
		func(text, doc string) bool {
			html := `<div class="sidebar-wrapper"><a class="reference internal" href="index.html#document-` +
				doc + `">` + text + `</a></div>`
			once, err := r.Rewrite(html)
			if err != nil {
				return false
			}
			twice, err := r.Rewrite(once)
			return err == nil && once == twice
		},
		gen.AlphaString(),
		gen.Identifier(),
	))

	properties.Property("no document anchors survive in the sidebar", prop.ForAll(
		func(text, doc string) bool {
			html := `<div class="sidebar-wrapper"><a class="reference internal" href="index.html#document-` +
				doc + `">` + text + `</a></div>`
			out, err := r.Rewrite(html)
			return err == nil && !strings.Contains(out, "#document-")
		},
		gen.AlphaString(),
		gen.Identifier(),
	))

	properties.Property("pages without a sidebar are unchanged", prop.ForAll(
		func(text string) bool {
			html := `<p class="body">` + text + `</p>`
			out, err := r.Rewrite(html)
			return err == nil && out == html
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
