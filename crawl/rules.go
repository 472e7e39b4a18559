package crawl

import (
	"net/url"
	"path"
	"strings"

	"github.com/gaurav-prasanna/docpress/core/fetch"
	"github.com/gaurav-prasanna/docpress/core/translate"
)

// staticExtensions are link targets that are never documents.
var staticExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true, ".bmp": true,
	".css": true, ".js": true, ".mjs": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".mp4": true, ".webm": true, ".mp3": true, ".wav": true,
	".zip": true, ".tar": true, ".gz": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// IsStaticAsset checks if a link points to a static asset (image, CSS, PDF...).
func IsStaticAsset(uri string) bool {
	parsed, err := url.Parse(uri)
	if err != nil {
		return false
	}
	return staticExtensions[strings.ToLower(path.Ext(parsed.Path))]
}

// LinkTarget resolves a reference found in document from to the name of the
// document it points at. It reports false for external links, static
// assets, same-page fragments and targets outside the source directory.
func LinkTarget(from, uri string) (string, bool) {
	if uri == "" || strings.HasPrefix(uri, "#") || translate.IsExternalURI(uri) || IsStaticAsset(uri) {
		return "", false
	}

	parsed, err := url.Parse(uri)
	if err != nil || parsed.Path == "" {
		return "", false
	}

	target := parsed.Path
	if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir(from), target)
	}
	name, err := fetch.CleanName(strings.TrimPrefix(target, "/"))
	if err != nil {
		return "", false
	}
	return name, true
}
