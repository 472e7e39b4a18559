package parse

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FrontMatter holds the per-document metadata block.
type FrontMatter struct {
	Title string `yaml:"title"`
}

var fmDelimiter = []byte("---")

// splitFrontMatter separates a leading YAML block delimited by --- lines
// from the Markdown body. Sources without one are returned unchanged.
func splitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, append(fmDelimiter, '\n')) {
		return fm, src, nil
	}

	rest := normalized[len(fmDelimiter)+1:]
	var block, body []byte
	switch {
	case bytes.HasPrefix(rest, append(fmDelimiter, '\n')):
		body = rest[len(fmDelimiter)+1:]
	default:
		end := bytes.Index(rest, []byte("\n---\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				return fm, src, nil
			}
			end = len(rest) - len("\n---")
			block, body = rest[:end], nil
		} else {
			block, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	if err := yaml.Unmarshal(block, &fm); err != nil {
		return fm, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return fm, body, nil
}
