package theme

import (
	"path"
	"sort"
)

// Sidebars returns the sidebar templates configured for page. An exact page
// name wins; otherwise the longest matching glob is used. "**" matches every
// page.
func Sidebars(patterns map[string][]string, page string) []string {
	if names, ok := patterns[page]; ok {
		return names
	}

	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, pattern := range keys {
		if pattern == "**" {
			continue
		}
		if ok, err := path.Match(pattern, page); err == nil && ok {
			return patterns[pattern]
		}
	}
	return patterns["**"]
}
