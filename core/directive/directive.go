// Package directive expands the conditional-inclusion directives authors can
// use in Markdown sources:
//
//	::: if-builder html vivliostyle
//	Only in these builders.
//	:::
//
//	::: if-include appendix
//	Only when features.appendix is enabled.
//	:::
//
//	::: pdf-include files/poster.pdf
//	Optional link text
//	:::
//
// Expansion happens on the source text before it is parsed, so the parser
// and every later stage only ever see ordinary Markdown. A directive fence
// is three or more colons; it is closed by a fence of the same length, which
// allows nesting with longer outer fences. Lines inside code fences are never
// treated as directives.
package directive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	// ErrMissingArgument is returned when a directive has no argument.
	ErrMissingArgument = errors.New("directive requires an argument")
	// ErrUnknownDirective is returned for directive names no handler exists for.
	ErrUnknownDirective = errors.New("unknown directive")
)

// Env is the build state directives are evaluated against.
type Env struct {
	Builder string
	Feature func(name string) bool
}

var (
	openFence  = regexp.MustCompile(`^\s{0,3}(:{3,})\s*([A-Za-z][\w-]*)\s*(.*?)\s*$`)
	closeFence = regexp.MustCompile(`^\s{0,3}(:{3,})\s*$`)
	codeFence  = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})")
)

type frame struct {
	fence int
	name  string
	arg   string
	line  int
	body  []string
}

// Expand evaluates every directive in src and returns plain Markdown.
// An unclosed directive is closed at the end of the input.
func Expand(src []byte, env Env) ([]byte, error) {
	var (
		out    []string
		stack  []*frame
		inCode string
		lineNo int
	)

	emit := func(lines ...string) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.body = append(top.body, lines...)
			return
		}
		out = append(out, lines...)
	}

	closeTop := func() error {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		expanded, err := expandFrame(top, env)
		if err != nil {
			return err
		}
		emit(expanded...)
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		if m := codeFence.FindStringSubmatch(line); m != nil {
			switch {
			case inCode == "":
				inCode = m[1]
			case strings.HasPrefix(m[1], inCode[:1]) && len(m[1]) >= len(inCode) &&
				strings.TrimSpace(line) == m[1]:
				// only a bare fence closes a code block
				inCode = ""
			}
			emit(line)
			continue
		}
		if inCode != "" {
			emit(line)
			continue
		}

		if m := closeFence.FindStringSubmatch(line); m != nil && len(stack) > 0 &&
			len(m[1]) == stack[len(stack)-1].fence {
			if err := closeTop(); err != nil {
				return nil, err
			}
			continue
		}
		if m := openFence.FindStringSubmatch(line); m != nil {
			stack = append(stack, &frame{
				fence: len(m[1]),
				name:  strings.ToLower(m[2]),
				arg:   m[3],
				line:  lineNo,
			})
			continue
		}
		emit(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	for len(stack) > 0 {
		if err := closeTop(); err != nil {
			return nil, err
		}
	}

	result := strings.Join(out, "\n")
	if result != "" && src[len(src)-1] == '\n' {
		result += "\n"
	}
	return []byte(result), nil
}

func expandFrame(f *frame, env Env) ([]string, error) {
	if f.arg == "" {
		return nil, fmt.Errorf("%w: %s (line %d)", ErrMissingArgument, f.name, f.line)
	}

	switch f.name {
	case "if-builder":
		for _, name := range strings.Fields(f.arg) {
			if name == env.Builder {
				return block(f.body), nil
			}
		}
		return nil, nil
	case "if-include":
		if env.Feature != nil && env.Feature(f.arg) {
			return block(f.body), nil
		}
		return nil, nil
	case "pdf-include":
		return block([]string{pdfLink(f.arg, f.body)}), nil
	default:
		return nil, fmt.Errorf("%w: %s (line %d)", ErrUnknownDirective, f.name, f.line)
	}
}

// block surrounds lines with blank lines so they never merge into
// neighbouring paragraphs.
func block(lines []string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, "")
	out = append(out, lines...)
	return append(out, "")
}

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)

func pdfLink(target string, body []string) string {
	text := strings.TrimSpace(strings.Join(body, " "))
	if text == "" {
		text = path.Base(target)
	}
	return "[" + linkTextEscaper.Replace(text) + "](<" + target + ">)"
}
