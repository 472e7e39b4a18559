package parse

import (
	"bufio"
	"bytes"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// KindInlineMath is the goldmark node kind of $...$ spans.
var KindInlineMath = gast.NewNodeKind("InlineMath")

// InlineMath is a TeX span delimited by single dollars.
type InlineMath struct {
	gast.BaseInline
}

// Kind implements ast.Node.
func (n *InlineMath) Kind() gast.NodeKind {
	return KindInlineMath
}

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

type inlineMathParser struct{}

func (p *inlineMathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse accepts $tex$ where the opening dollar is not followed by a space or
// another dollar and the closing dollar is not preceded by a space.
func (p *inlineMathParser) Parse(_ gast.Node, block text.Reader, _ parser.Context) gast.Node {
	line, segment := block.PeekLine()
	if len(line) < 3 || line[1] == '$' || line[1] == ' ' {
		return nil
	}

	end := -1
	for i := 1; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '$' {
			end = i
			break
		}
	}
	if end < 0 || line[end-1] == ' ' {
		return nil
	}

	node := &InlineMath{}
	node.AppendChild(node, gast.NewRawTextSegment(text.NewSegment(segment.Start+1, segment.Start+end)))
	block.Advance(end + 1)
	return node
}

// fenceMathBlocks rewrites $$ display blocks into ```math fences, which the
// converter turns into math blocks. Both the multi-line form and the single
// line form ($$ tex $$) are accepted. An unclosed $$ is left untouched.
func fenceMathBlocks(src []byte) []byte {
	var (
		out     []string
		pending []string
		inMath  bool
		inCode  string
	)

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if !inMath {
			if fence := codeFenceMarker(trimmed); fence != "" {
				switch {
				case inCode == "":
					inCode = fence
				case fence[0] == inCode[0] && len(fence) >= len(inCode) && fence == trimmed:
					inCode = ""
				}
				out = append(out, line)
				continue
			}
			if inCode != "" {
				out = append(out, line)
				continue
			}
		}

		switch {
		case inMath && trimmed == "$$":
			out = append(out, "```math")
			out = append(out, pending...)
			out = append(out, "```")
			pending, inMath = nil, false
		case inMath:
			pending = append(pending, line)
		case trimmed == "$$":
			inMath = true
			pending = nil
		case len(trimmed) > 4 && strings.HasPrefix(trimmed, "$$") && strings.HasSuffix(trimmed, "$$"):
			out = append(out, "```math", strings.TrimSpace(trimmed[2:len(trimmed)-2]), "```")
		default:
			out = append(out, line)
		}
	}
	if inMath {
		out = append(out, "$$")
		out = append(out, pending...)
	}

	result := strings.Join(out, "\n")
	if len(src) > 0 && src[len(src)-1] == '\n' {
		result += "\n"
	}
	return []byte(result)
}

func codeFenceMarker(trimmed string) string {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n >= 3 {
			return trimmed[:n]
		}
	}
	return ""
}
