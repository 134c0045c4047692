package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is one top-level fenced block of an answer.
type CodeBlock struct {
	Language string
	Code     string // raw text, final newline removed
}

// segment is either a run of prose markdown or a code block.
type segment struct {
	prose string
	code  *CodeBlock
}

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// CodeBlocks lists the fenced blocks that get their own sub-card, in order.
func CodeBlocks(markdown string) []CodeBlock {
	var blocks []CodeBlock
	for _, seg := range split(markdown) {
		if seg.code != nil {
			blocks = append(blocks, *seg.code)
		}
	}
	return blocks
}

// split cuts markdown at its top-level fenced code blocks. Blocks nested in
// lists or quotes stay inside the surrounding prose.
func split(markdown string) []segment {
	src := []byte(markdown)
	doc := parser.Parse(text.NewReader(src))

	var segs []segment
	prev := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			continue
		}
		start, end, ok := fenceBounds(src, fcb)
		if !ok || start < prev {
			continue
		}
		if prose := strings.TrimSpace(string(src[prev:start])); prose != "" {
			segs = append(segs, segment{prose: prose})
		}
		segs = append(segs, segment{code: &CodeBlock{
			Language: string(fcb.Language(src)),
			Code:     codeText(src, fcb),
		}})
		prev = end
	}
	if prose := strings.TrimSpace(string(src[prev:])); prose != "" {
		segs = append(segs, segment{prose: prose})
	}
	return segs
}

// fenceBounds returns the byte range from the opening fence line to the end
// of the closing fence line (or the last content line if unclosed).
func fenceBounds(src []byte, n *ast.FencedCodeBlock) (start, end int, ok bool) {
	lines := n.Lines()
	switch {
	case n.Info != nil:
		start = lineStart(src, n.Info.Segment.Start)
	case lines.Len() > 0:
		first := lineStart(src, lines.At(0).Start)
		if first == 0 {
			return 0, 0, false
		}
		start = lineStart(src, first-1)
	default:
		return 0, 0, false
	}

	if lines.Len() > 0 {
		end = lineEnd(src, lines.At(lines.Len()-1).Stop-1)
	} else {
		end = lineEnd(src, start)
	}
	if end < len(src) {
		closing := lineEnd(src, end)
		fence := bytes.TrimSpace(src[end:closing])
		if bytes.HasPrefix(fence, []byte("```")) || bytes.HasPrefix(fence, []byte("~~~")) {
			end = closing
		}
	}
	return start, end, true
}

func codeText(src []byte, n *ast.FencedCodeBlock) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// lineStart returns the offset of the first byte of the line containing i.
func lineStart(src []byte, i int) int {
	if i > len(src) {
		i = len(src)
	}
	return bytes.LastIndexByte(src[:i], '\n') + 1
}

// lineEnd returns the offset just past the newline ending the line that
// contains i, or len(src).
func lineEnd(src []byte, i int) int {
	if i < 0 {
		i = 0
	}
	if i >= len(src) {
		return len(src)
	}
	j := bytes.IndexByte(src[i:], '\n')
	if j < 0 {
		return len(src)
	}
	return i + j + 1
}
