package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var markdown = goldmark.New()

// PostProcess turns raw model output into plain story text. Models sometimes
// add a title heading, bold names or a stray "---" even when told not to;
// those are flattened so the reader gets continuous paragraphs.
func PostProcess(raw string) (string, error) {
	src := []byte(strings.TrimSpace(raw))
	if len(src) == 0 {
		return "", errors.New("model returned empty story")
	}

	doc := markdown.Parser().Parse(text.NewReader(src))
	var paragraphs []string
	collectBlocks(doc, src, &paragraphs)

	story := strings.Join(paragraphs, "\n\n")
	if story == "" {
		// nothing but headings or rules; keep what the model said
		return string(src), nil
	}
	return story, nil
}

func collectBlocks(parent ast.Node, src []byte, out *[]string) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.ThematicBreak, *ast.HTMLBlock:
			continue
		case *ast.Heading:
			// a paragraph underlined with "---" parses as a setext heading;
			// only "#" titles are dropped
			if isATXHeading(node, src) {
				continue
			}
			if s := strings.TrimSpace(inlineText(node, src)); s != "" {
				*out = append(*out, s)
			}
		case *ast.Paragraph, *ast.TextBlock:
			if s := strings.TrimSpace(inlineText(node, src)); s != "" {
				*out = append(*out, s)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if s := strings.TrimSpace(blockLines(node, src)); s != "" {
				*out = append(*out, s)
			}
		case *ast.List:
			if !node.IsOrdered() {
				collectBlocks(node, src, out)
				continue
			}
			collectOrderedList(node, src, out)
		default:
			// lists, list items and blockquotes hold paragraphs
			collectBlocks(node, src, out)
		}
	}
}

// collectOrderedList keeps item numbers, since a line such as
// "3. 2. 1. Blast off!" is a countdown rather than a list.
func collectOrderedList(list *ast.List, src []byte, out *[]string) {
	num := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := fmt.Sprintf("%d%c", num, list.Marker)
		num++

		var blocks []string
		collectBlocks(item, src, &blocks)
		if len(blocks) == 0 {
			*out = append(*out, marker)
			continue
		}
		blocks[0] = marker + " " + blocks[0]
		*out = append(*out, blocks...)
	}
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(resolveText(t.Segment.Value(src)))
			if t.HardLineBreak() {
				sb.WriteByte('\n')
			} else if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			// code span content is literal
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if seg, ok := c.(*ast.Text); ok {
					sb.Write(seg.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// resolveText turns "&amp;" into "&" and "\*" into "*", as a renderer would.
func resolveText(b []byte) []byte {
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(b)))
}

func isATXHeading(h *ast.Heading, src []byte) bool {
	lines := h.Lines()
	if lines.Len() == 0 {
		// "#" with no title text
		return true
	}
	start := lines.At(0).Start
	lineStart := start
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	return strings.HasPrefix(strings.TrimSpace(string(src[lineStart:start])), "#")
}

func blockLines(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}
