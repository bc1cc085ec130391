package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings get
// heading typography; every other block is laid out as body text.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	layout := newFlowLayout(filename)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		layoutMarkdownBlock(layout, n, src)
	}
	return layout.document(), nil
}

func layoutMarkdownBlock(layout *flowLayout, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		layout.block(inlineText(node, src), headingStyle(node.Level))

	case *ast.Paragraph, *ast.TextBlock:
		st := bodyStyle
		if strongOnly(node) {
			st = newFlowStyle(bodyStyle.size, true, false)
		}
		layout.block(inlineText(node, src), st)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := flowStyle{size: 10, font: "Courier"}
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			layout.line(string(seg.Value(src)), code)
		}
		layout.gap(code)

	case *ast.ThematicBreak, *ast.HTMLBlock:
		// Nothing visible to lay out.

	default:
		// Lists, list items and blockquotes hold further blocks.
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			layoutMarkdownBlock(layout, c, src)
		}
	}
}

// inlineText concatenates the text of n's inline descendants. Soft and hard
// line breaks become spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// strongOnly reports whether a paragraph is a single bold span.
func strongOnly(n ast.Node) bool {
	if n.ChildCount() != 1 {
		return false
	}
	em, ok := n.FirstChild().(*ast.Emphasis)
	return ok && em.Level == 2
}
