package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Heading elements get heading typography
// and block elements become body paragraphs.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	layout := newFlowLayout(filename)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			// Text that is not inside a block element.
			layout.block(n.Data, bodyStyle)
			return
		case html.ElementNode:
			if level := headingLevel(n.Data); level > 0 {
				layout.block(textContent(n), headingStyle(level))
				return
			}

			switch n.Data {
			case "script", "style", "noscript", "template", "nav", "footer", "header", "head":
				return
			case "p", "li", "td", "th", "dt", "dd", "blockquote", "caption", "figcaption", "pre":
				st := bodyStyle
				if boldOnly(n) {
					st = newFlowStyle(bodyStyle.size, true, false)
				}
				layout.block(textContent(n), st)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return layout.document(), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// boldOnly reports whether every visible character of n sits inside a
// <b> or <strong> element.
func boldOnly(n *html.Node) bool {
	found := false
	var check func(*html.Node, bool) bool
	check = func(n *html.Node, bold bool) bool {
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) == "" {
				return true
			}
			found = true
			return bold
		}
		if n.Type == html.ElementNode && (n.Data == "b" || n.Data == "strong") {
			bold = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !check(c, bold) {
				return false
			}
		}
		return true
	}
	return check(n, false) && found
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
