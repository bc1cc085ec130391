package parser

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/net/html"
)

// parseBBoxLayout reads the XHTML written by "pdftotext -bbox-layout":
// <page width height> elements holding <line> elements with word boxes.
// Coordinates are already top-left based. No font information is
// available, so the size of a line is its box height.
func parseBBoxLayout(r io.Reader) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse bbox layout: %w", err)
	}

	doc := &doctree.Document{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "page":
				doc.Pages = append(doc.Pages, doctree.Page{
					Index:  len(doc.Pages),
					Width:  attrFloat(n, "width", defaultPageWidth),
					Height: attrFloat(n, "height", defaultPageHeight),
				})
			case "line":
				if len(doc.Pages) == 0 {
					return
				}
				page := &doc.Pages[len(doc.Pages)-1]
				if f, ok := bboxLine(n, page.Index); ok {
					page.Fragments = append(page.Fragments, f)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

func bboxLine(n *html.Node, pageIndex int) (doctree.Fragment, bool) {
	var words []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "word" {
			if w := strings.TrimSpace(textContent(c)); w != "" {
				words = append(words, w)
			}
		}
	}
	if len(words) == 0 {
		return doctree.Fragment{}, false
	}

	box := doctree.BBox{
		X0: attrFloat(n, "xmin", 0),
		Y0: attrFloat(n, "ymin", 0),
		X1: attrFloat(n, "xmax", 0),
		Y1: attrFloat(n, "ymax", 0),
	}
	if box.Y1 <= box.Y0 {
		return doctree.Fragment{}, false
	}
	return doctree.Fragment{
		Text:      strings.Join(words, " "),
		BBox:      box,
		PageIndex: pageIndex,
		SizePt:    math.Round(box.Height()*100) / 100,
	}, true
}

// attrFloat reads a numeric attribute. The HTML parser lowercases
// attribute names, so "xMin" is looked up as "xmin".
func attrFloat(n *html.Node, key string, def float64) float64 {
	for _, a := range n.Attr {
		if a.Key == key {
			if v, err := strconv.ParseFloat(strings.TrimSpace(a.Val), 64); err == nil {
				return v
			}
		}
	}
	return def
}
