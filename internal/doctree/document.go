// Package doctree holds the data model shared by the fragment sources, the
// outline extractor and the service: positioned text fragments, the styles
// they carry, and the resulting title/outline.
package doctree

import "strings"

// Style is the typography of a fragment. It is a value type: two styles are
// equal iff every field matches, so it can be used directly as a map key.
type Style struct {
	SizePt   float64
	Bold     bool
	Italic   bool
	FontName string
}

// BBox is a bounding box in a top-left origin coordinate system: Y0 is the
// top edge, Y1 the bottom edge, and Y0 < Y1.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// Fragment is one visual line of text.
type Fragment struct {
	Text      string
	BBox      BBox
	PageIndex int // 0-based
	SizePt    float64
	FontName  string
	Bold      bool
	Italic    bool
}

// Style returns the fragment's typography.
func (f Fragment) Style() Style {
	return Style{SizePt: f.SizePt, Bold: f.Bold, Italic: f.Italic, FontName: f.FontName}
}

// WordCount returns the number of whitespace-separated words in the text.
func (f Fragment) WordCount() int {
	return len(strings.Fields(f.Text))
}

// Page is a single page of a document with its fragments in reading order.
type Page struct {
	Index     int
	Width     float64
	Height    float64
	Fragments []Fragment
}

// Document is the output of a fragment source.
type Document struct {
	Filename string
	Pages    []Page
}

// Fragments returns every fragment of the document, page by page.
func (d *Document) Fragments() []Fragment {
	if d == nil {
		return nil
	}
	var n int
	for _, p := range d.Pages {
		n += len(p.Fragments)
	}
	out := make([]Fragment, 0, n)
	for _, p := range d.Pages {
		out = append(out, p.Fragments...)
	}
	return out
}

// PageHeights returns the height of each page, indexed by page index.
func (d *Document) PageHeights() []float64 {
	if d == nil {
		return nil
	}
	heights := make([]float64, len(d.Pages))
	for i, p := range d.Pages {
		heights[i] = p.Height
	}
	return heights
}

// OutlineEntry is one heading of the final outline.
type OutlineEntry struct {
	Level string `json:"level"` // "H1".."H4"
	Text  string `json:"text"`
	Page  int    `json:"page"` // 1-based
}

// Result is the title and outline inferred for a document.
type Result struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
}
