package outline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	testPageWidth  = 612.0
	testPageHeight = 792.0
)

// frag builds a fragment whose box is as tall as its font size.
func frag(text string, page int, y, size float64, bold bool) doctree.Fragment {
	font := "Helvetica"
	if bold {
		font = "Helvetica-Bold"
	}
	return doctree.Fragment{
		Text:      text,
		BBox:      doctree.BBox{X0: 72, Y0: y, X1: 72 + float64(len(text))*size*0.5, Y1: y + size},
		PageIndex: page,
		SizePt:    size,
		FontName:  font,
		Bold:      bold,
	}
}

// bodyLines returns n regular 11pt lines starting at y, 14pt apart.
func bodyLines(page, n int, y float64) []doctree.Fragment {
	out := make([]doctree.Fragment, 0, n)
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("the committee will review item %d of the delivery plan with every partner", i+1)
		out = append(out, frag(text, page, y+float64(i)*14, 11, false))
	}
	return out
}

// document groups fragments into letter-sized pages.
func document(pageCount int, frags ...doctree.Fragment) *doctree.Document {
	doc := &doctree.Document{Filename: "test.pdf"}
	for i := 0; i < pageCount; i++ {
		doc.Pages = append(doc.Pages, doctree.Page{Index: i, Width: testPageWidth, Height: testPageHeight})
	}
	for _, f := range frags {
		doc.Pages[f.PageIndex].Fragments = append(doc.Pages[f.PageIndex].Fragments, f)
	}
	return doc
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(DefaultRules())
	require.NoError(t, err)
	return e
}

func heights(n int) []float64 {
	h := make([]float64, n)
	for i := range h {
		h[i] = testPageHeight
	}
	return h
}

func entryTexts(entries []doctree.OutlineEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Text)
	}
	return out
}
