package parser

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Flow formats carry no geometry, so their blocks are laid out on letter
// pages the way a plain word processor would print them.
const (
	flowPageWidth  = 612.0
	flowPageHeight = 792.0
	flowMargin     = 72.0

	flowLineSpacing      = 1.4 // line pitch as a multiple of the font size
	flowParagraphSpacing = 0.6 // extra gap after a block, times the font size
	flowCharWidth        = 0.5 // average glyph width, times the font size
)

// flowStyle is the typography of one laid-out block.
type flowStyle struct {
	size   float64
	bold   bool
	italic bool
	font   string
}

var bodyStyle = newFlowStyle(11, false, false)

func newFlowStyle(size float64, bold, italic bool) flowStyle {
	font := "Helvetica"
	switch {
	case bold && italic:
		font = "Helvetica-BoldOblique"
	case bold:
		font = "Helvetica-Bold"
	case italic:
		font = "Helvetica-Oblique"
	}
	return flowStyle{size: size, bold: bold, italic: italic, font: font}
}

// headingStyle returns the style for heading level 1..6.
func headingStyle(level int) flowStyle {
	switch level {
	case 1:
		return newFlowStyle(20, true, false)
	case 2:
		return newFlowStyle(16, true, false)
	case 3:
		return newFlowStyle(14, true, false)
	default:
		return newFlowStyle(12, true, false)
	}
}

// flowLayout places blocks of text top to bottom, wrapping long lines and
// starting new pages when the bottom margin is reached.
type flowLayout struct {
	doc *doctree.Document
	y   float64
}

func newFlowLayout(filename string) *flowLayout {
	l := &flowLayout{doc: &doctree.Document{Filename: filename}}
	l.newPage()
	return l
}

func (l *flowLayout) newPage() {
	l.doc.Pages = append(l.doc.Pages, doctree.Page{
		Index:  len(l.doc.Pages),
		Width:  flowPageWidth,
		Height: flowPageHeight,
	})
	l.y = flowMargin
}

// pageBreak starts a new page unless the current one is still empty.
func (l *flowLayout) pageBreak() {
	if len(l.current().Fragments) == 0 {
		return
	}
	l.newPage()
}

func (l *flowLayout) current() *doctree.Page {
	return &l.doc.Pages[len(l.doc.Pages)-1]
}

// block lays out one paragraph or heading. Runs of whitespace collapse and
// the text wraps at the right margin.
func (l *flowLayout) block(text string, st flowStyle) {
	lines := wrap(strings.Fields(text), st)
	if len(lines) == 0 {
		return
	}
	for _, line := range lines {
		l.line(line, st)
	}
	l.y += st.size * flowParagraphSpacing
}

// line lays out a single pre-broken line without wrapping.
func (l *flowLayout) line(text string, st flowStyle) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if l.y+st.size > flowPageHeight-flowMargin {
		l.newPage()
	}
	width := float64(len([]rune(text))) * st.size * flowCharWidth
	page := l.current()
	page.Fragments = append(page.Fragments, doctree.Fragment{
		Text: text,
		BBox: doctree.BBox{
			X0: flowMargin,
			Y0: l.y,
			X1: min(flowMargin+width, flowPageWidth-flowMargin),
			Y1: l.y + st.size,
		},
		PageIndex: page.Index,
		SizePt:    st.size,
		FontName:  st.font,
		Bold:      st.bold,
		Italic:    st.italic,
	})
	l.y += st.size * flowLineSpacing
}

// gap adds vertical space, as a blank line in plain text does.
func (l *flowLayout) gap(st flowStyle) {
	l.y += st.size * flowParagraphSpacing
}

func (l *flowLayout) document() *doctree.Document {
	return l.doc
}

// wrap breaks words into lines that fit between the margins.
func wrap(words []string, st flowStyle) []string {
	if len(words) == 0 {
		return nil
	}
	maxChars := int((flowPageWidth - 2*flowMargin) / (st.size * flowCharWidth))

	var (
		lines   []string
		current strings.Builder
		n       int
	)
	for _, w := range words {
		wl := len([]rune(w))
		if n > 0 && n+1+wl > maxChars {
			lines = append(lines, current.String())
			current.Reset()
			n = 0
		}
		if n > 0 {
			current.WriteByte(' ')
			n++
		}
		current.WriteString(w)
		n += wl
	}
	if n > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
