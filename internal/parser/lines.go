package parser

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	// rowTolerance is how far, as a multiple of font size, two baselines
	// may differ and still be on the same visual line.
	rowTolerance = 0.5

	// columnGap is the horizontal gap in points that splits a row into
	// separate lines, such as two columns or a table.
	columnGap = 30.0

	// wordSpace is the gap, as a multiple of font size, that separates
	// words when the content stream draws no space glyph.
	wordSpace = 0.3
)

// glyph is one text-showing item of a page, positioned with a top-left
// origin.
type glyph struct {
	text     string
	x        float64
	baseline float64
	width    float64
	size     float64
	font     string
}

// assembleLines groups a page's glyphs into fragments, one per visual line
// segment, ordered top to bottom and left to right.
func assembleLines(glyphs []glyph, pageIndex int) []doctree.Fragment {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].baseline != sorted[j].baseline {
			return sorted[i].baseline < sorted[j].baseline
		}
		return sorted[i].x < sorted[j].x
	})

	var rows [][]glyph
	var row []glyph
	var rowBaseline, rowSize float64
	for _, g := range sorted {
		tol := rowTolerance * math.Max(g.size, rowSize)
		if len(row) > 0 && math.Abs(g.baseline-rowBaseline) <= tol {
			row = append(row, g)
			rowSize = math.Max(rowSize, g.size)
			continue
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		row = []glyph{g}
		rowBaseline, rowSize = g.baseline, g.size
	}
	rows = append(rows, row)

	var frags []doctree.Fragment
	for _, r := range rows {
		sort.SliceStable(r, func(i, j int) bool { return r[i].x < r[j].x })
		for _, seg := range splitColumns(r) {
			if f, ok := lineFragment(seg, pageIndex); ok {
				frags = append(frags, f)
			}
		}
	}
	return frags
}

// splitColumns cuts an x-sorted row wherever the gap between glyphs is
// wide enough to be a column gutter.
func splitColumns(row []glyph) [][]glyph {
	var segs [][]glyph
	start := 0
	for i := 1; i < len(row); i++ {
		prev := row[i-1]
		if row[i].x-(prev.x+prev.width) > columnGap {
			segs = append(segs, row[start:i])
			start = i
		}
	}
	return append(segs, row[start:])
}

// lineFragment merges the glyphs of one line segment.
func lineFragment(seg []glyph, pageIndex int) (doctree.Fragment, bool) {
	var (
		buf       strings.Builder
		sizeSum   float64
		top       = math.Inf(1)
		bottom    = math.Inf(-1)
		fontCount = make(map[string]int)
		fontOrder []string
	)
	for i, g := range seg {
		if i > 0 {
			prev := seg[i-1]
			gap := g.x - (prev.x + prev.width)
			if gap > wordSpace*g.size && !strings.HasSuffix(prev.text, " ") && !strings.HasPrefix(g.text, " ") {
				buf.WriteByte(' ')
			}
		}
		buf.WriteString(g.text)

		sizeSum += g.size
		top = math.Min(top, g.baseline-g.size)
		bottom = math.Max(bottom, g.baseline)
		if fontCount[g.font] == 0 {
			fontOrder = append(fontOrder, g.font)
		}
		fontCount[g.font]++
	}

	text := strings.Join(strings.Fields(buf.String()), " ")
	if text == "" {
		return doctree.Fragment{}, false
	}
	if bottom <= top {
		bottom = top + 1
	}

	font := fontOrder[0]
	for _, name := range fontOrder[1:] {
		if fontCount[name] > fontCount[font] {
			font = name
		}
	}
	font = stripSubsetPrefix(font)
	bold, italic := fontStyle(font)

	last := seg[len(seg)-1]
	return doctree.Fragment{
		Text:      text,
		BBox:      doctree.BBox{X0: seg[0].x, Y0: top, X1: last.x + last.width, Y1: bottom},
		PageIndex: pageIndex,
		SizePt:    math.Round(sizeSum/float64(len(seg))*100) / 100,
		FontName:  font,
		Bold:      bold,
		Italic:    italic,
	}, true
}

// stripSubsetPrefix removes the "ABCDEF+" tag embedded subset fonts carry.
func stripSubsetPrefix(font string) string {
	if i := strings.IndexByte(font, '+'); i == 6 {
		return font[i+1:]
	}
	return font
}

// fontStyle infers emphasis from a font name such as "Arial-BoldItalic".
func fontStyle(font string) (bold, italic bool) {
	name := strings.ToLower(font)
	for _, w := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(name, w) {
			bold = true
			break
		}
	}
	italic = strings.Contains(name, "italic") || strings.Contains(name, "oblique")
	return bold, italic
}
