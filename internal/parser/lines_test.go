package parser

import (
	"testing"
)

// word lays out text as one glyph per character, as the PDF decoder
// reports it, starting at x.
func word(text string, x, baseline, size float64, font string) []glyph {
	var out []glyph
	w := size * 0.5
	for i, r := range text {
		out = append(out, glyph{
			text:     string(r),
			x:        x + float64(i)*w,
			baseline: baseline,
			width:    w,
			size:     size,
			font:     font,
		})
	}
	return out
}

func glyphs(parts ...[]glyph) []glyph {
	var out []glyph
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestAssembleLines_WordsAndRows(t *testing.T) {
	in := glyphs(
		// Second line listed first; output must still be top to bottom.
		word("body", 72, 130, 10, "Times-Roman"),
		word("text", 72+4*5+4, 130.5, 10, "Times-Roman"),
		word("Annual", 72, 100, 20, "ABCDEF+Helvetica-Bold"),
		word("Report", 72+6*10+8, 100, 20, "ABCDEF+Helvetica-Bold"),
	)

	frags := assembleLines(in, 2)
	if len(frags) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(frags), frags)
	}

	title := frags[0]
	if title.Text != "Annual Report" {
		t.Errorf("expected %q, got %q", "Annual Report", title.Text)
	}
	if title.FontName != "Helvetica-Bold" || !title.Bold || title.Italic {
		t.Errorf("unexpected style: font=%q bold=%v italic=%v", title.FontName, title.Bold, title.Italic)
	}
	if title.SizePt != 20 {
		t.Errorf("expected size 20, got %v", title.SizePt)
	}
	if title.BBox.Y0 != 80 || title.BBox.Y1 != 100 {
		t.Errorf("expected box from 80 to 100, got %+v", title.BBox)
	}
	if title.PageIndex != 2 {
		t.Errorf("expected page index 2, got %d", title.PageIndex)
	}

	if frags[1].Text != "body text" {
		t.Errorf("expected %q, got %q", "body text", frags[1].Text)
	}
}

func TestAssembleLines_ColumnGap(t *testing.T) {
	in := glyphs(
		word("Left", 72, 100, 10, "Arial"),
		word("Right", 72+4*5+40, 100, 10, "Arial"),
	)
	frags := assembleLines(in, 0)
	if len(frags) != 2 {
		t.Fatalf("expected the row to split into 2 lines, got %d", len(frags))
	}
	if frags[0].Text != "Left" || frags[1].Text != "Right" {
		t.Errorf("unexpected texts %q, %q", frags[0].Text, frags[1].Text)
	}
}

func TestAssembleLines_TightGapNoSpace(t *testing.T) {
	in := glyphs(
		word("key", 72, 100, 10, "Arial"),
		word("word", 72+3*5+1, 100, 10, "Arial"),
	)
	frags := assembleLines(in, 0)
	if len(frags) != 1 || frags[0].Text != "keyword" {
		t.Fatalf("expected single %q, got %+v", "keyword", frags)
	}
}

func TestAssembleLines_MeanSizeAndDominantFont(t *testing.T) {
	in := glyphs(
		word("Ab", 72, 100, 10, "Arial-Italic"),
		word("c", 72+2*5, 100, 11, "Arial"),
	)
	frags := assembleLines(in, 0)
	if len(frags) != 1 {
		t.Fatalf("expected 1 line, got %d", len(frags))
	}
	f := frags[0]
	if f.SizePt != 10.33 {
		t.Errorf("expected mean size 10.33, got %v", f.SizePt)
	}
	if f.FontName != "Arial-Italic" || !f.Italic {
		t.Errorf("expected dominant italic font, got %q italic=%v", f.FontName, f.Italic)
	}
}

func TestAssembleLines_SkipsBlankLines(t *testing.T) {
	in := glyphs(word("   ", 72, 100, 10, "Arial"), word("kept", 72, 200, 10, "Arial"))
	frags := assembleLines(in, 0)
	if len(frags) != 1 || frags[0].Text != "kept" {
		t.Fatalf("expected only %q, got %+v", "kept", frags)
	}
	if assembleLines(nil, 0) != nil {
		t.Errorf("expected nil for no glyphs")
	}
}

func TestFontStyle(t *testing.T) {
	tests := []struct {
		font         string
		bold, italic bool
	}{
		{"Helvetica", false, false},
		{"Helvetica-Bold", true, false},
		{"Arial-BoldItalicMT", true, true},
		{"SourceSansPro-Semibold", true, false},
		{"Roboto-Black", true, false},
		{"Times-Oblique", false, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.font, func(t *testing.T) {
			bold, italic := fontStyle(tt.font)
			if bold != tt.bold || italic != tt.italic {
				t.Errorf("fontStyle(%q) = %v, %v; want %v, %v", tt.font, bold, italic, tt.bold, tt.italic)
			}
		})
	}
}

func TestStripSubsetPrefix(t *testing.T) {
	if got := stripSubsetPrefix("QXBRTE+Calibri-Bold"); got != "Calibri-Bold" {
		t.Errorf("expected %q, got %q", "Calibri-Bold", got)
	}
	if got := stripSubsetPrefix("A+B"); got != "A+B" {
		t.Errorf("expected short prefix untouched, got %q", got)
	}
}
