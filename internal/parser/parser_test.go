package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.pdf", "*parser.PDFParser"},
		{"A.PDF", "*parser.PDFParser"},
		{"b.docx", "*parser.DOCXParser"},
		{"c.md", "*parser.MarkdownParser"},
		{"c.markdown", "*parser.MarkdownParser"},
		{"d.html", "*parser.HTMLParser"},
		{"d.htm", "*parser.HTMLParser"},
		{"e.txt", "*parser.TextParser"},
		{"f.csv", "*parser.CSVParser"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, err := ForFile(tt.filename, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(p); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if !IsSupportedExtension(tt.filename) {
				t.Errorf("expected %q to be supported", tt.filename)
			}
		})
	}
}

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("image.png", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if IsSupportedExtension("image.png") || IsSupportedExtension("noext") {
		t.Errorf("expected unsupported extensions to be rejected")
	}
}

func TestForFile_PDFFallbackOption(t *testing.T) {
	p, err := ForFile("x.pdf", Options{PdftotextFallback: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.(*PDFParser).FallbackPdftotext {
		t.Errorf("expected fallback to be enabled")
	}
}

func TestPDFParser_Garbage(t *testing.T) {
	p := &PDFParser{}
	_, err := p.Parse(strings.NewReader("this is not a pdf"), "broken.pdf")
	if err == nil {
		t.Fatal("expected an error for a non-PDF input")
	}
}

func TestCSVParser(t *testing.T) {
	input := "name, region ,revenue\nAcme,North,100\nGlobex,,250\n"
	doc, err := (&CSVParser{}).Parse(strings.NewReader(input), "sales.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frags := doc.Fragments()
	if len(frags) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(frags))
	}
	if frags[0].Text != "name, region, revenue" || !frags[0].Bold {
		t.Errorf("unexpected header line: %+v", frags[0])
	}
	if frags[2].Text != "Globex, 250" {
		t.Errorf("expected empty cells dropped, got %q", frags[2].Text)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *PDFParser:
		return "*parser.PDFParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	case *MarkdownParser:
		return "*parser.MarkdownParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	case *TextParser:
		return "*parser.TextParser"
	case *CSVParser:
		return "*parser.CSVParser"
	}
	return "unknown"
}
