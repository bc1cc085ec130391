package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// Letter size, used when a page has no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFParser handles PDF files. It assembles the glyphs of each page into
// lines with the Go library and, when enabled, falls back to pdftotext if
// the library cannot decode the file.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := extractPDFFragments(tmpPath)
	if err != nil && p.FallbackPdftotext {
		doc, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf fragments: %w", err)
	}
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}

	doc.Filename = filename
	return doc, nil
}

// extractPDFFragments decodes every page's glyphs. The decoder panics on
// some malformed content streams; that is reported as an error.
func extractPDFFragments(path string) (doc *doctree.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc = &doctree.Document{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		idx := len(doc.Pages)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, doctree.Page{Index: idx, Width: defaultPageWidth, Height: defaultPageHeight})
			continue
		}

		width, height := pageSize(page)
		content := page.Content()
		glyphs := make([]glyph, 0, len(content.Text))
		for _, t := range content.Text {
			glyphs = append(glyphs, glyph{
				text:     t.S,
				x:        t.X,
				baseline: height - t.Y,
				width:    t.W,
				size:     t.FontSize,
				font:     t.Font,
			})
		}

		doc.Pages = append(doc.Pages, doctree.Page{
			Index:     idx,
			Width:     width,
			Height:    height,
			Fragments: assembleLines(glyphs, idx),
		})
	}
	return doc, nil
}

// pageSize reads the MediaBox of the page or, failing that, of its parent
// page tree node.
func pageSize(page pdflib.Page) (float64, float64) {
	for _, box := range []pdflib.Value{page.V.Key("MediaBox"), page.V.Key("Parent").Key("MediaBox")} {
		if box.Len() != 4 {
			continue
		}
		w := box.Index(2).Float64() - box.Index(0).Float64()
		h := box.Index(3).Float64() - box.Index(1).Float64()
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultPageWidth, defaultPageHeight
}

// extractPdftotext runs pdftotext in bounding-box mode and reads its
// XHTML output.
func extractPdftotext(path string) (*doctree.Document, error) {
	cmd := exec.Command("pdftotext", "-bbox-layout", path, "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("pdftotext: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return parseBBoxLayout(bytes.NewReader(out))
}
