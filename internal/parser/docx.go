package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraph heading styles give heading
// typography; runs that are all bold or all italic carry that emphasis.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docoutline-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	layout := newFlowLayout(filename)
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			layoutDocxParagraph(layout, it)
		case *docx.Table:
			for _, row := range it.TableRows {
				for _, cell := range row.TableCells {
					for _, para := range cell.Paragraphs {
						layoutDocxParagraph(layout, para)
					}
				}
			}
		}
	}
	return layout.document(), nil
}

func layoutDocxParagraph(layout *flowLayout, para *docx.Paragraph) {
	text, bold, italic := docxParagraphText(para)
	if text == "" {
		return
	}

	st := newFlowStyle(bodyStyle.size, bold, italic)
	switch level := docxHeadingLevel(para); {
	case level < 0:
		st = newFlowStyle(24, true, false)
	case level > 0:
		st = headingStyle(level)
	}
	layout.block(text, st)
}

// docxHeadingLevel returns 1..6 for heading styles, -1 for the document
// title style and 0 otherwise.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return -1
	}
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

// docxParagraphText returns the paragraph text and whether every run that
// holds text is bold, and italic.
func docxParagraphText(para *docx.Paragraph) (string, bool, bool) {
	var buf strings.Builder
	bold, italic := true, true
	runs := 0

	addRun := func(run *docx.Run) {
		var text strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				text.WriteString(t.Text)
			}
		}
		if strings.TrimSpace(text.String()) == "" {
			buf.WriteString(text.String())
			return
		}
		runs++
		props := run.RunProperties
		if props == nil || props.Bold == nil {
			bold = false
		}
		if props == nil || props.Italic == nil {
			italic = false
		}
		buf.WriteString(text.String())
	}

	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			addRun(c)
		case *docx.Hyperlink:
			addRun(&c.Run)
		}
	}

	if runs == 0 {
		return "", false, false
	}
	return strings.TrimSpace(buf.String()), bold, italic
}
