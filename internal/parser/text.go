package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// TextParser handles plain text files. Every source line becomes a body
// line; blank lines add vertical space and a form feed starts a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	layout := newFlowLayout(filename)
	for scanner.Scan() {
		segments := strings.Split(scanner.Text(), "\f")
		for i, seg := range segments {
			if i > 0 {
				layout.pageBreak()
			}
			if strings.TrimSpace(seg) == "" {
				if len(segments) == 1 {
					layout.gap(bodyStyle)
				}
				continue
			}
			for _, line := range wrap(strings.Fields(seg), bodyStyle) {
				layout.line(line, bodyStyle)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	return layout.document(), nil
}
