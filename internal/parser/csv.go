package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// CSVParser handles CSV files. The header row is laid out in bold and each
// record becomes one body line.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	layout := newFlowLayout(filename)
	if len(records) == 0 {
		return layout.document(), nil
	}

	header := newFlowStyle(bodyStyle.size, true, false)
	layout.block(joinCells(records[0]), header)
	for _, row := range records[1:] {
		for _, line := range wrap(strings.Fields(joinCells(row)), bodyStyle) {
			layout.line(line, bodyStyle)
		}
	}
	return layout.document(), nil
}

func joinCells(row []string) string {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return strings.Join(cells, ", ")
}
