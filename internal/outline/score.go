package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	maxHeadingWords  = 35
	maxSentenceWords = 12

	// minSpaceAbove is the gap to the previous line that counts as extra
	// whitespace before a heading.
	minSpaceAbove = 8
)

// ScoredFragment is a fragment with its heading likelihood.
type ScoredFragment struct {
	Fragment doctree.Fragment
	Score    float64
}

// ScoreHeadings scores every fragment that passes the hard filters, in
// document order. Fragments failing a filter are dropped, not scored zero.
// Without a body style there is nothing to compare against and the result
// is empty.
func (e *Extractor) ScoreHeadings(frags []doctree.Fragment, body *doctree.Style, class DocClass) []ScoredFragment {
	if body == nil {
		return nil
	}

	var (
		out  []ScoredFragment
		prev *doctree.Fragment // last fragment that survived the filters
	)
	for i := range frags {
		f := &frags[i]
		if e.rules.isArtifact(f.Text) || !MeaningfulHeading(f.Text) {
			continue
		}
		words := f.WordCount()
		if words < 1 || words > maxHeadingWords {
			continue
		}

		var score float64
		if class == Dense {
			if strings.HasSuffix(f.Text, ".") && words > maxSentenceWords {
				continue
			}
			score = e.denseScore(*f, *body, prev)
		} else {
			score = sparseScore(*f)
		}

		prev = f
		out = append(out, ScoredFragment{Fragment: *f, Score: score})
	}
	return out
}

func (e *Extractor) denseScore(f doctree.Fragment, body doctree.Style, prev *doctree.Fragment) float64 {
	var score float64
	if f.SizePt > body.SizePt {
		score += (f.SizePt - body.SizePt) * 15
	}
	if f.Bold && !body.Bold {
		score += 30
	}
	if prev != nil && f.BBox.Y0-prev.BBox.Y1 > minSpaceAbove {
		score += 15
	}

	if _, rest, ok := numberedPrefix(f.Text); ok {
		if runeLen(rest) >= minNumberedText {
			score += 50
		} else {
			score -= 20
		}
	}

	if e.rules.hasKeyword(f.Text) {
		score += 25
	}

	switch {
	case isUpper(f.Text) && runeLen(f.Text) > 3:
		score += 15
	case isTitleCase(f.Text):
		score += 10
	}
	return score
}

func sparseScore(f doctree.Fragment) float64 {
	score := f.SizePt * 3
	if f.Bold {
		score += 20
	}
	if isUpper(f.Text) {
		score += 15
	}
	if strings.HasSuffix(f.Text, ":") {
		score -= 30
	}
	if isDigits(f.Text) {
		score -= 50
	}
	return score
}
