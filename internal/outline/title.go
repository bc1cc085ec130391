package outline

import (
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	// titlePoolSize is how many first-page lines, top to bottom, are
	// considered for the title.
	titlePoolSize = 11

	minTitleLength = 4
	maxTitleLength = 150
)

// TitleCandidate is a first-page fragment with its prominence score.
type TitleCandidate struct {
	Fragment doctree.Fragment
	Score    float64
}

// SelectTitle ranks the top lines of the first page by prominence. It
// returns the best candidate and whether it is accepted as the title for
// the given document class.
func (e *Extractor) SelectTitle(frags []doctree.Fragment, profile StyleProfile, class DocClass) (TitleCandidate, bool) {
	firstPage := filterFragments(frags, func(f doctree.Fragment) bool {
		return f.PageIndex == 0
	})
	sort.SliceStable(firstPage, func(i, j int) bool {
		return firstPage[i].BBox.Y0 < firstPage[j].BBox.Y0
	})
	if len(firstPage) > titlePoolSize {
		firstPage = firstPage[:titlePoolSize]
	}

	h1, hasH1 := profile.Heading(1)

	var best TitleCandidate
	found := false
	for _, f := range firstPage {
		if e.rules.isArtifact(f.Text) {
			continue
		}
		if n := runeLen(f.Text); n < minTitleLength || n > maxTitleLength {
			continue
		}

		var score float64
		if hasH1 && h1.SizePt > 0 {
			score += f.SizePt / h1.SizePt * 60
		}
		score += (1 - f.BBox.Y0/e.rules.referencePageHeight) * 20
		if f.Bold {
			score += 20
		}

		if !found || score > best.Score {
			best = TitleCandidate{Fragment: f, Score: score}
			found = true
		}
	}

	if !found {
		return TitleCandidate{}, false
	}
	if class == Dense && best.Score <= e.rules.titleThreshold {
		return best, false
	}
	return best, true
}
