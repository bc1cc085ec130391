package outline

import (
	"math"
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// maxHeadingStyles is the number of heading styles a profile tracks.
const maxHeadingStyles = 3

// StyleProfile is the typography discovered for a document: the body style
// and up to three heading styles, largest first.
type StyleProfile struct {
	Body     *doctree.Style  // nil iff the input was empty
	Headings []doctree.Style // Headings[0] is h1, then h2, h3
}

// Heading returns the style of heading level n (1-based).
func (p StyleProfile) Heading(n int) (doctree.Style, bool) {
	if n < 1 || n > len(p.Headings) {
		return doctree.Style{}, false
	}
	return p.Headings[n-1], true
}

// ProfileStyles clusters fragments by style to find the body text style
// and the heading styles.
func ProfileStyles(frags []doctree.Fragment) StyleProfile {
	if len(frags) == 0 {
		return StyleProfile{}
	}

	meaningful := filterFragments(frags, func(f doctree.Fragment) bool {
		return runeLen(f.Text) >= 3
	})
	if len(meaningful) == 0 {
		meaningful = frags
	}

	// Body text is long and regular; relax step by step when there is none.
	candidates := filterFragments(meaningful, func(f doctree.Fragment) bool {
		return !f.Bold && f.WordCount() > 4
	})
	if len(candidates) == 0 {
		candidates = filterFragments(meaningful, func(f doctree.Fragment) bool {
			return !f.Bold && f.WordCount() >= 2
		})
	}
	if len(candidates) == 0 {
		candidates = meaningful
	}
	body := mostCommonStyle(candidates)

	sizeMargin := math.Max(0.5, 0.05*body.SizePt)
	seen := make(map[doctree.Style]bool)
	var headings []doctree.Style
	for _, f := range meaningful {
		s := f.Style()
		if s == body || seen[s] {
			continue
		}
		larger := f.SizePt > body.SizePt+sizeMargin
		bolder := f.Bold && !body.Bold
		shortBold := f.SizePt >= body.SizePt && f.Bold && f.WordCount() <= 8
		if larger || bolder || shortBold {
			seen[s] = true
			headings = append(headings, s)
		}
	}

	sort.SliceStable(headings, func(i, j int) bool {
		a, b := headings[i], headings[j]
		if a.SizePt != b.SizePt {
			return a.SizePt > b.SizePt
		}
		return a.Bold && !b.Bold
	})
	if len(headings) > maxHeadingStyles {
		headings = headings[:maxHeadingStyles]
	}

	return StyleProfile{Body: &body, Headings: headings}
}

// mostCommonStyle returns the most frequent style; ties go to the style
// seen first.
func mostCommonStyle(frags []doctree.Fragment) doctree.Style {
	counts := make(map[doctree.Style]int)
	var order []doctree.Style
	for _, f := range frags {
		s := f.Style()
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}

	var best doctree.Style
	bestCount := 0
	for _, s := range order {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}

func filterFragments(frags []doctree.Fragment, keep func(doctree.Fragment) bool) []doctree.Fragment {
	var out []doctree.Fragment
	for _, f := range frags {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
