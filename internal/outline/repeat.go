package outline

import "github.com/dgallion1/docoutline/internal/doctree"

const (
	// minRepeatPages is the shortest document in which running headers and
	// footers can be told apart from coincidence.
	minRepeatPages = 3

	// bandRatio is the share of the page height, from the top and from the
	// bottom, searched for headers and footers.
	bandRatio = 0.12
)

// Repeats holds the normalized text of detected running headers and footers.
type Repeats struct {
	Headers map[string]struct{}
	Footers map[string]struct{}
}

// DetectRepeats finds text that recurs in the header or footer band of
// most pages. pageHeights is indexed by page index; its length is the
// page count.
func DetectRepeats(frags []doctree.Fragment, pageHeights []float64) Repeats {
	rep := Repeats{
		Headers: make(map[string]struct{}),
		Footers: make(map[string]struct{}),
	}
	pageCount := len(pageHeights)
	if pageCount < minRepeatPages {
		return rep
	}

	headerCounts := make(map[string]int)
	footerCounts := make(map[string]int)
	for _, f := range frags {
		if f.PageIndex < 0 || f.PageIndex >= pageCount {
			continue
		}
		h := pageHeights[f.PageIndex]
		switch {
		case f.BBox.Y0 < h*bandRatio:
			headerCounts[Normalize(f.Text)]++
		case f.BBox.Y1 > h*(1-bandRatio):
			footerCounts[Normalize(f.Text)]++
		}
	}

	minOccurrences := max(2, pageCount/2)
	for text, n := range headerCounts {
		if n >= minOccurrences {
			rep.Headers[text] = struct{}{}
		}
	}
	for text, n := range footerCounts {
		if n >= minOccurrences {
			rep.Footers[text] = struct{}{}
		}
	}
	return rep
}

// Excludes reports whether text normalizes to a detected header or footer.
func (r Repeats) Excludes(text string) bool {
	key := Normalize(text)
	if _, ok := r.Headers[key]; ok {
		return true
	}
	_, ok := r.Footers[key]
	return ok
}

// Filter drops every fragment whose text matches a header or footer,
// wherever on the page it appears.
func (r Repeats) Filter(frags []doctree.Fragment) []doctree.Fragment {
	if len(r.Headers) == 0 && len(r.Footers) == 0 {
		return frags
	}
	out := make([]doctree.Fragment, 0, len(frags))
	for _, f := range frags {
		if !r.Excludes(f.Text) {
			out = append(out, f)
		}
	}
	return out
}
