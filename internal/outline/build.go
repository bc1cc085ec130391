package outline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// levelSizeTolerance is how far below a heading style's size a fragment
// may be and still take that style's level.
const levelSizeTolerance = 0.5

// BuildOutline orders accepted headings by reading position, assigns each
// a level and removes duplicates of the same text on the same page.
func BuildOutline(scored []ScoredFragment, profile StyleProfile) []doctree.OutlineEntry {
	sorted := make([]ScoredFragment, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Fragment, sorted[j].Fragment
		if a.PageIndex != b.PageIndex {
			return a.PageIndex < b.PageIndex
		}
		return a.BBox.Y0 < b.BBox.Y0
	})

	styleLevels := make(map[doctree.Style]string, len(profile.Headings))
	for i, s := range profile.Headings {
		if _, dup := styleLevels[s]; !dup {
			styleLevels[s] = levelLabel(i + 1)
		}
	}

	type entryKey struct {
		text string
		page int
	}
	seen := make(map[entryKey]struct{})
	out := make([]doctree.OutlineEntry, 0, len(sorted))

	for _, sf := range sorted {
		f := sf.Fragment
		if !MeaningfulHeading(f.Text) {
			continue
		}

		level := headingLevel(f, profile, styleLevels)
		if n, ok := NumberedLevel(f.Text); ok {
			level = levelLabel(n)
		}

		key := entryKey{text: strings.TrimSpace(f.Text), page: f.PageIndex + 1}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, doctree.OutlineEntry{Level: level, Text: key.text, Page: key.page})
	}
	return out
}

// headingLevel picks a level from typography alone.
func headingLevel(f doctree.Fragment, profile StyleProfile, styleLevels map[doctree.Style]string) string {
	if level, ok := styleLevels[f.Style()]; ok {
		return level
	}
	if h1, ok := profile.Heading(1); ok && f.SizePt >= h1.SizePt-levelSizeTolerance {
		return levelLabel(1)
	}
	if h2, ok := profile.Heading(2); ok && f.SizePt >= h2.SizePt-levelSizeTolerance {
		return levelLabel(2)
	}
	return levelLabel(3)
}

func levelLabel(n int) string {
	return fmt.Sprintf("H%d", n)
}
