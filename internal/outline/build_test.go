package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func testProfile() StyleProfile {
	return StyleProfile{
		Body: &testBody,
		Headings: []doctree.Style{
			frag("x", 0, 0, 24, true).Style(),
			frag("x", 0, 0, 16, true).Style(),
			frag("x", 0, 0, 14, true).Style(),
		},
	}
}

func scoredOf(frags ...doctree.Fragment) []ScoredFragment {
	out := make([]ScoredFragment, len(frags))
	for i, f := range frags {
		out[i] = ScoredFragment{Fragment: f, Score: 100}
	}
	return out
}

func TestBuildOutline_LevelsAndOrder(t *testing.T) {
	scored := scoredOf(
		frag("Scope", 0, 300, 16, true),
		frag("Annual Plan", 0, 50, 24, true),
		frag("Details", 1, 100, 14, true),
		frag("Footnote Heading", 1, 200, 12, false),
		frag("Near Major", 1, 300, 23.6, true),
		frag("2.1.3 Budget Lines", 2, 50, 24, true),
		frag("Scope", 0, 400, 16, true),
		frag("6.2", 2, 80, 16, true),
	)

	got := BuildOutline(scored, testProfile())
	want := []doctree.OutlineEntry{
		{Level: "H1", Text: "Annual Plan", Page: 1},
		{Level: "H2", Text: "Scope", Page: 1},
		{Level: "H3", Text: "Details", Page: 2},
		{Level: "H3", Text: "Footnote Heading", Page: 2},
		{Level: "H1", Text: "Near Major", Page: 2},
		{Level: "H3", Text: "2.1.3 Budget Lines", Page: 3},
	}
	assert.Equal(t, want, got)
}

func TestBuildOutline_NumberedDepthCapped(t *testing.T) {
	got := BuildOutline(scoredOf(frag("1.2.3.4.5 Deep Detail", 0, 50, 14, true)), testProfile())
	require.Len(t, got, 1)
	assert.Equal(t, "H4", got[0].Level)
}

func TestBuildOutline_SameTextOnDifferentPages(t *testing.T) {
	got := BuildOutline(scoredOf(
		frag("Summary", 0, 50, 16, true),
		frag("Summary", 1, 50, 16, true),
	), testProfile())
	assert.Equal(t, []int{1, 2}, []int{got[0].Page, got[1].Page})
}

func TestBuildOutline_Empty(t *testing.T) {
	got := BuildOutline(nil, StyleProfile{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildOutline_NoHeadingStyles(t *testing.T) {
	got := BuildOutline(scoredOf(frag("Loose Heading", 0, 50, 11, true)), StyleProfile{Body: &testBody})
	require.Len(t, got, 1)
	assert.Equal(t, "H3", got[0].Level)
}

func TestBuildOutline_Deterministic(t *testing.T) {
	scored := scoredOf(
		frag("Beta", 0, 100, 16, true),
		frag("Alpha", 0, 100, 24, true),
		frag("Gamma", 1, 10, 14, true),
	)
	input := append([]ScoredFragment(nil), scored...)

	first := BuildOutline(scored, testProfile())
	second := BuildOutline(scored, testProfile())
	assert.Equal(t, first, second)
	assert.Equal(t, input, scored, "input must not be reordered")
	// Same position keeps input order.
	assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, entryTexts(first))
}

// levelStyles gives each outline level a typography that maps back to it
// under testProfile.
var levelStyles = map[string]struct {
	size float64
	bold bool
}{
	"H1": {24, true},
	"H2": {16, true},
	"H3": {14, true},
	"H4": {12, true},
}

func TestBuildOutline_Idempotent(t *testing.T) {
	scored := scoredOf(
		frag("Scope", 0, 300, 16, true),
		frag("Annual Plan", 0, 50, 24, true),
		frag("Details", 1, 100, 14, true),
		frag("Footnote Heading", 1, 200, 12, false),
		frag("Near Major", 1, 300, 23.6, true),
		frag("2.1.3 Budget Lines", 2, 50, 24, true),
		frag("1.2.3.4.5 Deep Detail", 2, 90, 11, false),
		frag("Scope", 0, 400, 16, true),
		frag("Summary", 3, 60, 16, true),
	)
	first := BuildOutline(scored, testProfile())
	require.NotEmpty(t, first)

	// Feed the outline back in as fragments, in its own order.
	again := make([]doctree.Fragment, 0, len(first))
	for i, e := range first {
		st, ok := levelStyles[e.Level]
		require.True(t, ok, "level %q", e.Level)
		again = append(again, frag(e.Text, e.Page-1, 50+float64(i)*20, st.size, st.bold))
	}
	second := BuildOutline(scoredOf(again...), testProfile())

	assert.Equal(t, first, second)
}
