package outline

import (
	"fmt"
	"regexp"
	"strings"
)

// Rules holds the fixed pattern tables and thresholds of the scoring model.
// Rules are read once when an Extractor is built and never mutated after.
type Rules struct {
	// ArtifactPatterns are regular expressions for text that is never a
	// title or heading: page numbers, captions, boilerplate, dates, etc.
	ArtifactPatterns []string `toml:"artifact_patterns"`

	// Keywords earn a bonus in dense documents when found anywhere in the
	// text, case-insensitively.
	Keywords []string `toml:"keywords"`

	// HeadingThreshold is the minimum score (exclusive) for a fragment to
	// be kept as a heading.
	HeadingThreshold float64 `toml:"heading_threshold"`

	// TitleThreshold is the minimum title score (exclusive) in dense
	// documents. Sparse documents accept their best candidate.
	TitleThreshold float64 `toml:"title_threshold"`

	// ReferencePageHeight normalizes the vertical position of title
	// candidates. It is a fixed constant, not the real page height.
	ReferencePageHeight float64 `toml:"reference_page_height"`
}

// DefaultRules returns the stock rule set.
func DefaultRules() Rules {
	return Rules{
		ArtifactPatterns: []string{
			`(?i)^\s*(page\s+)?\d+\s*$`,
			`(?i)^\s*(table|figure)\s+\d+`,
			`(?i)copyright|©|all rights reserved`,
			`^[.\-_–—\s]+$`,
			`^\s*\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\s*$`,
			`^\s*\d+\s*$`,
			`^\s*\d+\.\s*$`,
			`(?i)^\s*\([a-z]\)\s*$`,
			`(?i)^\s*[ivxlcdm]+\s*$`,
		},
		Keywords: []string{
			"abstract", "introduction", "summary", "conclusion", "references",
			"acknowledgements", "contents", "background", "methodology",
			"results", "discussion", "appendix", "preamble", "timeline", "outlook",
		},
		HeadingThreshold:    30,
		TitleThreshold:      50,
		ReferencePageHeight: 800,
	}
}

// compiledRules is the read-only form of Rules used while scoring.
type compiledRules struct {
	artifacts []*regexp.Regexp
	keywords  []string

	headingThreshold    float64
	titleThreshold      float64
	referencePageHeight float64
}

func (r Rules) compile() (compiledRules, error) {
	if r.ReferencePageHeight <= 0 {
		return compiledRules{}, fmt.Errorf("reference page height must be positive, got %v", r.ReferencePageHeight)
	}

	c := compiledRules{
		artifacts:           make([]*regexp.Regexp, 0, len(r.ArtifactPatterns)),
		keywords:            make([]string, 0, len(r.Keywords)),
		headingThreshold:    r.HeadingThreshold,
		titleThreshold:      r.TitleThreshold,
		referencePageHeight: r.ReferencePageHeight,
	}
	for _, p := range r.ArtifactPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return compiledRules{}, fmt.Errorf("compile artifact pattern %q: %w", p, err)
		}
		c.artifacts = append(c.artifacts, re)
	}
	for _, kw := range r.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			c.keywords = append(c.keywords, kw)
		}
	}
	return c, nil
}

// isArtifact reports whether text matches any artifact pattern.
func (c *compiledRules) isArtifact(text string) bool {
	for _, re := range c.artifacts {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// hasKeyword reports whether any keyword occurs in text.
func (c *compiledRules) hasKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
