// Package outline infers a document's title and heading outline from its
// positioned, styled text fragments. Every decision is a deterministic rule:
// style clustering, running header/footer removal, a dense/sparse document
// class, and per-class heading scores.
package outline

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Titles reported for documents that yield no structure.
const (
	EmptyDocumentTitle = "Empty Document"
	NoTextTitle        = "Document has no text"
)

// Extractor runs the outline pipeline. It is immutable once built and safe
// for concurrent use.
type Extractor struct {
	rules compiledRules
	log   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExtractor compiles rules into an Extractor.
func NewExtractor(rules Rules, opts ...Option) (*Extractor, error) {
	compiled, err := rules.compile()
	if err != nil {
		return nil, err
	}
	e := &Extractor{
		rules: compiled,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract infers the title and outline of doc.
func (e *Extractor) Extract(doc *doctree.Document) doctree.Result {
	if doc == nil || len(doc.Pages) == 0 {
		return EmptyResult()
	}
	all := doc.Fragments()
	if len(all) == 0 {
		return NoTextResult()
	}

	repeats := DetectRepeats(all, doc.PageHeights())
	content := repeats.Filter(all)

	profile := ProfileStyles(content)
	class := Classify(content)

	var title string
	candidate, hasTitle := e.SelectTitle(content, profile, class)
	if hasTitle {
		title = candidate.Fragment.Text
	}

	scored := e.ScoreHeadings(content, profile.Body, class)
	accepted := make([]ScoredFragment, 0, len(scored))
	for _, sf := range scored {
		if sf.Score <= e.rules.headingThreshold {
			continue
		}
		// The title line is not repeated as a heading unless it is a
		// numbered section.
		if hasTitle && sf.Fragment == candidate.Fragment {
			if _, numbered := NumberedLevel(sf.Fragment.Text); !numbered {
				continue
			}
		}
		accepted = append(accepted, sf)
	}

	outline := BuildOutline(accepted, profile)

	e.log.Debug("outline extracted",
		"filename", doc.Filename,
		"pages", len(doc.Pages),
		"fragments", len(all),
		"repeated_removed", len(all)-len(content),
		"class", class.String(),
		"heading_styles", len(profile.Headings),
		"scored", len(scored),
		"headings", len(outline),
		"has_title", hasTitle,
	)

	return doctree.Result{Title: title, Outline: outline}
}

// EmptyResult is the result for a document with no pages.
func EmptyResult() doctree.Result {
	return doctree.Result{Title: EmptyDocumentTitle, Outline: []doctree.OutlineEntry{}}
}

// NoTextResult is the result for a document whose pages hold no text.
func NoTextResult() doctree.Result {
	return doctree.Result{Title: NoTextTitle, Outline: []doctree.OutlineEntry{}}
}

// UnreadableResult is the result for a document that could not be read.
func UnreadableResult(filename string) doctree.Result {
	return doctree.Result{Title: "Error reading " + filepath.Base(filename), Outline: []doctree.OutlineEntry{}}
}
