package outline

import (
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// DocClass selects the heading scoring rules.
type DocClass int

const (
	// Sparse documents (slides, forms) treat most distinct text as a
	// structural candidate.
	Sparse DocClass = iota
	// Dense documents are prose and need stricter heading rules.
	Dense
)

func (c DocClass) String() string {
	if c == Dense {
		return "dense"
	}
	return "sparse"
}

const (
	denseMinFragments  = 15
	denseMinMeanLength = 30
)

// Classify labels a fragment set dense when it has many, long lines.
func Classify(frags []doctree.Fragment) DocClass {
	if len(frags) <= denseMinFragments {
		return Sparse
	}
	total := 0
	for _, f := range frags {
		total += utf8.RuneCountInString(f.Text)
	}
	if float64(total)/float64(len(frags)) > denseMinMeanLength {
		return Dense
	}
	return Sparse
}
