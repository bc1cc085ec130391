package outline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestClassify(t *testing.T) {
	long := strings.Repeat("x", 31)
	short := strings.Repeat("x", 30)

	lines := func(n int, text string) []doctree.Fragment {
		out := make([]doctree.Fragment, n)
		for i := range out {
			out[i] = frag(text, 0, float64(i*14), 11, false)
		}
		return out
	}

	tests := []struct {
		name  string
		frags []doctree.Fragment
		want  DocClass
	}{
		{"empty", nil, Sparse},
		{"few long lines", lines(15, long), Sparse},
		{"many long lines", lines(16, long), Dense},
		{"many short lines", lines(16, short), Sparse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.frags))
		})
	}
}

func TestDocClassString(t *testing.T) {
	assert.Equal(t, "dense", Dense.String())
	assert.Equal(t, "sparse", Sparse.String())
}
