package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// numberedRe matches a leading section number of one- or two-digit groups
// separated by dots, a separator run, and the heading text after it.
var numberedRe = regexp.MustCompile(`^\s*(\d{1,2}(?:\.\d{1,2})*)[.:\-\s]+(.+)$`)

// minNumberedText is the shortest heading text that may follow a section
// number for the number to count.
const minNumberedText = 3

// numberedPrefix splits text into its section number and trailing text.
func numberedPrefix(text string) (number, rest string, ok bool) {
	m := numberedRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// NumberedLevel returns the depth implied by a section number ("2" is 1,
// "2.3.1" is 3), capped at 4. ok is false unless text carries a section
// number followed by at least three characters of heading text.
func NumberedLevel(text string) (level int, ok bool) {
	number, rest, ok := numberedPrefix(text)
	if !ok || utf8.RuneCountInString(rest) < minNumberedText {
		return 0, false
	}
	return min(strings.Count(number, ".")+1, 4), true
}

// MeaningfulHeading reports whether text could stand as a heading at all,
// independent of its typography.
func MeaningfulHeading(text string) bool {
	text = strings.TrimSpace(text)
	if !hasLetter(text) {
		return false
	}

	if _, rest, ok := numberedPrefix(text); ok {
		return utf8.RuneCountInString(rest) >= minNumberedText && hasLetter(rest)
	}

	if len(strings.Fields(text)) == 1 {
		return utf8.RuneCountInString(text) >= 3 && !isDigits(text)
	}
	return true
}

// Normalize folds case and drops everything but letters and digits, so
// that header and footer lines compare equal across pages.
func Normalize(text string) string {
	folded := cases.Fold().String(text)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isUpper reports whether s has at least one cased letter and no lowercase
// letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}

// isTitleCase reports whether every run of letters in s starts with an
// uppercase letter followed only by lowercase ones.
func isTitleCase(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
