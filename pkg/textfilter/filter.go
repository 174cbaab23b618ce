// Package textfilter cleans free text coming back from the oracle before it
// reaches game state.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var fenceRe = regexp.MustCompile("(?s)^\\s*```[a-zA-Z]*\\s*\\n?(.*?)\\n?\\s*```\\s*$")

var folder = cases.Fold()

// StripCodeFence removes a surrounding markdown code fence such as
// ```json ... ``` that chat models like to wrap JSON in.
func StripCodeFence(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

// Clean normalizes to NFC, drops control characters other than newlines and
// trims surrounding space.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// NameKey reduces a character name to a comparison key: NFC, full-width
// folded, case folded, with all whitespace and middle dots removed.
func NameKey(name string) string {
	s := width.Fold.String(norm.NFC.String(name))
	s = folder.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '·' || r == '•' {
			return -1
		}
		return r
	}, s)
}

// SameName reports whether two names refer to the same character.
func SameName(a, b string) bool {
	ka := NameKey(a)
	return ka != "" && ka == NameKey(b)
}
