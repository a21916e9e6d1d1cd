// Package textnorm canonicalizes free text for dictionary matching.
// Clinical staff type diagnoses with inconsistent casing and accents, so every
// comparison in the registry goes through Normalize first.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims surrounding whitespace and removes combining
// diacritical marks, so "Hipertensión " and "hipertension" compare equal.
// It is pure and idempotent; malformed UTF-8 falls back to the lowercased input.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	stripped, _, err := transform.String(stripAccents, text)
	if err != nil {
		return text
	}
	return stripped
}
