package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, strips diacritics, collapses internal whitespace and
// trims it. "  Peluquería   ÁNGEL " becomes "peluqueria angel".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// DedupeKey returns the identity of a place: the provider id when present,
// otherwise normalized name and address joined by "|". It returns "" when
// neither identity is usable.
func DedupeKey(placeID, name, address string) string {
	if id := strings.TrimSpace(placeID); id != "" {
		return id
	}
	n, a := Normalize(name), Normalize(address)
	if n == "" || a == "" {
		return ""
	}
	return n + "|" + a
}
