package sink

import (
	"strings"
	"unicode/utf8"
)

const (
	maxSheetNameRunes = 100
	fallbackSheetName = "Resultados"
)

var disallowed = strings.NewReplacer(
	":", "-",
	"\\", "-",
	"/", "-",
	"?", "-",
	"*", "-",
	"[", "-",
	"]", "-",
)

// SheetName derives the destination tab for a city, optionally suffixed with
// the country. Characters rejected by spreadsheet tab names are replaced, the
// result is capped at 100 runes and never empty.
func SheetName(city, country string, includeCountry bool) string {
	name := strings.TrimSpace(city)
	if includeCountry && strings.TrimSpace(country) != "" {
		if name == "" {
			name = strings.TrimSpace(country)
		} else {
			name += " - " + strings.TrimSpace(country)
		}
	}
	return SanitizeSheetName(name)
}

// SanitizeSheetName makes name safe to use as a tab title.
func SanitizeSheetName(name string) string {
	name = disallowed.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	// A leading or trailing apostrophe breaks A1 quoting.
	name = strings.Trim(name, "' ")

	if utf8.RuneCountInString(name) > maxSheetNameRunes {
		name = strings.TrimSpace(string([]rune(name)[:maxSheetNameRunes]))
	}
	if name == "" {
		return fallbackSheetName
	}
	return name
}
