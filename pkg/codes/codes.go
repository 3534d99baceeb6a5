// Package codes normalises the business codes used as natural keys.
package codes

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxLen is the column size of every code.
const MaxLen = 64

// Normalize trims and upper-cases a user supplied code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Slugify derives a code from a display name: letters and digits are kept,
// every other run of characters collapses into a single dash. The result is
// cut to MaxLen runes.
func Slugify(value string) string {
	upper := strings.ToUpper(strings.TrimSpace(value))
	var b strings.Builder
	lastDash := false
	for _, r := range upper {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := b.String()
	if r := []rune(slug); len(r) > MaxLen {
		slug = string(r[:MaxLen])
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return strings.ToUpper(uuid.NewString())
	}
	return slug
}
