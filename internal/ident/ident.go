// Package ident holds identifier and hashing helpers: slug derivation,
// email normalization, and content hashing for consent logging.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 80

// stripDiacritics decomposes to NFD and drops combining marks, so
// "Soirée d'été" slugs the same as "Soiree d'ete".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func slugify(s, sep string) string {
	folded, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pending := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteString(sep)
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}
	out := b.String()
	if len(out) > maxSlugLen {
		out = strings.Trim(out[:maxSlugLen], sep)
	}
	return out
}

// Slug derives a URL-safe, hyphen-separated slug from an event title.
func Slug(title string) string {
	return slugify(title, "-")
}

// CodeFromMessage derives an underscore-separated machine code from an
// error message, used only as a fallback when no explicit code is set.
func CodeFromMessage(msg string) string {
	return slugify(msg, "_")
}

// NormalizeEmail trims and lower-cases an address for duplicate matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SHA256Hex returns the lower-case hex SHA-256 digest of the input.
func SHA256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
