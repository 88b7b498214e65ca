package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9]+")
	ligatures   = strings.NewReplacer("ß", "ss", "æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE", "ø", "o", "Ø", "O")
)

const maxSlugLength = 80

// GenerateSlug turns product names and file names into URL-safe ASCII,
// e.g. "Feijão Carioca 1kg" -> "feijao-carioca-1kg".
func GenerateSlug(text string) string {
	text = ligatures.Replace(text)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	text, _, _ = transform.String(t, text)

	text = strings.ToLower(text)
	text = slugInvalid.ReplaceAllString(text, "-")
	text = strings.Trim(text, "-")

	if len(text) > maxSlugLength {
		text = strings.TrimRight(text[:maxSlugLength], "-")
	}

	return text
}
