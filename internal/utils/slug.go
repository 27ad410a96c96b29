package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength leaves room in a varchar(255) column for a numeric suffix.
const MaxSlugLength = 200

// letters NFD does not decompose into a base letter plus a mark.
var ligatures = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "ae", "œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o", "ł", "l", "Ł", "l", "đ", "d", "Đ", "d", "þ", "th",
)

// Slugify turns a human-readable name into a lowercase URL-safe token:
// accents are stripped, any run of other characters becomes a single "-".
// The result may be empty.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, ligatures.Replace(name))
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))

	lastWasSep := true
	n := 0
	for _, r := range strings.ToLower(folded) {
		if n >= MaxSlugLength {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			n++
			continue
		}
		if !lastWasSep {
			b.WriteByte('-')
			lastWasSep = true
			n++
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
