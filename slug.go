package folio

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds generated slugs.
const MaxSlugLength = 64

// GenerateSlug derives a URL-safe slug from name: lowercase ASCII letters,
// digits and single hyphens. Accents are folded to their base letter. An
// empty result means the caller still has to pick one.
func GenerateSlug(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range norm.NFKD.String(name) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
		if b.Len() >= MaxSlugLength {
			break
		}
	}
	slug := b.String()
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}
	return strings.Trim(slug, "-")
}
