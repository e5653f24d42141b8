// Package normalize cleans user supplied strings: names, emails and website slugs.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	MinSlugLen = 3
	MaxSlugLen = 64
)

// Text trims and collapses internal whitespace.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NameKey folds a person name for case and accent insensitive matching.
func NameKey(s string) string {
	return strings.ToLower(foldAccents(Text(s)))
}

// Slug lowercases s, strips accents and replaces every run of other
// characters with a single dash.
func Slug(s string) string {
	folded := strings.ToLower(foldAccents(s))
	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '&':
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
			}
			b.WriteString("and-")
			dash = true
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > MaxSlugLen {
		out = strings.Trim(out[:MaxSlugLen], "-")
	}
	return out
}

// CoupleSlug builds the default website slug for two partner names.
func CoupleSlug(partnerOne, partnerTwo string) string {
	one := firstWord(partnerOne)
	two := firstWord(partnerTwo)
	switch {
	case one != "" && two != "":
		return Slug(one + " and " + two)
	case one != "":
		return Slug(one)
	default:
		return Slug(two)
	}
}

// ValidSlug reports whether s is already in canonical slug form.
func ValidSlug(s string) bool {
	if len(s) < MinSlugLen || len(s) > MaxSlugLen {
		return false
	}
	return Slug(s) == s
}

func firstWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
