package share

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractTitle derives a display title from the URL host: "www." and ".com"
// are dropped and words are capitalized. The raw string is returned when
// there is no host.
func ExtractTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	host := strings.ReplaceAll(u.Hostname(), "www.", "")
	host = strings.ReplaceAll(host, ".com", "")
	return Capitalize(host)
}

// DetermineType guesses a lowercase type label from the URL text.
func DetermineType(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube"), strings.Contains(lower, "vimeo"), strings.Contains(lower, "tiktok"):
		return "video"
	case strings.Contains(lower, "amazon"), strings.Contains(lower, "shop"):
		return "product"
	case strings.Contains(lower, "twitter"), strings.Contains(lower, "tweet"):
		return "tweet"
	default:
		return "article"
	}
}

// Capitalize upper-cases the first letter of every word and lower-cases the
// rest. Words are runs of letters and digits.
func Capitalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			start = false
			continue
		}
		b.WriteRune(r)
		start = true
	}
	return b.String()
}
