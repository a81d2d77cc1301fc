// Package identifier provides the deterministic identity and text helpers
// used when deriving catalog documents from discovered candidates.
package identifier

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/heytulsiprasad/clawdex/internal/domain"
)

const (
	// maxSlugLength bounds generated slugs.
	maxSlugLength = 96
	// urlHashLength is the number of hex characters kept from the URL digest.
	urlHashLength = 16
	// ellipsis is appended by Truncate when text is cut.
	ellipsis = "..."
)

// Slugify converts text into a URL-safe slug: lowercased, runs of anything
// outside [a-z0-9] collapsed to a single hyphen, no leading or trailing
// hyphens, at most 96 characters. Deterministic; collisions resolve via
// create-or-replace semantics downstream.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(text) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return strings.Trim(slug, "-")
}

// HashURL returns the first 16 hex characters of the SHA-256 digest of the
// exact URL string. Same URL, same hash, every run.
func HashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:urlHashLength]
}

// Truncate cuts text to at most max characters. Unchanged text is returned
// as-is; otherwise the cut backs up to the preceding whitespace boundary and
// an ellipsis is appended. The result never exceeds max characters.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := string(runes[:max-len(ellipsis)])
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = strings.TrimRightFunc(cut[:idx], unicode.IsSpace)
	}
	return cut + ellipsis
}

// TotalEngagement sums likes, comments, shares and views, treating missing
// or negative counters as zero.
func TotalEngagement(e domain.Engagement) int {
	total := 0
	for _, n := range []int{e.Likes, e.Comments, e.Shares, e.Views} {
		if n > 0 {
			total += n
		}
	}
	return total
}
