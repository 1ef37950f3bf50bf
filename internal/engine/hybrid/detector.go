// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"
	"unicode/utf8"

	urlutil "github.com/law-makers/pagesift/internal/utils/url"
	"github.com/law-makers/pagesift/pkg/models"
)

// MinStaticText is the total section text, in characters, below which a
// static result is considered too thin to trust.
const MinStaticText = 300

// IsJSHeavy reports whether the host of url is, or is a subdomain of, one of
// the listed domains. Comparison ignores case and a leading "www.".
func IsJSHeavy(url string, domains []string) bool {
	host := urlutil.Hostname(url)
	if host == "" {
		return false
	}
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// TextLength sums the characters of every section's text
func TextLength(sections []models.Section) int {
	n := 0
	for _, s := range sections {
		n += utf8.RuneCountInString(s.Content.Text)
	}
	return n
}
