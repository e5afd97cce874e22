package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	pagePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		pagePolicy = bluemonday.UGCPolicy()
		pagePolicy.AllowAttrs("class").Matching(regexp.MustCompile(`^btn$`)).OnElements("a")
	})
}

// StripHTML removes all markup and returns plain text with entities decoded,
// trimmed of surrounding whitespace. Use it for user-submitted fields that
// are rendered as text.
func StripHTML(s string) string {
	initPolicies()
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeHTML keeps formatting markup (headings, lists, links, tables) and
// drops scripts, event handlers and unsafe URLs. Links may keep class="btn".
func SanitizeHTML(s string) string {
	initPolicies()
	return pagePolicy.Sanitize(s)
}
