package richtext

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func bodyPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).OnElements("p", "span")
		p.AllowAttrs("data-oembed", "data-oembed-type").OnElements("div")
		p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
		p.RequireNoFollowOnLinks(true)
		p.RequireNoReferrerOnLinks(true)
		policy = p
	})
	return policy
}

// Sanitize strips everything outside the allow-listed tags and attributes.
func Sanitize(markup string) string {
	return bodyPolicy().Sanitize(markup)
}

// SafeHTML renders rt and sanitizes the result.
func SafeHTML(rt RichText) string {
	return Sanitize(AsHTML(rt))
}
