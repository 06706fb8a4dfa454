package sanitizer

import (
	"net/url"
	"strings"
)

// SanitizeURL accepts absolute http(s) URLs only; anything else
// (javascript:, data:, relative paths) comes back empty.
func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}
