// Package urlnorm canonicalizes user-supplied URL strings before fetching.
package urlnorm

import (
	"net/url"
	"strings"
)

// candidates lists the transformations tried in order when normalizing.
// The first transformation whose output parses to a URL with a host wins.
var candidates = []func(string) string{
	func(s string) string { return s },
	func(s string) string { return "https://" + s },
}

// IsValid reports whether s parses as an absolute http or https URL.
// Anything else, including parse failures, is rejected.
func IsValid(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Hostname() != ""
}

// Normalize attempts to parse s as-is and, failing that, with an https://
// prefix. It returns the canonical form and true on success, or "" and
// false when neither attempt yields a usable URL. A normalized string may
// still carry a non-http(s) scheme; callers must check IsValid on the
// result before using it.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, transform := range candidates {
		u, err := url.Parse(transform(s))
		// A parse can succeed with a degenerate authority (e.g. a bare
		// port separator), so require an actual hostname.
		if err != nil || u.Hostname() == "" || u.Scheme == "" {
			continue
		}
		if u.Path == "" {
			u.Path = "/"
		}
		return u.String(), true
	}
	return "", false
}
