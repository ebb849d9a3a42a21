package listing

import (
	"net/url"
	"strings"
)

// escapeSegment percent-encodes name for use as a relative URL path segment.
// Colons are encoded too, otherwise "javascript:x" would be read as a scheme.
func escapeSegment(name string) string {
	return strings.ReplaceAll(url.PathEscape(name), ":", "%3A")
}

func newEntryLink(name string, isDir bool) (href, display string) {
	href = escapeSegment(name)
	display = name
	if isDir {
		href += "/"
		display += "/"
	}
	return href, display
}

// redirectTarget returns the location a path without a trailing slash is
// redirected to. Leading slashes are collapsed so "//host" can't turn into a
// protocol-relative redirect.
func redirectTarget(u *url.URL) string {
	target := "/" + strings.TrimLeft(u.EscapedPath(), "/") + "/"
	if target == "//" {
		target = "/"
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}
