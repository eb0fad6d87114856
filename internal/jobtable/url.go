package jobtable

import "net/url"

// NormalizeURL collapses a YouTube watch URL to its minimal addressable
// form, stripping playlist, radio, and embedded-timestamp parameters.
// Anything it cannot make sense of is returned unchanged; normalization
// never fails and is idempotent.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if id := u.Query().Get("v"); id != "" {
		return "https://www.youtube.com/watch?v=" + id
	}
	return raw
}
