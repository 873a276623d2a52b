package util

import (
	"net/url"
	"strings"
)

// trackingParams are added to Workday posting links by job boards and ads.
var trackingParams = map[string]bool{
	"source": true,
	"src":    true,
	"ref":    true,
	"gclid":  true,
	"fbclid": true,
}

// CleanJobURL reduces a posting link to what identifies the posting: the host
// is lowercased, the fragment and tracking params are dropped. Links without
// a host are returned trimmed.
func CleanJobURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if trackingParams[lk] || strings.HasPrefix(lk, "utm_") {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
