package workday

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Board identifies one Workday careers site.
type Board struct {
	Scheme string
	Host   string
	Tenant string
	Site   string
	Locale string
}

// ParseBoardURL splits a careers site URL such as
// https://acme.wd5.myworkdayjobs.com/en-US/Careers into its parts. The tenant is
// the first host label unless tenant is given.
func ParseBoardURL(raw, tenant string) (Board, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Board{}, errors.New("empty board url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Board{}, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return Board{}, fmt.Errorf("missing host in %q", raw)
	}

	tenant = strings.TrimSpace(tenant)
	if tenant == "" {
		parts := strings.Split(u.Hostname(), ".")
		if len(parts) < 3 {
			return Board{}, fmt.Errorf("unexpected host %q, set the tenant explicitly", u.Host)
		}
		tenant = parts[0]
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return Board{}, fmt.Errorf("unexpected path %q", u.Path)
	}

	// locale prefix like "en-US" (case-insensitive)
	locale := ""
	if len(segs) >= 2 && looksLikeLocale(segs[0]) {
		locale = normalizeLocale(segs[0])
		segs = segs[1:]
	}

	site := segs[len(segs)-1]
	if site == "" {
		return Board{}, fmt.Errorf("could not derive site from path %q", u.Path)
	}

	return Board{
		Scheme: u.Scheme,
		Host:   u.Host,
		Tenant: tenant,
		Site:   site,
		Locale: locale,
	}, nil
}

func looksLikeLocale(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	return isAlpha(s[0:2]) && isAlpha(s[3:5])
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 5 && s[2] == '-' {
		return strings.ToLower(s[0:2]) + "-" + strings.ToUpper(s[3:5])
	}
	return s
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func (b Board) apiBase() string {
	return fmt.Sprintf("%s://%s/wday/cxs/%s/%s", b.Scheme, b.Host, b.Tenant, b.Site)
}

// JobsEndpoint is the paginated listing endpoint.
func (b Board) JobsEndpoint() string {
	base := b.apiBase() + "/jobs"
	if b.Locale == "" {
		return base
	}
	return base + "?locale=" + url.QueryEscape(b.Locale)
}

// DetailEndpoint is the per-posting endpoint for an externalPath like /job/City/Title_R123.
func (b Board) DetailEndpoint(externalPath string) string {
	p := strings.TrimSpace(externalPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return b.apiBase() + p
}

// JobURL is the public page of a posting.
func (b Board) JobURL(externalPath string) string {
	path := strings.TrimSpace(externalPath)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	prefix := ""
	if b.Locale != "" {
		prefix = "/" + b.Locale
	}
	return fmt.Sprintf("%s://%s%s/%s%s", b.Scheme, b.Host, prefix, b.Site, path)
}
