package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const csrfCookie = "CALYPSO_CSRF_TOKEN"

type Options struct {
	BoardURL       string // careers site URL, used for origin/referer and cookie scope
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

// Session is an HTTP client primed with cookies and the browser-like headers
// the Workday API expects.
type Session struct {
	Client  *http.Client
	Source  string
	Cookies int

	header http.Header
}

func Build(ctx context.Context, src Source, opts Options) (*Session, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BoardURL))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("session: bad board url %q", opts.BoardURL)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}

	var cookies []*http.Cookie
	if src != nil {
		cookies, err = src.Cookies(ctx)
		if err != nil {
			return nil, fmt.Errorf("session: cookies from %s: %w", src.Name(), err)
		}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	root := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
	jar.SetCookies(root, cookies)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	h.Set("Accept-Language", firstNonEmpty(opts.AcceptLanguage, "en-US"))
	h.Set("User-Agent", firstNonEmpty(opts.UserAgent, "Mozilla/5.0"))
	h.Set("Origin", fmt.Sprintf("%s://%s", u.Scheme, u.Host))
	h.Set("Referer", strings.TrimRight(u.String(), "/"))

	// mirror the browser: the CSRF cookie is echoed back in a header
	for _, c := range cookies {
		if c.Name == csrfCookie && c.Value != "" {
			h.Set("x-calypso-csrf-token", c.Value)
		}
	}

	name := ""
	if src != nil {
		name = src.Name()
	}
	return &Session{
		Client:  &http.Client{Jar: jar, Timeout: timeout},
		Source:  name,
		Cookies: len(cookies),
		header:  h,
	}, nil
}

// Apply sets the session headers on req.
func (s *Session) Apply(req *http.Request) {
	for k, vals := range s.header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
