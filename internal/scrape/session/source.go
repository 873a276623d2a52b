package session

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"

	"careers-scraper/internal/secrets"
)

// Source supplies the session cookies copied from a logged-in browser.
// Swapping the Source is the only thing needed to change how credentials are kept.
type Source interface {
	Name() string
	Cookies(ctx context.Context) ([]*http.Cookie, error)
}

// Static serves cookies from config.
type Static map[string]string

func (s Static) Name() string { return "config" }

func (s Static) Cookies(context.Context) ([]*http.Cookie, error) {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]*http.Cookie, 0, len(s))
	for _, k := range names {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, &http.Cookie{Name: k, Value: s[k]})
	}
	return out, nil
}

// Env reads a "Cookie:" header value from an environment variable.
type Env struct {
	Var string
}

func (e Env) Name() string { return "env:" + e.Var }

func (e Env) Cookies(context.Context) ([]*http.Cookie, error) {
	if e.Var == "" {
		return nil, nil
	}
	return ParseCookieHeader(os.Getenv(e.Var))
}

// Keyring reads a cookie header stored in the OS keychain.
type Keyring struct {
	Account string
}

func (k Keyring) Name() string { return "keyring:" + k.Account }

func (k Keyring) Cookies(context.Context) ([]*http.Cookie, error) {
	h, err := secrets.GetCookieHeader(k.Account)
	if err != nil {
		return nil, err
	}
	return ParseCookieHeader(h)
}

// Chain returns the cookies of the first source that has any.
type Chain []Source

func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name())
	}
	return strings.Join(names, ",")
}

func (c Chain) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	for _, s := range c {
		cookies, err := s.Cookies(ctx)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil
}

// ParseCookieHeader accepts "a=1; b=2", with or without a leading "Cookie:".
func ParseCookieHeader(h string) ([]*http.Cookie, error) {
	h = strings.TrimSpace(h)
	if len(h) >= 7 && strings.EqualFold(h[:7], "cookie:") {
		h = strings.TrimSpace(h[7:])
	}
	if h == "" {
		return nil, nil
	}
	return http.ParseCookie(h)
}
