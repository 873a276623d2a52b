package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"careers-scraper/internal/secrets"
)

func TestParseCookieHeader(t *testing.T) {
	cookies, err := ParseCookieHeader("Cookie: PLAY_SESSION=abc; wd-browser-id=f2fc; timezoneOffset=-330")
	require.NoError(t, err)
	require.Len(t, cookies, 3)
	assert.Equal(t, "PLAY_SESSION", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.Equal(t, "-330", cookies[2].Value)

	cookies, err = ParseCookieHeader("   ")
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestSources(t *testing.T) {
	ctx := context.Background()

	st := Static{"b": "2", "a": "1"}
	cookies, err := st.Cookies(ctx)
	require.NoError(t, err)
	require.Len(t, cookies, 2)
	assert.Equal(t, "a", cookies[0].Name, "sorted by name")

	t.Setenv("TEST_SCRAPER_COOKIES", "x=1; y=2")
	cookies, err = Env{Var: "TEST_SCRAPER_COOKIES"}.Cookies(ctx)
	require.NoError(t, err)
	assert.Len(t, cookies, 2)

	keyring.MockInit()
	require.NoError(t, secrets.SetCookieHeader("acme/Careers", "k=v"))
	cookies, err = Keyring{Account: "acme/Careers"}.Cookies(ctx)
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "k", cookies[0].Name)

	chain := Chain{Env{Var: "TEST_SCRAPER_EMPTY"}, Keyring{Account: "acme/Careers"}, st}
	cookies, err = chain.Cookies(ctx)
	require.NoError(t, err)
	require.Len(t, cookies, 1, "first source with cookies wins")
	assert.Equal(t, "env:TEST_SCRAPER_EMPTY,keyring:acme/Careers,config", chain.Name())
}

func TestBuild(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	src := Static{"PLAY_SESSION": "sess", "CALYPSO_CSRF_TOKEN": "csrf-1"}
	s, err := Build(context.Background(), src, Options{
		BoardURL:  ts.URL + "/Careers/",
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cookies)
	assert.Equal(t, "config", s.Source)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/wday/cxs/acme/Careers/jobs", http.NoBody)
	require.NoError(t, err)
	s.Apply(req)
	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NotNil(t, got)
	assert.Equal(t, "test-agent", got.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "en-US", got.Header.Get("Accept-Language"))
	assert.Equal(t, ts.URL, got.Header.Get("Origin"))
	assert.Equal(t, ts.URL+"/Careers", got.Header.Get("Referer"))
	assert.Equal(t, "csrf-1", got.Header.Get("x-calypso-csrf-token"))
	c, err := got.Cookie("PLAY_SESSION")
	require.NoError(t, err)
	assert.Equal(t, "sess", c.Value)
}

func TestBuildBadURL(t *testing.T) {
	_, err := Build(context.Background(), nil, Options{BoardURL: "not a url"})
	assert.Error(t, err)
}
