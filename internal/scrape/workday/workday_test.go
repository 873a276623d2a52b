package workday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scraper/internal/scrape/session"
	"careers-scraper/internal/scrape/types"
)

// fakeBoard emulates the listing and detail endpoints of one tenant.
func fakeBoard(t *testing.T, jobs int, pageCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/wday/cxs/acme/Careers/jobs", func(w http.ResponseWriter, r *http.Request) {
		if pageCalls != nil {
			atomic.AddInt32(pageCalls, 1)
		}
		assert.Equal(t, http.MethodPost, r.Method)
		var req WDRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		page := Page{Postings: []Posting{}}
		if req.Offset == 0 {
			page.Total = jobs
		}
		for i := req.Offset; i < jobs && i < req.Offset+req.Limit; i++ {
			page.Postings = append(page.Postings, Posting{
				Title:         fmt.Sprintf("Engineer %d", i),
				ExternalPath:  fmt.Sprintf("/job/New-York/Engineer-%d_R%03d", i, i),
				LocationsText: "New York, NY",
				PostedOn:      "Posted 2 Days Ago",
				BulletFields:  []string{fmt.Sprintf("R%03d", i)},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("/wday/cxs/acme/Careers/job/", func(w http.ResponseWriter, r *http.Request) {
		var d Detail
		d.JobPostingInfo.Title = "Detail " + r.URL.Path
		d.JobPostingInfo.JobReqID = strings.TrimPrefix(r.URL.Path[strings.LastIndex(r.URL.Path, "_"):], "_")
		d.JobPostingInfo.StartDate = "2026-10-01"
		d.JobPostingInfo.TimeType = "Full time"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(d)
	})
	return httptest.NewServer(mux)
}

func newScraper(t *testing.T, url string, cfg Config) *Scraper {
	t.Helper()
	sess, err := session.Build(context.Background(), session.Static{"PLAY_SESSION": "x"}, session.Options{BoardURL: url + "/Careers"})
	require.NoError(t, err)
	cfg.BoardURL = url + "/Careers"
	cfg.Tenant = "acme"
	s, err := New(cfg, sess, nil)
	require.NoError(t, err)
	return s
}

func TestFetchAll(t *testing.T) {
	var calls int32
	ts := fakeBoard(t, 45, &calls)
	defer ts.Close()

	s := newScraper(t, ts.URL, Config{PageSize: 20, MaxJobs: 1000, FetchDetails: true})
	jobs, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 45)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "stops once total is reached")

	assert.Equal(t, "Engineer 0", jobs[0].Posting.Title)
	require.NotNil(t, jobs[44].Detail)
	assert.Equal(t, "R044", jobs[44].Detail.JobPostingInfo.JobReqID)
	assert.Equal(t, "Full time", jobs[44].Detail.JobPostingInfo.TimeType)
}

func TestFetchAllMaxJobs(t *testing.T) {
	var calls int32
	ts := fakeBoard(t, 100, &calls)
	defer ts.Close()

	s := newScraper(t, ts.URL, Config{PageSize: 20, MaxJobs: 30})
	jobs, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 30)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Nil(t, jobs[0].Detail, "details disabled")
}

func TestFetchAllEmpty(t *testing.T) {
	ts := fakeBoard(t, 0, nil)
	defer ts.Close()

	s := newScraper(t, ts.URL, Config{PageSize: 20, FetchDetails: true})
	jobs, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestFetchPageErrors(t *testing.T) {
	tbl := []struct {
		name    string
		handler http.HandlerFunc
		auth    bool
		status  int
	}{
		{"unauthorized", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"errorCode":"HTTP_401"}`, http.StatusUnauthorized)
		}, true, 401},
		{"forbidden", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}, true, 403},
		{"sign-in page", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Sign In</body></html>"))
		}, true, 200},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}, false, 502},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"total":`))
		}, false, 0},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			s := newScraper(t, ts.URL, Config{})
			_, err := s.FetchPage(context.Background(), 0)
			require.Error(t, err)

			var authErr *types.AuthenticationError
			var netErr *types.NetworkError
			if tt.auth {
				require.True(t, errors.As(err, &authErr), "got %T: %v", err, err)
				assert.Equal(t, tt.status, authErr.Status)
				assert.Contains(t, err.Error(), "refresh session cookies")
				assert.NotEmpty(t, authErr.StackTrace())
				return
			}
			require.True(t, errors.As(err, &netErr), "got %T: %v", err, err)
			assert.Equal(t, tt.status, netErr.Status)
			assert.False(t, errors.As(err, &authErr))
		})
	}
}

func TestFetchPageTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	s := newScraper(t, url, Config{})
	_, err := s.FetchPage(context.Background(), 0)
	var netErr *types.NetworkError
	require.True(t, errors.As(err, &netErr), "got %T: %v", err, err)
	assert.Equal(t, 0, netErr.Status)
}

func TestParseBoardURL(t *testing.T) {
	b, err := ParseBoardURL("https://guardianlife.wd5.myworkdayjobs.com/Guardian-Life-Careers", "")
	require.NoError(t, err)
	assert.Equal(t, "guardianlife", b.Tenant)
	assert.Equal(t, "Guardian-Life-Careers", b.Site)
	assert.Equal(t, "https://guardianlife.wd5.myworkdayjobs.com/wday/cxs/guardianlife/Guardian-Life-Careers/jobs", b.JobsEndpoint())
	assert.Equal(t, "https://guardianlife.wd5.myworkdayjobs.com/wday/cxs/guardianlife/Guardian-Life-Careers/job/NY/Analyst_R1",
		b.DetailEndpoint("/job/NY/Analyst_R1"))
	assert.Equal(t, "https://guardianlife.wd5.myworkdayjobs.com/Guardian-Life-Careers/job/NY/Analyst_R1", b.JobURL("job/NY/Analyst_R1"))

	b, err = ParseBoardURL("https://acme.wd1.myworkdayjobs.com/en-us/External/", "")
	require.NoError(t, err)
	assert.Equal(t, "en-US", b.Locale)
	assert.Equal(t, "External", b.Site)
	assert.Equal(t, "https://acme.wd1.myworkdayjobs.com/wday/cxs/acme/External/jobs?locale=en-US", b.JobsEndpoint())
	assert.Equal(t, "https://acme.wd1.myworkdayjobs.com/en-US/External/job/X_R2", b.JobURL("/job/X_R2"))

	_, err = ParseBoardURL("https://localhost/Careers", "")
	assert.Error(t, err, "tenant can't be derived")
	_, err = ParseBoardURL("https://acme.wd1.myworkdayjobs.com/", "")
	assert.Error(t, err, "no site")
	_, err = ParseBoardURL("", "")
	assert.Error(t, err)
}
