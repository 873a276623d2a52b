package workday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	log "github.com/go-pkgz/lgr"

	"careers-scraper/internal/scrape/session"
	"careers-scraper/internal/scrape/types"
	"careers-scraper/internal/scrape/util"
)

type Config struct {
	BoardURL     string
	Tenant       string // derived from the host when empty
	PageSize     int
	MaxJobs      int
	FetchDetails bool
}

// Scraper talks to one Workday careers site. It is not safe for concurrent use;
// runs are sequential.
type Scraper struct {
	cfg     Config
	board   Board
	sess    *session.Session
	limiter *util.HostLimiter
}

type WDRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

// Page is one listing page. Workday reports Total on the first page only.
type Page struct {
	Total    int       `json:"total"`
	Postings []Posting `json:"jobPostings"`
}

type Posting struct {
	Title         string   `json:"title"`
	ExternalPath  string   `json:"externalPath"`
	LocationsText string   `json:"locationsText"`
	PostedOn      string   `json:"postedOn"`
	BulletFields  []string `json:"bulletFields"`
	RemoteType    string   `json:"remoteType"`
	TimeType      string   `json:"timeType"`
}

type Detail struct {
	JobPostingInfo struct {
		ID                  string   `json:"id"`
		Title               string   `json:"title"`
		JobDescription      string   `json:"jobDescription"`
		Location            string   `json:"location"`
		AdditionalLocations []string `json:"additionalLocations"`
		StartDate           string   `json:"startDate"`
		PostedOn            string   `json:"postedOn"`
		TimeType            string   `json:"timeType"`
		RemoteType          string   `json:"remoteType"`
		JobReqID            string   `json:"jobReqId"`
		ExternalURL         string   `json:"externalUrl"`
	} `json:"jobPostingInfo"`
}

// RawJob is a listing entry merged with its detail payload, if fetched.
type RawJob struct {
	Posting Posting
	Detail  *Detail
}

func New(cfg Config, sess *session.Session, limiter *util.HostLimiter) (*Scraper, error) {
	b, err := ParseBoardURL(cfg.BoardURL, cfg.Tenant)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New("workday: nil session")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = 1000
	}
	return &Scraper{cfg: cfg, board: b, sess: sess, limiter: limiter}, nil
}

func (s *Scraper) Board() Board { return s.board }

// FetchPage returns the postings at offset. An empty Postings slice means no more pages.
func (s *Scraper) FetchPage(ctx context.Context, offset int) (Page, error) {
	endpoint := s.board.JobsEndpoint()
	payload, err := json.Marshal(WDRequest{
		AppliedFacets: map[string]any{},
		Limit:         s.cfg.PageSize,
		Offset:        offset,
		SearchText:    "",
	})
	if err != nil {
		return Page{}, err
	}

	data, err := s.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return Page{}, err
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return Page{}, types.NewNetworkError("decode jobs", endpoint, 0,
			fmt.Errorf("%w body=%s", err, util.Truncate(string(data), 240)))
	}
	return page, nil
}

// FetchDetail returns the detail payload for one posting.
func (s *Scraper) FetchDetail(ctx context.Context, externalPath string) (Detail, error) {
	endpoint := s.board.DetailEndpoint(externalPath)
	data, err := s.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Detail{}, err
	}
	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return Detail{}, types.NewNetworkError("decode detail", endpoint, 0,
			fmt.Errorf("%w body=%s", err, util.Truncate(string(data), 240)))
	}
	return d, nil
}

// FetchAll pages through the listing until an empty page, the reported total
// or MaxJobs, then fetches details when enabled. Any error aborts the run.
func (s *Scraper) FetchAll(ctx context.Context) ([]RawJob, error) {
	log.Printf("[INFO] [workday] tenant=%s site=%s endpoint=%s", s.board.Tenant, s.board.Site, s.board.JobsEndpoint())

	var out []RawJob
	total := 0
	for offset := 0; offset < s.cfg.MaxJobs; offset += s.cfg.PageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.FetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		if page.Total > 0 {
			total = page.Total
		}
		if len(page.Postings) == 0 {
			log.Printf("[INFO] [workday] no more jobs at offset=%d, stopping", offset)
			break
		}
		for _, p := range page.Postings {
			if len(out) >= s.cfg.MaxJobs {
				break
			}
			out = append(out, RawJob{Posting: p})
		}
		log.Printf("[INFO] [workday] offset=%d +%d jobs (collected=%d total=%d)", offset, len(page.Postings), len(out), total)

		if total > 0 && offset+s.cfg.PageSize >= total {
			break
		}
	}

	if !s.cfg.FetchDetails {
		return out, nil
	}

	for i := range out {
		path := out[i].Posting.ExternalPath
		if strings.TrimSpace(path) == "" {
			continue
		}
		d, err := s.FetchDetail(ctx, path)
		if err != nil {
			return nil, err
		}
		out[i].Detail = &d
	}
	log.Printf("[INFO] [workday] details fetched for %d jobs", len(out))
	return out, nil
}

func (s *Scraper) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	s.sess.Apply(req)
	if payload == nil {
		req.Header.Del("Content-Type")
	}

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, endpoint); err != nil {
			return nil, err
		}
	}

	log.Printf("[DEBUG] [workday] %s %s", method, endpoint)
	res, err := s.sess.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, types.NewNetworkError(strings.ToLower(method), endpoint, 0, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, types.NewNetworkError("read "+strings.ToLower(method), endpoint, res.StatusCode, err)
	}

	if err := classify(res, data, endpoint); err != nil {
		return nil, err
	}
	return data, nil
}

// classify maps the response to the error kinds the pipeline cares about.
// An expired session shows up as 401/403 or as the HTML sign-in page.
func classify(res *http.Response, data []byte, endpoint string) error {
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		reason := http.StatusText(res.StatusCode)
		if looksLikeCloudflareBlock(res, string(data)) {
			reason += " (cloudflare challenge)"
		}
		return types.NewAuthenticationError(endpoint, res.StatusCode, reason)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return types.NewNetworkError("request", endpoint, res.StatusCode,
			fmt.Errorf("unexpected status body=%s", util.Truncate(string(data), 240)))
	case isHTML(res, data):
		return types.NewAuthenticationError(endpoint, res.StatusCode, "got an HTML page instead of JSON, session likely expired")
	}
	return nil
}

func isHTML(res *http.Response, data []byte) bool {
	if mt, _, err := mime.ParseMediaType(res.Header.Get("Content-Type")); err == nil && mt == "text/html" {
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return bytes.HasPrefix(trimmed, []byte("<"))
}

func looksLikeCloudflareBlock(resp *http.Response, body string) bool {
	server := strings.ToLower(resp.Header.Get("Server"))
	if strings.Contains(server, "cloudflare") && resp.Header.Get("CF-RAY") != "" {
		return true
	}
	low := strings.ToLower(body)
	return strings.Contains(low, "/cdn-cgi/") ||
		(strings.Contains(low, "cloudflare") && strings.Contains(low, "checking your browser"))
}
