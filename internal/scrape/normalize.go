package scrape

import (
	"strings"
	"time"

	"careers-scraper/internal/domain"
	"careers-scraper/internal/scrape/types"
	"careers-scraper/internal/scrape/util"
	"careers-scraper/internal/scrape/workday"
)

// Normalize maps a raw Workday record to a JobPosting. Detail values win over
// listing values. A record without req id, title, location or URL is rejected
// with a SchemaMismatchError.
func Normalize(raw workday.RawJob, board workday.Board, now time.Time) (domain.JobPosting, error) {
	p := raw.Posting
	var d workday.Detail
	if raw.Detail != nil {
		d = *raw.Detail
	}
	info := d.JobPostingInfo

	var bullet string
	if len(p.BulletFields) > 0 {
		bullet = p.BulletFields[0]
	}

	title := util.CleanText(util.FirstNonEmpty(info.Title, p.Title))
	location := util.NormalizeLocation(util.FirstNonEmpty(info.Location, p.LocationsText))
	jobURL := util.FirstNonEmpty(info.ExternalURL, board.JobURL(p.ExternalPath))

	posted := util.ParsePostedAt(info.StartDate)
	if posted == nil {
		posted = util.ParsePostedOn(util.FirstNonEmpty(info.PostedOn, p.PostedOn), now)
	}
	postedDate := ""
	if posted != nil {
		postedDate = posted.Format(util.DateLayout)
	}

	remote := util.FirstNonEmpty(info.RemoteType, p.RemoteType)
	if remote == "" {
		remote = util.InferWorkMode(location, title)
	}

	out := domain.JobPosting{
		ReqID:               util.CleanText(util.FirstNonEmpty(info.JobReqID, bullet)),
		Title:               title,
		Location:            location,
		AdditionalLocations: util.JoinList(info.AdditionalLocations),
		RemoteType:          util.CleanText(remote),
		TimeType:            util.CleanText(util.FirstNonEmpty(info.TimeType, p.TimeType)),
		PostedDate:          postedDate,
		URL:                 util.CleanJobURL(jobURL),
		Description:         util.HTMLToText(info.JobDescription),
		ScrapedDate:         now.Format(util.DateLayout),
	}

	var missing []string
	if out.ReqID == "" {
		missing = append(missing, "req_id")
	}
	if out.Title == "" {
		missing = append(missing, "title")
	}
	if out.Location == "" {
		missing = append(missing, "location")
	}
	if out.URL == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		ref := strings.TrimSpace(util.FirstNonEmpty(p.ExternalPath, p.Title, info.ID))
		return domain.JobPosting{}, &types.SchemaMismatchError{Ref: ref, Missing: missing}
	}
	return out, nil
}
