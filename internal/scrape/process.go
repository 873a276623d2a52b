package scrape

import (
	"errors"
	"time"

	log "github.com/go-pkgz/lgr"

	"careers-scraper/internal/domain"
	"careers-scraper/internal/scrape/types"
	"careers-scraper/internal/scrape/workday"
)

// ProcessJobs normalizes every raw record, skipping (and logging) the ones
// that don't fit the schema and repeated requisition ids. Order is preserved.
func ProcessJobs(raws []workday.RawJob, board workday.Board, now time.Time) (jobs []domain.JobPosting, skipped int) {
	jobs = make([]domain.JobPosting, 0, len(raws))
	seen := make(map[string]bool, len(raws))

	for _, raw := range raws {
		j, err := Normalize(raw, board, now)
		if err != nil {
			var sm *types.SchemaMismatchError
			if errors.As(err, &sm) {
				log.Printf("[WARN] [normalize] skipped: %v", sm)
			} else {
				log.Printf("[WARN] [normalize] skipped %q: %v", raw.Posting.ExternalPath, err)
			}
			skipped++
			continue
		}
		if seen[j.ReqID] {
			log.Printf("[DEBUG] [normalize] duplicate req_id=%s title=%q dropped", j.ReqID, j.Title)
			continue
		}
		seen[j.ReqID] = true
		jobs = append(jobs, j)
	}
	return jobs, skipped
}
