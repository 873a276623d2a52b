// Package dedup tells which requisitions are new since the last run.
package dedup

import "careers-scraper/internal/domain"

// NewIDs returns the requisition ids of jobs not present in seen, in job order.
// Repeated ids in jobs are reported once.
func NewIDs(jobs []domain.JobPosting, seen map[string]bool) []string {
	out := []string{}
	reported := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.ReqID] || reported[j.ReqID] {
			continue
		}
		reported[j.ReqID] = true
		out = append(out, j.ReqID)
	}
	return out
}

// Set builds a lookup set from ids.
func Set(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = true
		}
	}
	return s
}
