package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParsePostedAt understands the absolute forms Workday returns in detail
// payloads: RFC3339, YYYY-MM-DD and epoch seconds/ms.
func ParsePostedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return &t
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// >= 1e12 is ms
		var t time.Time
		if n >= 1_000_000_000_000 {
			t = time.UnixMilli(n)
		} else {
			t = time.Unix(n, 0)
		}
		return &t
	}
	return nil
}

var daysAgoRe = regexp.MustCompile(`(?i)posted\s+(\d+)\+?\s+days?\s+ago`)

// ParsePostedOn resolves listing text like "Posted 3 Days Ago" against now.
// "Posted 30+ Days Ago" resolves to 30 days back.
func ParsePostedOn(s string, now time.Time) *time.Time {
	low := strings.ToLower(CleanText(s))
	if low == "" {
		return nil
	}
	var t time.Time
	switch {
	case strings.Contains(low, "today"):
		t = now
	case strings.Contains(low, "yesterday"):
		t = now.AddDate(0, 0, -1)
	default:
		m := daysAgoRe.FindStringSubmatch(low)
		if m == nil {
			return nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		t = now.AddDate(0, 0, -n)
	}
	return &t
}
