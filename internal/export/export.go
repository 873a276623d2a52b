// Package export renders one run's postings to xlsx, csv and json. All three
// carry the same columns in the same order.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/go-pkgz/lgr"

	"careers-scraper/internal/domain"
)

// Columns is the header shared by every format.
var Columns = []string{
	"Scraped Date",
	"Job ID",
	"Job Title",
	"Department",
	"Location",
	"Additional Locations",
	"Remote Type",
	"Time Type",
	"Posted Date",
	"Application URL",
	"New",
	"Job Description",
}

// Record is one exported row. JSON tags match Columns.
type Record struct {
	ScrapedDate         string `json:"Scraped Date"`
	ReqID               string `json:"Job ID"`
	Title               string `json:"Job Title"`
	Department          string `json:"Department"`
	Location            string `json:"Location"`
	AdditionalLocations string `json:"Additional Locations"`
	RemoteType          string `json:"Remote Type"`
	TimeType            string `json:"Time Type"`
	PostedDate          string `json:"Posted Date"`
	URL                 string `json:"Application URL"`
	New                 string `json:"New"`
	Description         string `json:"Job Description"`
}

func (r Record) values() []string {
	return []string{
		r.ScrapedDate, r.ReqID, r.Title, r.Department, r.Location, r.AdditionalLocations,
		r.RemoteType, r.TimeType, r.PostedDate, r.URL, r.New, r.Description,
	}
}

func recordFromValues(header, vals []string) Record {
	m := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(vals) {
			m[strings.TrimSpace(h)] = vals[i]
		}
	}
	return Record{
		ScrapedDate:         m["Scraped Date"],
		ReqID:               m["Job ID"],
		Title:               m["Job Title"],
		Department:          m["Department"],
		Location:            m["Location"],
		AdditionalLocations: m["Additional Locations"],
		RemoteType:          m["Remote Type"],
		TimeType:            m["Time Type"],
		PostedDate:          m["Posted Date"],
		URL:                 m["Application URL"],
		New:                 m["New"],
		Description:         m["Job Description"],
	}
}

// Rows converts postings to records, flagging the ones in newIDs.
func Rows(jobs []domain.JobPosting, newIDs map[string]bool) []Record {
	out := make([]Record, 0, len(jobs))
	for _, j := range jobs {
		isNew := "No"
		if newIDs[j.ReqID] {
			isNew = "Yes"
		}
		out = append(out, Record{
			ScrapedDate:         j.ScrapedDate,
			ReqID:               j.ReqID,
			Title:               j.Title,
			Department:          j.Department,
			Location:            j.Location,
			AdditionalLocations: j.AdditionalLocations,
			RemoteType:          j.RemoteType,
			TimeType:            j.TimeType,
			PostedDate:          j.PostedDate,
			URL:                 j.URL,
			New:                 isNew,
			Description:         j.Description,
		})
	}
	return out
}

// IDs lists the requisition ids of records.
func IDs(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ReqID)
	}
	return out
}

type Options struct {
	Dir    string
	Prefix string
	Excel  bool
	CSV    bool
	JSON   bool
}

// Path is the export file for date and extension ("xlsx", "csv", "json").
func (o Options) Path(date, ext string) string {
	return filepath.Join(o.Dir, fmt.Sprintf("%s_%s.%s", o.Prefix, date, ext))
}

// Write renders recs to every enabled format and returns the written paths.
// Files are overwritten in place; a failure can leave a partial set behind.
func Write(opts Options, date string, recs []Record) ([]string, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create %s: %w", opts.Dir, err)
	}

	var files []string
	if opts.Excel {
		p := opts.Path(date, "xlsx")
		if err := WriteXLSX(p, recs); err != nil {
			return files, err
		}
		files = append(files, p)
		log.Printf("[INFO] [export] excel saved: %s", filepath.Base(p))
	}
	if opts.CSV {
		p := opts.Path(date, "csv")
		if err := WriteCSV(p, recs); err != nil {
			return files, err
		}
		files = append(files, p)
		log.Printf("[INFO] [export] csv saved: %s", filepath.Base(p))
	}
	if opts.JSON {
		p := opts.Path(date, "json")
		if err := WriteJSON(p, recs); err != nil {
			return files, err
		}
		files = append(files, p)
		log.Printf("[INFO] [export] json saved: %s", filepath.Base(p))
	}
	return files, nil
}

// LatestJSON returns the most recent JSON export in dir, empty if there is none.
// File names embed the date, so lexical order is chronological.
func LatestJSON(dir, prefix string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
