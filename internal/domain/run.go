package domain

const (
	RunSuccess = "success"
	RunError   = "error"
)

// RunRecord is appended once per execution to the run history.
type RunRecord struct {
	Timestamp string   `json:"timestamp"`
	Date      string   `json:"date"`
	Status    string   `json:"status"`
	Fetched   int      `json:"records_scraped"`
	New       int      `json:"new_records"`
	Skipped   int      `json:"skipped_records"`
	Files     []string `json:"files"`
	Error     string   `json:"error,omitempty"`
}
