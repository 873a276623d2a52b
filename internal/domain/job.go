package domain

// JobPosting is one normalized requisition. ReqID is the identity.
type JobPosting struct {
	ReqID               string `json:"reqId"`
	Title               string `json:"title"`
	Department          string `json:"department"` // not published by Workday CXS, always empty
	Location            string `json:"location"`
	AdditionalLocations string `json:"additionalLocations"`
	RemoteType          string `json:"remoteType"`
	TimeType            string `json:"timeType"`
	PostedDate          string `json:"postedDate"` // 2006-01-02, empty if unknown
	URL                 string `json:"url"`
	Description         string `json:"description"`
	ScrapedDate         string `json:"scrapedDate"`
}
