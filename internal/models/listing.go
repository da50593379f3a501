package models

// SortKey selects the ordering of the job list
type SortKey string

const (
	SortPostingDateDesc SortKey = "posting_date_desc"
	SortPostingDateAsc  SortKey = "posting_date_asc"
	SortTitleAsc        SortKey = "title_asc"
	SortTitleDesc       SortKey = "title_desc"
	SortCompanyAsc      SortKey = "company_asc"
	SortCompanyDesc     SortKey = "company_desc"
)

// SortKeys lists the sort options in the order the filter bar shows them
var SortKeys = []SortKey{
	SortPostingDateDesc,
	SortPostingDateAsc,
	SortTitleAsc,
	SortTitleDesc,
	SortCompanyAsc,
	SortCompanyDesc,
}

var sortLabels = map[SortKey]string{
	SortPostingDateDesc: "Date Posted: Newest First",
	SortPostingDateAsc:  "Date Posted: Oldest First",
	SortTitleAsc:        "Title A-Z",
	SortTitleDesc:       "Title Z-A",
	SortCompanyAsc:      "Company A-Z",
	SortCompanyDesc:     "Company Z-A",
}

// Valid reports whether k is a supported sort key
func (k SortKey) Valid() bool {
	_, ok := sortLabels[k]
	return ok
}

// Label returns the human readable name of the sort key
func (k SortKey) Label() string {
	if label, ok := sortLabels[k]; ok {
		return label
	}
	return string(k)
}

// DefaultPerPage is the fixed page size used by the board
const DefaultPerPage = 5

// FilterAll is the filter value meaning "no restriction"
const FilterAll = "All"

// ListParams are the query parameters of GET /jobs
type ListParams struct {
	Page     int     `url:"page"`
	PerPage  int     `url:"per_page"`
	Search   string  `url:"search,omitempty"`
	JobType  string  `url:"job_type,omitempty"`
	Location string  `url:"location,omitempty"`
	Tags     string  `url:"tags,omitempty"`
	Sort     SortKey `url:"sort,omitempty"`
}

// PageResult is one page of postings plus pagination metadata
type PageResult struct {
	Jobs        []Job `json:"jobs"`
	Total       int   `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// FilterOptions are the distinct values offered by the filter dropdowns
type FilterOptions struct {
	JobTypes  []string `json:"job_types"`
	Locations []string `json:"locations"`
	Tags      []string `json:"tags"`
}
