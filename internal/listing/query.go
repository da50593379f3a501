// Package listing holds the query state of the job board (filters, sort and page)
// and the last page result fetched for it.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

// Query is the combination of filters, sort and page controlling what is fetched
type Query struct {
	Search   string
	JobType  string
	Location string
	Tags     string
	Sort     models.SortKey
	Page     int
}

// DefaultQuery returns the query with every filter cleared
func DefaultQuery() Query {
	return Query{
		JobType:  models.FilterAll,
		Location: models.FilterAll,
		Tags:     models.FilterAll,
		Sort:     models.SortPostingDateDesc,
		Page:     1,
	}
}

// Params derives the list request for this query
func (q Query) Params(perPage int) models.ListParams {
	if perPage <= 0 {
		perPage = models.DefaultPerPage
	}
	return models.ListParams{
		Page:     q.Page,
		PerPage:  perPage,
		Search:   q.Search,
		JobType:  q.JobType,
		Location: q.Location,
		Tags:     q.Tags,
		Sort:     q.Sort,
	}
}

// ActiveFilterCount counts the filters that restrict results. Sort and page
// do not count.
func (q Query) ActiveFilterCount() int {
	count := 0
	if q.Search != "" {
		count++
	}
	for _, v := range []string{q.JobType, q.Location, q.Tags} {
		if isActive(v) {
			count++
		}
	}
	return count
}

// HasActiveFilters reports whether any filter is set
func (q Query) HasActiveFilters() bool {
	return q.ActiveFilterCount() > 0
}

// Values encodes the query as URL parameters, omitting defaults
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if isActive(q.JobType) {
		v.Set("job_type", q.JobType)
	}
	if isActive(q.Location) {
		v.Set("location", q.Location)
	}
	if isActive(q.Tags) {
		v.Set("tags", q.Tags)
	}
	if q.Sort != "" && q.Sort != models.SortPostingDateDesc {
		v.Set("sort", string(q.Sort))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// WithPage returns a copy of q pointing at another page
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// QueryFromValues parses URL parameters back into a query. Unknown sort keys and
// non-positive pages fall back to defaults.
func QueryFromValues(v url.Values) Query {
	q := DefaultQuery()
	q.Search = strings.TrimSpace(v.Get("search"))
	if s := v.Get("job_type"); s != "" {
		q.JobType = s
	}
	if s := v.Get("location"); s != "" {
		q.Location = s
	}
	if s := v.Get("tags"); s != "" {
		q.Tags = s
	}
	if s := models.SortKey(v.Get("sort")); s.Valid() {
		q.Sort = s
	}
	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	return q
}

func isActive(filter string) bool {
	return filter != "" && !strings.EqualFold(filter, models.FilterAll)
}
