package listing

import (
	"sync"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

// Snapshot is a consistent copy of the store for rendering
type Snapshot struct {
	Query   Query
	Page    models.PageResult
	PerPage int
	Loading bool
	Loaded  bool  // at least one fetch succeeded
	Err     error // last fetch error while nothing has loaded yet
}

// DisplayRange returns the 1-based positions of the first and last posting on the
// current page, or 0,0 when there are none.
func (s Snapshot) DisplayRange() (first, last int) {
	return DisplayRange(s.Query.Page, s.PerPage, s.Page.Total)
}

// PageNumbers returns one entry per page
func (s Snapshot) PageNumbers() []int {
	pages := make([]int, 0, s.Page.Pages)
	for i := 1; i <= s.Page.Pages; i++ {
		pages = append(pages, i)
	}
	return pages
}

// DisplayRange computes the positions shown on page for a result of total items
func DisplayRange(page, perPage, total int) (first, last int) {
	if total <= 0 || perPage <= 0 || page <= 0 {
		return 0, 0
	}
	first = (page-1)*perPage + 1
	if first > total {
		return 0, 0
	}
	last = page * perPage
	if last > total {
		last = total
	}
	return first, last
}

// TotalPages is the number of pages needed to show total items
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Store owns the query state and the page result. Filter setters reset the page
// to 1; fetch results are applied only when they belong to the latest fetch.
type Store struct {
	mu         sync.Mutex
	query      Query
	page       models.PageResult
	perPage    int
	loading    bool
	loaded     bool
	err        error
	generation uint64
}

// NewStore creates a store with default filters
func NewStore(perPage int) *Store {
	if perPage <= 0 {
		perPage = models.DefaultPerPage
	}
	return &Store{
		query:   DefaultQuery(),
		perPage: perPage,
		page:    models.PageResult{Jobs: []models.Job{}},
	}
}

// Query returns the current query
func (s *Store) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetQuery replaces the whole query, e.g. when restoring it from a URL
func (s *Store) SetQuery(q Query) bool {
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.update(func(cur *Query) { *cur = q })
}

// SetSearch changes the search text and resets the page
func (s *Store) SetSearch(search string) bool {
	return s.update(func(q *Query) {
		q.Search = search
		q.Page = 1
	})
}

// SetJobType changes the job type filter and resets the page
func (s *Store) SetJobType(jobType string) bool {
	return s.update(func(q *Query) {
		q.JobType = orAll(jobType)
		q.Page = 1
	})
}

// SetLocation changes the location filter and resets the page
func (s *Store) SetLocation(location string) bool {
	return s.update(func(q *Query) {
		q.Location = orAll(location)
		q.Page = 1
	})
}

// SetTags changes the tags filter and resets the page
func (s *Store) SetTags(tags string) bool {
	return s.update(func(q *Query) {
		q.Tags = orAll(tags)
		q.Page = 1
	})
}

// SetSort changes the sort key and resets the page
func (s *Store) SetSort(sort models.SortKey) bool {
	if !sort.Valid() {
		sort = models.SortPostingDateDesc
	}
	return s.update(func(q *Query) {
		q.Sort = sort
		q.Page = 1
	})
}

// SetPage moves to another page without touching the filters
func (s *Store) SetPage(page int) bool {
	if page < 1 {
		page = 1
	}
	return s.update(func(q *Query) { q.Page = page })
}

// Clear restores every filter, the sort and the page to their defaults
func (s *Store) Clear() bool {
	return s.update(func(q *Query) { *q = DefaultQuery() })
}

// update applies fn and reports whether the effective query changed
func (s *Store) update(fn func(*Query)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.query
	fn(&s.query)
	return before != s.query
}

// Begin marks a fetch as started and returns its generation and parameters
func (s *Store) Begin() (uint64, models.ListParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.loading = true
	return s.generation, s.query.Params(s.perPage)
}

// Complete stores the result of fetch gen. Results from superseded fetches are
// dropped and false is returned.
func (s *Store) Complete(gen uint64, page models.PageResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	if page.Jobs == nil {
		page.Jobs = []models.Job{}
	}
	if page.Pages == 0 && page.Total > 0 {
		page.Pages = TotalPages(page.Total, s.perPage)
	}
	s.page = page
	s.loading = false
	s.loaded = true
	s.err = nil
	return true
}

// Fail records that fetch gen failed. The previous page stays in place.
func (s *Store) Fail(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.loading = false
	if !s.loaded {
		s.err = err
	}
	return true
}

// Reset forgets everything fetched so far, keeping the query
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.page = models.PageResult{Jobs: []models.Job{}}
	s.loading = false
	s.loaded = false
	s.err = nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.page
	page.Jobs = make([]models.Job, len(s.page.Jobs))
	copy(page.Jobs, s.page.Jobs)
	return Snapshot{
		Query:   s.query,
		Page:    page,
		PerPage: s.perPage,
		Loading: s.loading,
		Loaded:  s.loaded,
		Err:     s.err,
	}
}

func orAll(v string) string {
	if v == "" {
		return models.FilterAll
	}
	return v
}
