package listing

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

func TestFilterChangesResetPage(t *testing.T) {
	setters := map[string]func(*Store) bool{
		"search":   func(s *Store) bool { return s.SetSearch("actuary") },
		"job type": func(s *Store) bool { return s.SetJobType("Contract") },
		"location": func(s *Store) bool { return s.SetLocation("Remote") },
		"tags":     func(s *Store) bool { return s.SetTags("Life") },
		"sort":     func(s *Store) bool { return s.SetSort(models.SortCompanyAsc) },
	}

	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			s := NewStore(5)
			require.True(t, s.SetPage(3))
			assert.True(t, set(s))
			assert.Equal(t, 1, s.Query().Page)
		})
	}
}

func TestSetPageKeepsFilters(t *testing.T) {
	s := NewStore(5)
	s.SetSearch("pricing")
	s.SetLocation("London, UK")

	assert.True(t, s.SetPage(2))
	q := s.Query()
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, "pricing", q.Search)
	assert.Equal(t, "London, UK", q.Location)

	assert.False(t, s.SetPage(2), "same page is not a change")
}

func TestClearRestoresDefaults(t *testing.T) {
	s := NewStore(5)
	s.SetSearch("pricing")
	s.SetJobType("Contract")
	s.SetLocation("Remote")
	s.SetTags("Life")
	s.SetSort(models.SortTitleDesc)
	s.SetPage(4)

	assert.True(t, s.Clear())
	assert.Equal(t, DefaultQuery(), s.Query())
	assert.Equal(t, 1, s.Query().Page)
	assert.False(t, s.Clear(), "clearing a clean query changes nothing")
}

func TestUnchangedFilterIsNotAChange(t *testing.T) {
	s := NewStore(5)
	assert.False(t, s.SetJobType(models.FilterAll))
	assert.False(t, s.SetJobType(""))
	assert.False(t, s.SetSort(models.SortPostingDateDesc))
	assert.False(t, s.SetSort("bogus"), "unknown sort falls back to the default")
}

func TestDisplayRange(t *testing.T) {
	tests := []struct {
		page, perPage, total int
		first, last          int
	}{
		{1, 5, 12, 1, 5},
		{2, 5, 12, 6, 10},
		{3, 5, 12, 11, 12},
		{4, 5, 12, 0, 0},
		{1, 5, 0, 0, 0},
	}
	for _, tt := range tests {
		first, last := DisplayRange(tt.page, tt.perPage, tt.total)
		assert.Equal(t, tt.first, first, "page %d", tt.page)
		assert.Equal(t, tt.last, last, "page %d", tt.page)
	}
	assert.Equal(t, 3, TotalPages(12, 5))
	assert.Equal(t, 0, TotalPages(0, 5))
}

func TestSnapshotSelectors(t *testing.T) {
	s := NewStore(5)
	s.SetPage(3)
	gen, params := s.Begin()
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 5, params.PerPage)

	require.True(t, s.Complete(gen, models.PageResult{
		Jobs:  []models.Job{{ID: 11}, {ID: 12}},
		Total: 12,
	}))

	snap := s.Snapshot()
	first, last := snap.DisplayRange()
	assert.Equal(t, 11, first)
	assert.Equal(t, 12, last)
	assert.Equal(t, 3, snap.Page.Pages, "pages derived from total when the server omits it")
	assert.Equal(t, []int{1, 2, 3}, snap.PageNumbers())
	assert.False(t, snap.Loading)
	assert.True(t, snap.Loaded)
}

func TestStaleResultsAreDropped(t *testing.T) {
	s := NewStore(5)

	oldGen, _ := s.Begin()
	s.SetSearch("newer")
	newGen, params := s.Begin()
	assert.Equal(t, "newer", params.Search)

	assert.True(t, s.Complete(newGen, models.PageResult{Jobs: []models.Job{{ID: 2}}, Total: 1, Pages: 1}))
	assert.False(t, s.Complete(oldGen, models.PageResult{Jobs: []models.Job{{ID: 1}}, Total: 1, Pages: 1}))
	assert.False(t, s.Fail(oldGen, errors.New("late failure")))

	snap := s.Snapshot()
	require.Len(t, snap.Page.Jobs, 1)
	assert.Equal(t, int64(2), snap.Page.Jobs[0].ID)
	assert.NoError(t, snap.Err)
}

func TestFailureKeepsPreviousPage(t *testing.T) {
	s := NewStore(5)
	gen, _ := s.Begin()
	s.Complete(gen, models.PageResult{Jobs: []models.Job{{ID: 1}}, Total: 1, Pages: 1})

	gen, _ = s.Begin()
	assert.True(t, s.Snapshot().Loading)
	assert.True(t, s.Fail(gen, errors.New("boom")))

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Page.Jobs, 1)
	assert.NoError(t, snap.Err, "errors only surface before the first successful load")
}

func TestInitialFailureSetsErr(t *testing.T) {
	s := NewStore(5)
	gen, _ := s.Begin()
	s.Fail(gen, errors.New("boom"))
	assert.EqualError(t, s.Snapshot().Err, "boom")

	s.Reset()
	assert.NoError(t, s.Snapshot().Err)
}

func TestActiveFilterCount(t *testing.T) {
	q := DefaultQuery()
	assert.Equal(t, 0, q.ActiveFilterCount())
	assert.False(t, q.HasActiveFilters())

	q.Search = "go"
	q.Tags = "Life"
	q.Sort = models.SortTitleAsc
	q.Page = 2
	assert.Equal(t, 2, q.ActiveFilterCount())
	assert.True(t, q.HasActiveFilters())
}

func TestQueryValuesRoundTrip(t *testing.T) {
	q := DefaultQuery()
	assert.Empty(t, q.Values())

	q.Search = "pricing"
	q.Location = "Remote"
	q.Sort = models.SortCompanyDesc
	q.Page = 2

	v := q.Values()
	assert.Equal(t, "pricing", v.Get("search"))
	assert.Empty(t, v.Get("job_type"))
	assert.Equal(t, q, QueryFromValues(v))

	bad := QueryFromValues(url.Values{"sort": {"salary"}, "page": {"-2"}})
	assert.Equal(t, DefaultQuery(), bad)
}
