package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/jobdesk/internal/board"
	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/listing"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

func init() {
	pterm.DisableColor()
}

func plain(s string) string {
	return pterm.RemoveColorFromString(s)
}

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleJob() models.Job {
	return models.Job{
		ID:              4,
		Title:           "Pricing Actuary",
		Company:         "ABC Insurance",
		JobType:         models.JobTypeContract,
		Tags:            models.Tags{"Pricing", "P&C"},
		Description:     "<p>Build rating models.</p><ul><li>Python</li><li>Emblem</li></ul>",
		SalaryRange:     models.NotSpecified,
		ExperienceLevel: models.ExperienceMid,
		PostingDate:     models.Timestamp{Time: now.Add(-72 * time.Hour)},
	}
}

func TestRenderCard(t *testing.T) {
	out := plain(RenderCard(sampleJob(), CardOptions{Full: true, Now: now}))

	assert.Contains(t, out, "Pricing Actuary")
	assert.Contains(t, out, "ABC Insurance")
	assert.Contains(t, out, "Remote", "missing location shows as remote")
	assert.Contains(t, out, "[Contract]")
	assert.Contains(t, out, "Experience: Mid Level")
	assert.NotContains(t, out, "Salary:", "placeholder salary is hidden")
	assert.Contains(t, out, "#Pricing #P&C")
	assert.Contains(t, out, "Posted: Mar 7, 2024 (3 days ago)")
	assert.Contains(t, out, "Build rating models.")
	assert.NotContains(t, out, "<li>")
}

func TestPlainDescription(t *testing.T) {
	assert.Equal(t, "Build rating models.\nPython\nEmblem", PlainDescription(sampleJob().Description))
	assert.Equal(t, "No markup here", PlainDescription("  No markup here "))
	assert.Equal(t, "Tom & Jerry", PlainDescription("Tom &amp; Jerry"))
}

func TestOptionalAndLocation(t *testing.T) {
	assert.Empty(t, Optional("Not Specified"))
	assert.Equal(t, "$90K", Optional(" $90K "))
	assert.Equal(t, "Remote", DisplayLocation(" "))
	assert.Equal(t, "Hartford, CT", DisplayLocation("Hartford, CT"))
	assert.Equal(t, "Posted: unknown", PostedLabel(time.Time{}, now))
}

func TestDeleteConfirmation(t *testing.T) {
	d := NewDeleteConfirmation(sampleJob())
	assert.False(t, d.Confirm(), "confirm without request does nothing")

	d.Request()
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Confirm())

	d.Request()
	assert.Equal(t, `Are you sure you want to delete "Pricing Actuary"?`, d.Prompt())
	assert.True(t, d.Confirm())
	assert.False(t, d.Pending())
}

func loadedSnapshot(page, total int, jobs ...models.Job) listing.Snapshot {
	q := listing.DefaultQuery()
	q.Page = page
	pages := listing.TotalPages(total, 5)
	return listing.Snapshot{
		Query:   q,
		PerPage: 5,
		Loaded:  true,
		Page: models.PageResult{
			Jobs:    jobs,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	}
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateLoading, StateOf(listing.Snapshot{Loading: true}))
	assert.Equal(t, StateError, StateOf(listing.Snapshot{Err: errors.New("boom")}))
	assert.Equal(t, StateEmpty, StateOf(loadedSnapshot(1, 0)))

	refetching := loadedSnapshot(1, 1, sampleJob())
	refetching.Loading = true
	assert.Equal(t, StatePopulated, StateOf(refetching))
}

func TestRenderListStates(t *testing.T) {
	assert.Contains(t, plain(RenderList(listing.Snapshot{Loading: true}, now)), LoadingText)

	failed := listing.Snapshot{Err: &client.APIError{Kind: client.KindNetwork}}
	out := plain(RenderList(failed, now))
	assert.Contains(t, out, ErrorTitle)
	assert.Contains(t, out, "No response from server - check your internet connection")

	out = plain(RenderList(loadedSnapshot(1, 0), now))
	assert.Contains(t, out, EmptyTitle)
	assert.Contains(t, out, EmptyHint)
}

func TestRenderListPopulated(t *testing.T) {
	job := sampleJob()
	out := plain(RenderList(loadedSnapshot(3, 12, job, job), now))

	assert.Contains(t, out, "Showing 11-12 of 12 jobs")
	assert.Contains(t, out, "Page 3 of 3")
	assert.Contains(t, out, "[3]")
	assert.Contains(t, out, " 1 ")
	assert.Contains(t, out, " 2 ")
}

func TestPaginationHiddenForSinglePage(t *testing.T) {
	assert.Empty(t, RenderPagination(loadedSnapshot(1, 4, sampleJob())))
}

func TestRenderRows(t *testing.T) {
	out, err := RenderRows([]models.Job{sampleJob()})
	require.NoError(t, err)
	out = plain(out)
	assert.Contains(t, out, "Pricing Actuary")
	assert.Contains(t, out, "Remote")
}

func TestRenderFilterBar(t *testing.T) {
	q := listing.DefaultQuery()
	assert.Equal(t, "Filters  sort: Date Posted: Newest First", RenderFilterBar(q))

	q.Search = "pricing"
	q.Location = "Remote"
	out := RenderFilterBar(q)
	assert.Contains(t, out, "Filters (2 active)")
	assert.Contains(t, out, `search="pricing"`)
	assert.Contains(t, out, "location=Remote")
	assert.NotContains(t, out, "type=")
}

func TestRenderToasts(t *testing.T) {
	out := plain(RenderToasts([]board.Toast{
		{Text: "Job added successfully!", Kind: board.ToastSuccess},
		{Text: "Failed to load jobs", Kind: board.ToastError},
	}))
	assert.Contains(t, out, "✔ Job added successfully!")
	assert.Contains(t, out, "✖ Failed to load jobs")
}
