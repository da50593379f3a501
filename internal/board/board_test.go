package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	listCalls []models.ListParams
	listErr   error
	page      models.PageResult
	deleteErr error
	saveErr   error
	created   []models.JobInput
	updated   map[int64]models.JobInput
	deleted   []int64
	filters   *models.FilterOptions
}

func (f *fakeAPI) List(ctx context.Context, params models.ListParams) (*models.PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, params)
	if f.listErr != nil {
		return nil, f.listErr
	}
	page := f.page
	page.CurrentPage = params.Page
	return &page, nil
}

func (f *fakeAPI) Get(ctx context.Context, id int64) (*models.Job, error) {
	for _, job := range f.page.Jobs {
		if job.ID == id {
			return &job, nil
		}
	}
	return nil, &client.APIError{Kind: client.KindHTTP, StatusCode: 404, Message: "Resource not found"}
}

func (f *fakeAPI) Create(ctx context.Context, input models.JobInput) (*models.Job, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = append(f.created, input)
	return &models.Job{ID: 99, Title: input.Title}, nil
}

func (f *fakeAPI) Update(ctx context.Context, id int64, input models.JobInput) (*models.Job, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.updated == nil {
		f.updated = map[int64]models.JobInput{}
	}
	f.updated[id] = input
	return &models.Job{ID: id, Title: input.Title}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) (string, error) {
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return "Job deleted successfully", nil
}

func (f *fakeAPI) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	if f.filters == nil {
		return nil, errors.New("unavailable")
	}
	return f.filters, nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func twelveJobs() models.PageResult {
	return models.PageResult{
		Jobs:    []models.Job{{ID: 1, Title: "Pricing Actuary"}, {ID: 2, Title: "Actuarial Intern"}},
		Total:   12,
		Pages:   3,
		PerPage: 5,
		HasNext: true,
	}
}

func TestRefreshLoadsPage(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})

	require.NoError(t, b.Refresh(context.Background()))

	snap := b.Snapshot()
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Page.Jobs, 2)
	assert.Equal(t, 5, api.listCalls[0].PerPage)
	assert.Equal(t, models.FilterAll, api.listCalls[0].JobType)
}

func TestFilterChangeRefetchesFromFirstPage(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})
	ctx := context.Background()

	require.NoError(t, b.GoToPage(ctx, 3))
	require.NoError(t, b.SetLocation(ctx, "Remote"))

	require.Equal(t, 2, api.calls())
	last := api.listCalls[1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, "Remote", last.Location)

	require.NoError(t, b.SetLocation(ctx, "Remote"))
	assert.Equal(t, 2, api.calls(), "unchanged filter does not refetch")
}

func TestNextAndPrevPage(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})
	ctx := context.Background()

	require.NoError(t, b.PrevPage(ctx))
	assert.Equal(t, 0, api.calls(), "nothing loaded yet, no previous page")

	require.NoError(t, b.Refresh(ctx))
	require.NoError(t, b.NextPage(ctx))
	assert.Equal(t, 2, api.listCalls[1].Page)
}

func TestClearFilters(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})
	ctx := context.Background()

	require.NoError(t, b.ClearFilters(ctx))
	assert.Equal(t, 0, api.calls())

	require.NoError(t, b.SetSearch(ctx, "pricing"))
	require.NoError(t, b.SetTags(ctx, "Life"))
	require.NoError(t, b.ClearFilters(ctx))
	require.Equal(t, 3, api.calls())
	assert.Empty(t, api.listCalls[2].Search)
	assert.Equal(t, models.FilterAll, api.listCalls[2].Tags)
}

func TestRefreshFailureShowsToastAndKeepsPage(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})
	ctx := context.Background()
	require.NoError(t, b.Refresh(ctx))

	api.listErr = &client.APIError{Kind: client.KindHTTP, StatusCode: 500, Message: "Server error - please try again later"}
	assert.Error(t, b.SetSearch(ctx, "pricing"))

	snap := b.Snapshot()
	assert.Len(t, snap.Page.Jobs, 2)
	assert.NoError(t, snap.Err)

	toast, ok := b.toasts.Latest()
	require.True(t, ok)
	assert.Equal(t, "Failed to load jobs", toast.Text)
	assert.Equal(t, ToastError, toast.Kind)
}

func TestReloadAfterInitialFailure(t *testing.T) {
	api := &fakeAPI{page: twelveJobs(), listErr: errors.New("offline")}
	b := New(api, Options{})
	ctx := context.Background()

	assert.Error(t, b.Refresh(ctx))
	assert.Error(t, b.Snapshot().Err)

	api.listErr = nil
	require.NoError(t, b.Reload(ctx))
	snap := b.Snapshot()
	assert.NoError(t, snap.Err)
	assert.True(t, snap.Loaded)
}

// blockingAPI parks the first List call until its context is cancelled and the
// later ones until release is closed
type blockingAPI struct {
	*fakeAPI
	started  chan int
	release  chan struct{}
	firstErr error
}

func (f *blockingAPI) List(ctx context.Context, params models.ListParams) (*models.PageResult, error) {
	n := f.calls() + 1
	page, err := f.fakeAPI.List(ctx, params)
	f.started <- n
	if n == 1 {
		<-ctx.Done()
		f.mu.Lock()
		f.firstErr = ctx.Err()
		f.mu.Unlock()
		return nil, ctx.Err()
	}
	<-f.release
	return page, err
}

func TestNewerRefreshCancelsOlder(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: &fakeAPI{page: twelveJobs()},
		started: make(chan int, 2),
		release: make(chan struct{}),
	}
	b := New(api, Options{})
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- b.Refresh(ctx) }()
	require.Equal(t, 1, <-api.started)

	second := make(chan error, 1)
	go func() { second <- b.SetSearch(ctx, "pricing") }()

	select {
	case err := <-first:
		assert.NoError(t, err, "a superseded fetch is not a failure")
	case <-time.After(2 * time.Second):
		t.Fatal("first refresh was not cancelled")
	}
	api.mu.Lock()
	assert.ErrorIs(t, api.firstErr, context.Canceled)
	api.mu.Unlock()

	require.Equal(t, 2, <-api.started)
	assert.True(t, b.Snapshot().Loading)
	assert.Empty(t, b.Toasts())

	close(api.release)
	require.NoError(t, <-second)

	snap := b.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.Loaded)
	assert.Nil(t, snap.Err)
	assert.Len(t, snap.Page.Jobs, 2)
	assert.Equal(t, "pricing", api.listCalls[1].Search)
	assert.Empty(t, b.Toasts())
}

func TestDeleteRefetchesOnce(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})
	ctx := context.Background()

	require.NoError(t, b.Delete(ctx, 1))

	assert.Equal(t, []int64{1}, api.deleted)
	assert.Equal(t, 1, api.calls())
	toast, ok := b.toasts.Latest()
	require.True(t, ok)
	assert.Equal(t, "Job deleted successfully!", toast.Text)
	assert.Equal(t, ToastDelete, toast.Kind)
}

func TestDeleteFailure(t *testing.T) {
	api := &fakeAPI{
		page:      twelveJobs(),
		deleteErr: &client.APIError{Kind: client.KindHTTP, StatusCode: 404, Message: "Resource not found"},
	}
	b := New(api, Options{})

	assert.Error(t, b.Delete(context.Background(), 7))
	assert.Equal(t, 0, api.calls())
	toast, ok := b.toasts.Latest()
	require.True(t, ok)
	assert.Equal(t, "Resource not found", toast.Text)
}

func TestSubmitCreate(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})

	f := form.New()
	f.Set(form.FieldTitle, "Reserving Actuary")
	f.Set(form.FieldCompany, "Global Re")
	f.Set(form.FieldLocation, "London, UK")
	f.Set(form.FieldTags, "Reserving, P&C")

	require.NoError(t, b.Submit(context.Background(), f))
	require.Len(t, api.created, 1)
	assert.Equal(t, models.Tags{"Reserving", "P&C"}, api.created[0].Tags)
	assert.Equal(t, 1, api.calls())

	toast, _ := b.toasts.Latest()
	assert.Equal(t, "Job added successfully!", toast.Text)
}

func TestSubmitEdit(t *testing.T) {
	api := &fakeAPI{page: twelveJobs()}
	b := New(api, Options{})

	f := form.ForJob(models.Job{ID: 4, Title: "Pricing Actuary", Company: "ABC Insurance", Location: "Remote"})
	f.Set(form.FieldTitle, "Senior Pricing Actuary")

	require.NoError(t, b.Submit(context.Background(), f))
	assert.Equal(t, "Senior Pricing Actuary", api.updated[4].Title)
	toast, _ := b.toasts.Latest()
	assert.Equal(t, "Job updated successfully!", toast.Text)
}

func TestSubmitInvalidSkipsBackend(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, Options{})

	err := b.Submit(context.Background(), form.New())
	assert.ErrorIs(t, err, form.ErrInvalid)
	assert.Empty(t, api.created)
	assert.Equal(t, 0, api.calls())
	assert.Empty(t, b.Toasts())
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	api := &fakeAPI{saveErr: &client.APIError{Kind: client.KindNetwork, Message: "No response from server - check your internet connection"}}
	b := New(api, Options{})

	f := form.New()
	f.Set(form.FieldTitle, "Actuarial Consultant")
	f.Set(form.FieldCompany, "Deloitte")
	f.Set(form.FieldLocation, "Chicago, IL")

	assert.Error(t, b.Submit(context.Background(), f))
	assert.Equal(t, "Actuarial Consultant", f.Values.Title)
	assert.Equal(t, 0, api.calls())
	toast, _ := b.toasts.Latest()
	assert.Equal(t, "No response from server - check your internet connection", toast.Text)
}

func TestLoadFilterOptions(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, Options{})
	assert.Error(t, b.LoadFilterOptions(context.Background()))
	assert.Empty(t, b.FilterOptions().Locations)

	api.filters = &models.FilterOptions{Locations: []string{"Remote", "London, UK"}}
	require.NoError(t, b.LoadFilterOptions(context.Background()))
	assert.Equal(t, []string{"Remote", "London, UK"}, b.FilterOptions().Locations)
}

func TestToastsExpire(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	toasts := NewToasts(0)
	toasts.now = func() time.Time { return now }

	first := toasts.Show("Job added successfully!", ToastSuccess)
	now = now.Add(3 * time.Second)
	toasts.Show("Job deleted successfully!", ToastDelete)
	assert.Len(t, toasts.Active(), 2)

	now = now.Add(2 * time.Second)
	active := toasts.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Job deleted successfully!", active[0].Text)

	assert.False(t, toasts.Dismiss(first))
	assert.True(t, toasts.Dismiss(active[0].ID))
	_, ok := toasts.Latest()
	assert.False(t, ok)
}
