// Package board coordinates the job board: it owns the query store, the filter
// options and the toasts, and turns user actions into API calls and refetches.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/listing"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

const (
	msgLoadFailed = "Failed to load jobs"
	msgDeleted    = "Job deleted successfully!"
	msgAdded      = "Job added successfully!"
	msgUpdated    = "Job updated successfully!"
)

// JobsAPI is the subset of the API client the board depends on
type JobsAPI interface {
	List(ctx context.Context, params models.ListParams) (*models.PageResult, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	Create(ctx context.Context, input models.JobInput) (*models.Job, error)
	Update(ctx context.Context, id int64, input models.JobInput) (*models.Job, error)
	Delete(ctx context.Context, id int64) (string, error)
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}

// Options configure a Board
type Options struct {
	PerPage       int
	ToastDuration time.Duration
	Logger        *zap.Logger
}

// Board is the root coordinator of one job board session
type Board struct {
	api    JobsAPI
	store  *listing.Store
	toasts *Toasts
	logger *zap.Logger

	mu          sync.Mutex
	cancelFetch context.CancelFunc
	filters     models.FilterOptions
}

// New creates a board backed by api
func New(api JobsAPI, opts Options) *Board {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{
		api:    api,
		store:  listing.NewStore(opts.PerPage),
		toasts: NewToasts(opts.ToastDuration),
		logger: logger,
	}
}

// Store exposes the query store for rendering
func (b *Board) Store() *listing.Store {
	return b.store
}

// Snapshot returns the current list state
func (b *Board) Snapshot() listing.Snapshot {
	return b.store.Snapshot()
}

// Toasts returns the visible toasts
func (b *Board) Toasts() []Toast {
	return b.toasts.Active()
}

// DismissToast hides a toast
func (b *Board) DismissToast(id string) bool {
	return b.toasts.Dismiss(id)
}

// FilterOptions returns the options loaded by LoadFilterOptions
func (b *Board) FilterOptions() models.FilterOptions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters
}

// Refresh fetches the page for the current query. A refresh started later
// cancels this one, and whichever result is older is discarded. A failed fetch
// keeps the previous page and shows a toast.
func (b *Board) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The new generation must exist before the old fetch sees its cancellation
	b.mu.Lock()
	gen, params := b.store.Begin()
	if b.cancelFetch != nil {
		b.cancelFetch()
	}
	b.cancelFetch = cancel
	b.mu.Unlock()

	page, err := b.api.List(ctx, params)
	if err != nil {
		if !b.store.Fail(gen, err) {
			b.logger.Debug("dropped failure of superseded fetch", zap.Uint64("generation", gen))
			return nil
		}
		b.logger.Warn("failed to load jobs", zap.Error(err), zap.Int("page", params.Page))
		b.toasts.Show(msgLoadFailed, ToastError)
		return fmt.Errorf("failed to load jobs: %w", err)
	}

	if !b.store.Complete(gen, *page) {
		b.logger.Debug("dropped result of superseded fetch", zap.Uint64("generation", gen))
		return nil
	}
	b.logger.Debug("loaded jobs",
		zap.Int("count", len(page.Jobs)),
		zap.Int("total", page.Total),
		zap.Int("page", params.Page),
	)
	return nil
}

// Reload drops everything loaded so far and fetches again; it backs the
// "Try Again" action of the error view
func (b *Board) Reload(ctx context.Context) error {
	b.store.Reset()
	return b.Refresh(ctx)
}

func (b *Board) refreshIf(ctx context.Context, changed bool) error {
	if !changed {
		return nil
	}
	return b.Refresh(ctx)
}

// SetSearch changes the search text
func (b *Board) SetSearch(ctx context.Context, search string) error {
	return b.refreshIf(ctx, b.store.SetSearch(search))
}

// SetJobType changes the job type filter
func (b *Board) SetJobType(ctx context.Context, jobType string) error {
	return b.refreshIf(ctx, b.store.SetJobType(jobType))
}

// SetLocation changes the location filter
func (b *Board) SetLocation(ctx context.Context, location string) error {
	return b.refreshIf(ctx, b.store.SetLocation(location))
}

// SetTags changes the tags filter
func (b *Board) SetTags(ctx context.Context, tags string) error {
	return b.refreshIf(ctx, b.store.SetTags(tags))
}

// SetSort changes the sort order
func (b *Board) SetSort(ctx context.Context, sort models.SortKey) error {
	return b.refreshIf(ctx, b.store.SetSort(sort))
}

// GoToPage shows another page
func (b *Board) GoToPage(ctx context.Context, page int) error {
	return b.refreshIf(ctx, b.store.SetPage(page))
}

// NextPage moves forward when the current page has a successor
func (b *Board) NextPage(ctx context.Context) error {
	snap := b.store.Snapshot()
	if !snap.Page.HasNext {
		return nil
	}
	return b.GoToPage(ctx, snap.Query.Page+1)
}

// PrevPage moves back when the current page has a predecessor
func (b *Board) PrevPage(ctx context.Context) error {
	snap := b.store.Snapshot()
	if !snap.Page.HasPrev {
		return nil
	}
	return b.GoToPage(ctx, snap.Query.Page-1)
}

// ClearFilters restores the default query
func (b *Board) ClearFilters(ctx context.Context) error {
	return b.refreshIf(ctx, b.store.Clear())
}

// LoadFilterOptions fetches the dropdown values. Failures are logged only,
// the filter bar then offers just "All".
func (b *Board) LoadFilterOptions(ctx context.Context) error {
	opts, err := b.api.FilterOptions(ctx)
	if err != nil {
		b.logger.Warn("failed to load filter options", zap.Error(err))
		return fmt.Errorf("failed to load filter options: %w", err)
	}
	b.mu.Lock()
	b.filters = *opts
	b.mu.Unlock()
	return nil
}

// Job fetches one posting for the detail view
func (b *Board) Job(ctx context.Context, id int64) (*models.Job, error) {
	job, err := b.api.Get(ctx, id)
	if err != nil {
		b.toasts.Show(client.Describe(err), ToastError)
		return nil, err
	}
	return job, nil
}

// Delete removes a posting and refetches the list once
func (b *Board) Delete(ctx context.Context, id int64) error {
	if _, err := b.api.Delete(ctx, id); err != nil {
		b.logger.Warn("failed to delete job", zap.Int64("id", id), zap.Error(err))
		b.toasts.Show(client.Describe(err), ToastError)
		return err
	}
	b.logger.Info("deleted job", zap.Int64("id", id))
	b.toasts.Show(msgDeleted, ToastDelete)
	b.refreshAfterMutation(ctx)
	return nil
}

// Submit sends a create or edit form. On success the list is refetched; on
// failure a toast is shown and the error returned so the caller keeps the form open.
func (b *Board) Submit(ctx context.Context, f *form.Form) error {
	err := f.Submit(ctx, func(ctx context.Context, input models.JobInput) error {
		if f.Editing() {
			job, err := b.api.Update(ctx, f.JobID(), input)
			if err != nil {
				return err
			}
			b.logger.Info("updated job", zap.Int64("id", job.ID))
			b.toasts.Show(msgUpdated, ToastSuccess)
			return nil
		}
		job, err := b.api.Create(ctx, input)
		if err != nil {
			return err
		}
		b.logger.Info("created job", zap.Int64("id", job.ID))
		b.toasts.Show(msgAdded, ToastSuccess)
		return nil
	})

	switch {
	case errors.Is(err, form.ErrInvalid):
		return err
	case err != nil:
		b.logger.Warn("failed to save job", zap.Error(err))
		b.toasts.Show(client.Describe(err), ToastError)
		return err
	}

	b.refreshAfterMutation(ctx)
	return nil
}

// refreshAfterMutation refetches; its failure is already reported by a toast
// and must not turn a successful mutation into an error
func (b *Board) refreshAfterMutation(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil {
		b.logger.Debug("refresh after mutation failed", zap.Error(err))
	}
}
