// Package importer creates postings in bulk: the sample seed set, postings read
// from a file and postings pulled from public Greenhouse boards.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

const defaultWorkers = 4

// ErrAlreadySeeded is returned by Seed when the board already has postings
var ErrAlreadySeeded = errors.New("job board already contains postings")

// Creator is the part of the API client used to create postings
type Creator interface {
	Create(ctx context.Context, input models.JobInput) (*models.Job, error)
}

// SeedAPI can tell whether the board is empty and create postings
type SeedAPI interface {
	Creator
	List(ctx context.Context, params models.ListParams) (*models.PageResult, error)
}

// Options tune a bulk run
type Options struct {
	Workers        int
	RequestsPerSec float64 // 0 means unlimited
	Burst          int
	ShowProgress   bool
	Tagger         *Tagger
	Logger         *zap.Logger
}

// Result summarizes a bulk run
type Result struct {
	Created    int
	Duplicates int
	Invalid    int
	Failed     int
	Errors     []error
}

// Run creates inputs through api. Duplicates (same company and title) and
// postings that fail form validation are skipped. Creation runs on a bounded
// worker pool, throttled by the configured rate.
func Run(ctx context.Context, api Creator, inputs []models.JobInput, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var result Result
	unique := Deduplicate(inputs)
	result.Duplicates = len(inputs) - len(unique)

	valid := make([]models.JobInput, 0, len(unique))
	for _, input := range unique {
		if opts.Tagger != nil {
			opts.Tagger.Apply(&input)
		}
		if input.JobType == "" {
			input.JobType = JobType(input.Title)
		}
		if errs := form.Validate(form.ValuesFromInput(input)); len(errs) > 0 {
			result.Invalid++
			logger.Info("skipping invalid posting", zap.String("title", input.Title), zap.Any("errors", errs))
			continue
		}
		valid = append(valid, input)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSec > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), burst)
	}

	bar := pb.New(len(valid))
	if opts.ShowProgress {
		bar.Start()
		defer bar.Finish()
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, workers)
	)

	for _, input := range valid {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(input models.JobInput) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore
			defer bar.Increment()

			if err := limiter.Wait(ctx); err != nil {
				return
			}
			job, err := api.Create(ctx, input)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Errorf("failed to create %q at %s: %w", input.Title, input.Company, err))
				logger.Warn("failed to create posting", zap.String("title", input.Title), zap.Error(err))
				return
			}
			result.Created++
			logger.Debug("created posting", zap.Int64("id", job.ID), zap.String("title", input.Title))
		}(input)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// Seed creates the sample postings unless the board already has postings and
// force is false
func Seed(ctx context.Context, api SeedAPI, force bool, opts Options) (Result, error) {
	if !force {
		page, err := api.List(ctx, models.ListParams{Page: 1, PerPage: 1})
		if err != nil {
			return Result{}, fmt.Errorf("failed to check existing postings: %w", err)
		}
		if page.Total > 0 {
			return Result{}, fmt.Errorf("%w (%d)", ErrAlreadySeeded, page.Total)
		}
	}
	return Run(ctx, api, SamplePostings(), opts)
}

// Deduplicate removes postings with the same company and title. When
// duplicates are found, the one with salary information wins.
func Deduplicate(inputs []models.JobInput) []models.JobInput {
	seen := make(map[string]int)
	var result []models.JobInput

	for _, input := range inputs {
		key := normalizeForDedup(input.Company) + "|" + normalizeForDedup(input.Title)
		if idx, exists := seen[key]; exists {
			if result[idx].SalaryRange == "" && input.SalaryRange != "" {
				result[idx] = input
			}
			continue
		}
		seen[key] = len(result)
		result = append(result, input)
	}
	return result
}

func normalizeForDedup(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(",", "", ".", "", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
