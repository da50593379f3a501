package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/fr4nk3nst1ner/jobdesk/internal/board"
	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/config"
	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/importer"
	"github.com/fr4nk3nst1ner/jobdesk/internal/listing"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
	"github.com/fr4nk3nst1ner/jobdesk/internal/ui"
	"github.com/fr4nk3nst1ner/jobdesk/internal/web"
)

// errNotSaved is returned when a posting fails local validation
var errNotSaved = errors.New("posting not saved")

// formFields is the order in which form errors are reported
var formFields = []string{
	form.FieldTitle,
	form.FieldCompany,
	form.FieldLocation,
	form.FieldJobType,
	form.FieldTags,
	form.FieldDescription,
	form.FieldSalaryRange,
	form.FieldExperienceLevel,
	form.FieldForm,
}

// app wires one CLI invocation
type app struct {
	opts   *options
	cfg    *config.Config
	api    board.JobsAPI
	board  *board.Board
	logger *zap.Logger
	out    io.Writer
	now    func() time.Time
}

func (a *app) run(ctx context.Context) error {
	switch a.opts.cmd {
	case "", "list":
		return a.list(ctx)
	case "show":
		return a.show(ctx)
	case "add":
		return a.add(ctx)
	case "edit":
		return a.edit(ctx)
	case "delete":
		return a.remove(ctx)
	case "filters":
		return a.filters(ctx)
	case "browse":
		return a.browse(ctx)
	case "web":
		return a.serve(ctx)
	case "seed":
		return a.seed(ctx)
	case "import":
		return a.importPostings(ctx)
	default:
		return fmt.Errorf("unknown command %q, run with -examples to see usage", a.opts.cmd)
	}
}

func (a *app) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// query builds the list query from the filter flags
func (a *app) query() listing.Query {
	q := listing.DefaultQuery()
	q.Search = strings.TrimSpace(a.opts.search)
	if a.opts.jobType != "" {
		q.JobType = a.opts.jobType
	}
	if a.opts.location != "" {
		q.Location = a.opts.location
	}
	if a.opts.tags != "" {
		q.Tags = a.opts.tags
	}
	if sort := models.SortKey(a.opts.sort); sort.Valid() {
		q.Sort = sort
	}
	if a.opts.page > 0 {
		q.Page = a.opts.page
	}
	return q
}

func (a *app) list(ctx context.Context) error {
	if a.opts.sort != "" && !models.SortKey(a.opts.sort).Valid() {
		return fmt.Errorf("unknown sort %q", a.opts.sort)
	}
	a.board.Store().SetQuery(a.query())
	err := a.board.Refresh(ctx)
	a.printBoard()
	return err
}

// printBoard writes the filter bar, the list and any toasts
func (a *app) printBoard() {
	snap := a.board.Snapshot()
	fmt.Fprintln(a.out, ui.RenderFilterBar(snap.Query))

	if a.opts.table && ui.StateOf(snap) == ui.StatePopulated {
		rows, err := ui.RenderRows(snap.Page.Jobs)
		if err != nil {
			a.logger.Warn("failed to render table", zap.Error(err))
		} else {
			fmt.Fprintln(a.out, rows)
			fmt.Fprintf(a.out, "%s   %s\n", ui.FooterText(snap), ui.PageText(snap))
		}
	} else {
		fmt.Fprintln(a.out, ui.RenderList(snap, a.clock()))
	}
	a.printToasts()
}

func (a *app) printToasts() {
	if toasts := ui.RenderToasts(a.board.Toasts()); toasts != "" {
		fmt.Fprintln(a.out, toasts)
	}
}

func (a *app) requireID() error {
	if a.opts.id <= 0 {
		return fmt.Errorf("-id is required for %s", a.opts.cmd)
	}
	return nil
}

func (a *app) show(ctx context.Context) error {
	if err := a.requireID(); err != nil {
		return err
	}
	job, err := a.board.Job(ctx, a.opts.id)
	if err != nil {
		a.printToasts()
		return err
	}
	fmt.Fprintln(a.out, ui.RenderCard(*job, ui.CardOptions{Full: true, Now: a.clock()}))
	return nil
}

func (a *app) add(ctx context.Context) error {
	f := form.New()
	a.opts.applyFields(f)
	return a.save(ctx, f)
}

func (a *app) edit(ctx context.Context) error {
	if err := a.requireID(); err != nil {
		return err
	}
	job, err := a.board.Job(ctx, a.opts.id)
	if err != nil {
		a.printToasts()
		return err
	}
	f := form.ForJob(*job)
	a.opts.applyFields(f)
	return a.save(ctx, f)
}

// save submits f through the board and reports the outcome
func (a *app) save(ctx context.Context, f *form.Form) error {
	err := a.board.Submit(ctx, f)
	if errors.Is(err, form.ErrInvalid) {
		a.printFormErrors(f)
		return errNotSaved
	}
	if err != nil {
		a.printFormErrors(f)
		a.printToasts()
		return err
	}
	a.printToasts()
	return nil
}

func (a *app) printFormErrors(f *form.Form) {
	for _, field := range formFields {
		if msg := f.Error(field); msg != "" {
			fmt.Fprintln(a.out, pterm.Error.Sprintf("%s: %s", field, msg))
		}
	}
}

func (a *app) remove(ctx context.Context) error {
	if err := a.requireID(); err != nil {
		return err
	}
	job, err := a.board.Job(ctx, a.opts.id)
	if err != nil {
		a.printToasts()
		return err
	}

	confirm := ui.NewDeleteConfirmation(*job)
	confirm.Request()
	if !a.opts.yes {
		ok, err := pterm.DefaultInteractiveConfirm.Show(confirm.Prompt())
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			confirm.Cancel()
		}
	}
	if !confirm.Confirm() {
		fmt.Fprintln(a.out, "Delete cancelled")
		return nil
	}

	err = a.board.Delete(ctx, job.ID)
	a.printToasts()
	return err
}

func (a *app) filters(ctx context.Context) error {
	if err := a.board.LoadFilterOptions(ctx); err != nil {
		return err
	}
	opts := a.board.FilterOptions()
	for _, group := range []struct {
		name   string
		values []string
	}{
		{"Job types", opts.JobTypes},
		{"Locations", opts.Locations},
		{"Tags", opts.Tags},
	} {
		fmt.Fprintln(a.out, pterm.Bold.Sprint(group.name))
		values := append([]string{models.FilterAll}, group.values...)
		fmt.Fprintln(a.out, "  "+strings.Join(values, ", "))
	}
	return nil
}

func (a *app) serve(ctx context.Context) error {
	srv, err := web.New(a.api, a.cfg.Web, board.Options{
		PerPage:       a.cfg.Board.PerPage,
		ToastDuration: a.cfg.Board.ToastDuration,
		Logger:        a.logger,
	}, a.logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func (a *app) importOptions() importer.Options {
	return importer.Options{
		Workers:        a.cfg.Import.Workers,
		RequestsPerSec: a.cfg.Import.RequestsPerSec,
		Burst:          a.cfg.Import.Burst,
		ShowProgress:   !a.opts.silence,
		Tagger:         importer.NewTagger(a.cfg.Tagging),
		Logger:         a.logger,
	}
}

func (a *app) seed(ctx context.Context) error {
	result, err := importer.Seed(ctx, a.api, a.opts.force, a.importOptions())
	if errors.Is(err, importer.ErrAlreadySeeded) {
		fmt.Fprintln(a.out, pterm.Warning.Sprintf("%v, use -force to seed anyway", err))
		return nil
	}
	a.printResult(result)
	return err
}

func (a *app) importPostings(ctx context.Context) error {
	opts := a.importOptions()

	var inputs []models.JobInput
	if a.opts.file != "" {
		loaded, err := importer.LoadFile(a.opts.file)
		if err != nil {
			return err
		}
		inputs = append(inputs, loaded...)
	}

	// An explicit -file imports only the file unless boards are named too
	explicit := a.opts.file != ""
	boards := a.opts.greenhouseBoards(a.cfg)
	if explicit && a.opts.greenhouse == "" {
		boards = nil
	}
	companies := a.opts.leverCompanies(a.cfg)
	if explicit && a.opts.lever == "" {
		companies = nil
	}
	if !explicit && len(boards) == 0 && len(companies) == 0 {
		return errors.New("nothing to import, use -file, -greenhouse or -lever")
	}

	httpClient := client.CreateHTTPClient(a.cfg.API.Timeout, a.cfg.API.Proxy, a.cfg.API.InsecureTLS)
	if len(boards) > 0 {
		source := importer.NewGreenhouseSource(httpClient, "", a.logger)
		collected, err := source.Collect(ctx, boards, a.opts.keyword, a.cfg.Import.RemoteOnly, opts.Tagger)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Found %d postings on %d Greenhouse boards\n", len(collected), len(boards))
		inputs = append(inputs, collected...)
	}
	if len(companies) > 0 {
		source := importer.NewLeverSource(httpClient, "", a.logger)
		collected, err := source.Collect(ctx, companies, a.opts.keyword, a.cfg.Import.RemoteOnly, opts.Tagger)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Found %d postings at %d Lever companies\n", len(collected), len(companies))
		inputs = append(inputs, collected...)
	}

	result, err := importer.Run(ctx, a.api, inputs, opts)
	a.printResult(result)
	return err
}

func (a *app) printResult(r importer.Result) {
	fmt.Fprintln(a.out, pterm.Success.Sprintf("Created %d postings (%d duplicates, %d invalid, %d failed)",
		r.Created, r.Duplicates, r.Invalid, r.Failed))
	for _, err := range r.Errors {
		fmt.Fprintln(a.out, pterm.Warning.Sprint(err))
	}
}
