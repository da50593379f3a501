package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/listing"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
	"github.com/fr4nk3nst1ner/jobdesk/internal/ui"
)

// Actions of the interactive session
const (
	actionNext     = "Next page"
	actionPrev     = "Previous page"
	actionGoTo     = "Go to page"
	actionSearch   = "Search"
	actionType     = "Filter by job type"
	actionLocation = "Filter by location"
	actionTags     = "Filter by tag"
	actionSort     = "Sort"
	actionClear    = ui.ClearAllFilter
	actionView     = "View job"
	actionAdd      = "Add job"
	actionEdit     = "Edit job"
	actionDelete   = "Delete job"
	actionRetry    = "Try again"
	actionQuit     = "Quit"
)

// browseActions lists what the user can do from the current snapshot
func browseActions(snap listing.Snapshot) []string {
	state := ui.StateOf(snap)
	if state == ui.StateError {
		return []string{actionRetry, actionAdd, actionQuit}
	}

	var actions []string
	if snap.Page.HasNext {
		actions = append(actions, actionNext)
	}
	if snap.Page.HasPrev {
		actions = append(actions, actionPrev)
	}
	if snap.Page.Pages > 1 {
		actions = append(actions, actionGoTo)
	}
	actions = append(actions, actionSearch, actionType, actionLocation, actionTags, actionSort)
	if snap.Query.HasActiveFilters() {
		actions = append(actions, actionClear)
	}
	if state == ui.StatePopulated {
		actions = append(actions, actionView, actionEdit, actionDelete)
	}
	return append(actions, actionAdd, actionQuit)
}

// keepOrReplace returns input, or current when input is blank
func keepOrReplace(current, input string) string {
	if strings.TrimSpace(input) == "" {
		return current
	}
	return strings.TrimSpace(input)
}

// clearInput is typed to empty the search box or an optional field
const clearInput = "-"

// clearableInput resolves the answer to a prompt whose value may be emptied
func clearableInput(current, input string) string {
	if strings.TrimSpace(input) == clearInput {
		return ""
	}
	return keepOrReplace(current, input)
}

// withCurrent appends current to choices when it is set but not among them
func withCurrent(choices []string, current string) []string {
	if current == "" {
		return choices
	}
	for _, c := range choices {
		if c == current {
			return choices
		}
	}
	return append(choices, current)
}

// withAll prepends the "All" option to a filter's values
func withAll(values []string) []string {
	return append([]string{models.FilterAll}, values...)
}

// browse runs the interactive session until the user quits
func (a *app) browse(ctx context.Context) error {
	a.board.Store().SetQuery(a.query())
	if err := a.board.LoadFilterOptions(ctx); err != nil {
		a.logger.Debug("continuing without filter options")
	}
	_ = a.board.Refresh(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		a.printBoard()

		action, err := pterm.DefaultInteractiveSelect.
			WithOptions(browseActions(a.board.Snapshot())).
			Show("What next?")
		if err != nil {
			return fmt.Errorf("failed to read action: %w", err)
		}
		if action == actionQuit {
			return nil
		}
		if err := a.browseAction(ctx, action); err != nil {
			a.logger.Debug(err.Error())
		}
	}
}

func (a *app) browseAction(ctx context.Context, action string) error {
	b := a.board
	q := b.Snapshot().Query
	filters := b.FilterOptions()

	switch action {
	case actionNext:
		return b.NextPage(ctx)
	case actionPrev:
		return b.PrevPage(ctx)
	case actionGoTo:
		input, err := pterm.DefaultInteractiveTextInput.Show(fmt.Sprintf("Page [%d]", q.Page))
		if err != nil {
			return err
		}
		page, err := strconv.Atoi(keepOrReplace(strconv.Itoa(q.Page), input))
		if err != nil || page < 1 || page > b.Snapshot().Page.Pages {
			pterm.Warning.Println("No such page")
			return nil
		}
		return b.GoToPage(ctx, page)
	case actionSearch:
		prompt := "Search title, company or description"
		if q.Search != "" {
			prompt = fmt.Sprintf("%s [%s] (%s to clear)", prompt, q.Search, clearInput)
		}
		input, err := pterm.DefaultInteractiveTextInput.Show(prompt)
		if err != nil {
			return err
		}
		return b.SetSearch(ctx, clearableInput(q.Search, input))
	case actionType:
		choice, err := a.selectFilter("Job type", filters.JobTypes, q.JobType)
		if err != nil {
			return err
		}
		return b.SetJobType(ctx, choice)
	case actionLocation:
		choice, err := a.selectFilter("Location", filters.Locations, q.Location)
		if err != nil {
			return err
		}
		return b.SetLocation(ctx, choice)
	case actionTags:
		choice, err := a.selectFilter("Tag", filters.Tags, q.Tags)
		if err != nil {
			return err
		}
		return b.SetTags(ctx, choice)
	case actionSort:
		labels := make([]string, len(models.SortKeys))
		for i, key := range models.SortKeys {
			labels[i] = key.Label()
		}
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions(labels).
			WithDefaultOption(q.Sort.Label()).
			Show("Sort by")
		if err != nil {
			return err
		}
		for _, key := range models.SortKeys {
			if key.Label() == choice {
				return b.SetSort(ctx, key)
			}
		}
		return nil
	case actionClear:
		return b.ClearFilters(ctx)
	case actionRetry:
		return b.Reload(ctx)
	case actionView:
		job, err := a.pickJob()
		if err != nil || job == nil {
			return err
		}
		full, err := b.Job(ctx, job.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, ui.RenderCard(*full, ui.CardOptions{Full: true, Now: a.clock()}))
		_, err = pterm.DefaultInteractiveConfirm.WithDefaultValue(true).Show("Back to the list?")
		return err
	case actionAdd:
		return a.promptAndSave(ctx, form.New())
	case actionEdit:
		job, err := a.pickJob()
		if err != nil || job == nil {
			return err
		}
		return a.promptAndSave(ctx, form.ForJob(*job))
	case actionDelete:
		job, err := a.pickJob()
		if err != nil || job == nil {
			return err
		}
		confirm := ui.NewDeleteConfirmation(*job)
		confirm.Request()
		ok, err := pterm.DefaultInteractiveConfirm.Show(confirm.Prompt())
		if err != nil {
			return err
		}
		if !ok {
			confirm.Cancel()
		}
		if !confirm.Confirm() {
			return nil
		}
		return b.Delete(ctx, job.ID)
	}
	return nil
}

func (a *app) selectFilter(name string, values []string, current string) (string, error) {
	options := withAll(values)
	selector := pterm.DefaultInteractiveSelect.WithOptions(options)
	for _, opt := range options {
		if opt == current {
			selector = selector.WithDefaultOption(current)
			break
		}
	}
	return selector.Show(name)
}

// pickJob lets the user choose a posting from the current page
func (a *app) pickJob() (*models.Job, error) {
	jobs := a.board.Snapshot().Page.Jobs
	if len(jobs) == 0 {
		return nil, nil
	}
	labels := make([]string, len(jobs))
	for i, job := range jobs {
		labels[i] = fmt.Sprintf("#%d %s (%s)", job.ID, job.Title, job.Company)
	}
	choice, err := pterm.DefaultInteractiveSelect.WithOptions(labels).Show("Which job?")
	if err != nil {
		return nil, err
	}
	for i, label := range labels {
		if label == choice {
			return &jobs[i], nil
		}
	}
	return nil, nil
}

// promptAndSave asks for every field, submits, and asks again while the form
// has errors and the user wants to fix them
func (a *app) promptAndSave(ctx context.Context, f *form.Form) error {
	for {
		if err := a.promptForm(f); err != nil {
			return err
		}
		err := a.board.Submit(ctx, f)
		if err == nil {
			return nil
		}
		a.printFormErrors(f)
		if !errors.Is(err, form.ErrInvalid) {
			a.printToasts()
		}
		retry, perr := pterm.DefaultInteractiveConfirm.WithDefaultValue(true).Show("Fix and try again?")
		if perr != nil || !retry {
			return err
		}
	}
}

// promptForm asks for each field showing its current value; an empty answer
// keeps the value and clearInput empties an optional one
func (a *app) promptForm(f *form.Form) error {
	text := []struct {
		field, label, current string
		optional              bool
	}{
		{form.FieldTitle, "Job title", f.Values.Title, false},
		{form.FieldCompany, "Company", f.Values.Company, false},
		{form.FieldLocation, "Location", f.Values.Location, false},
		{form.FieldTags, "Tags (comma separated)", f.Values.Tags, true},
		{form.FieldSalaryRange, "Salary range", f.Values.SalaryRange, true},
		{form.FieldDescription, "Description", f.Values.Description, true},
	}
	for _, t := range text {
		prompt := t.label
		switch {
		case t.current != "" && t.optional:
			prompt = fmt.Sprintf("%s [%s] (%s to clear)", t.label, t.current, clearInput)
		case t.current != "":
			prompt = fmt.Sprintf("%s [%s]", t.label, t.current)
		}
		if msg := f.Error(t.field); msg != "" {
			prompt = fmt.Sprintf("%s (%s)", prompt, msg)
		}
		input, err := pterm.DefaultInteractiveTextInput.Show(prompt)
		if err != nil {
			return err
		}
		if t.optional {
			f.Set(t.field, clearableInput(t.current, input))
		} else {
			f.Set(t.field, keepOrReplace(t.current, input))
		}
	}

	jobTypes := make([]string, len(models.JobTypes))
	for i, jt := range models.JobTypes {
		jobTypes[i] = string(jt)
	}
	jobTypes = withCurrent(jobTypes, f.Values.JobType)
	jobType, err := pterm.DefaultInteractiveSelect.
		WithOptions(jobTypes).
		WithDefaultOption(keepOrReplace(string(models.JobTypeFullTime), f.Values.JobType)).
		Show("Job type")
	if err != nil {
		return err
	}
	f.Set(form.FieldJobType, jobType)

	levels := []string{models.NotSpecified}
	for _, l := range models.ExperienceLevels {
		levels = append(levels, string(l))
	}
	levels = withCurrent(levels, f.Values.ExperienceLevel)
	level, err := pterm.DefaultInteractiveSelect.
		WithOptions(levels).
		WithDefaultOption(keepOrReplace(models.NotSpecified, f.Values.ExperienceLevel)).
		Show("Experience level")
	if err != nil {
		return err
	}
	if level == models.NotSpecified && f.Values.ExperienceLevel != models.NotSpecified {
		level = ""
	}
	f.Set(form.FieldExperienceLevel, level)
	return nil
}
