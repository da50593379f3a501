package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/jobdesk/internal/board"
	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/listing"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
	"github.com/fr4nk3nst1ner/jobdesk/internal/utils"
)

// Texts of the list states
const (
	LoadingText    = "Loading jobs..."
	ErrorTitle     = "Error loading jobs"
	EmptyTitle     = "No jobs found"
	EmptyHint      = "Try adjusting your filters or search terms"
	RetryHint      = "Press r to try again"
	ClearAllFilter = "Clear All Filters"
)

// ListState is what the list view shows for a snapshot
type ListState int

const (
	StateLoading ListState = iota
	StateError
	StateEmpty
	StatePopulated
)

// StateOf picks the list state for a snapshot. A refetch over loaded results
// keeps showing them.
func StateOf(snap listing.Snapshot) ListState {
	switch {
	case snap.Err != nil && !snap.Loaded:
		return StateError
	case !snap.Loaded:
		return StateLoading
	case len(snap.Page.Jobs) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// FooterText is the "Showing a-b of n jobs" line
func FooterText(snap listing.Snapshot) string {
	first, last := snap.DisplayRange()
	return fmt.Sprintf("Showing %d-%d of %s jobs", first, last, humanize.Comma(int64(snap.Page.Total)))
}

// PageText is the "Page p of n" line
func PageText(snap listing.Snapshot) string {
	return fmt.Sprintf("Page %d of %d", snap.Query.Page, snap.Page.Pages)
}

// RenderPagination renders one button per page with the current page marked,
// plus previous and next buttons. Nothing is rendered for a single page.
func RenderPagination(snap listing.Snapshot) string {
	if snap.Page.Pages <= 1 {
		return ""
	}

	parts := make([]string, 0, snap.Page.Pages+2)
	if snap.Page.HasPrev {
		parts = append(parts, "« Prev")
	} else {
		parts = append(parts, pterm.Gray("« Prev"))
	}
	for _, n := range snap.PageNumbers() {
		if n == snap.Query.Page {
			parts = append(parts, pterm.Bold.Sprintf("[%d]", n))
		} else {
			parts = append(parts, fmt.Sprintf(" %d ", n))
		}
	}
	if snap.Page.HasNext {
		parts = append(parts, "Next »")
	} else {
		parts = append(parts, pterm.Gray("Next »"))
	}
	return strings.Join(parts, " ")
}

// RenderList renders the list view for a snapshot
func RenderList(snap listing.Snapshot, now time.Time) string {
	var b strings.Builder

	switch StateOf(snap) {
	case StateLoading:
		b.WriteString(pterm.LightBlue(LoadingText))
	case StateError:
		fmt.Fprintf(&b, "%s\n%s\n%s", pterm.Red(ErrorTitle), client.Describe(snap.Err), RetryHint)
	case StateEmpty:
		fmt.Fprintf(&b, "%s\n%s", pterm.Bold.Sprint(EmptyTitle), EmptyHint)
	case StatePopulated:
		if snap.Loading {
			b.WriteString(pterm.Gray("Refreshing...") + "\n")
		}
		for _, job := range snap.Page.Jobs {
			b.WriteString(RenderCard(job, CardOptions{Now: now}))
			b.WriteString("\n")
		}
		if pagination := RenderPagination(snap); pagination != "" {
			b.WriteString(pagination + "\n")
		}
		fmt.Fprintf(&b, "%s   %s", FooterText(snap), PageText(snap))
	}
	return b.String()
}

// RenderRows renders the page as a compact table
func RenderRows(jobs []models.Job) (string, error) {
	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Type", "Salary"}}
	for _, job := range jobs {
		salary := Optional(job.SalaryRange)
		if salary == "" {
			salary = "-"
		}
		data = append(data, []string{
			fmt.Sprint(job.ID),
			utils.TruncateString(job.Title, 36),
			utils.TruncateString(job.Company, 24),
			utils.TruncateString(DisplayLocation(job.Location), 24),
			string(job.JobType),
			salary,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// RenderFilterBar summarizes the current query
func RenderFilterBar(q listing.Query) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", q.Search))
	}
	for _, f := range []struct{ name, value string }{
		{"type", q.JobType},
		{"location", q.Location},
		{"tags", q.Tags},
	} {
		if f.value != "" && f.value != models.FilterAll {
			parts = append(parts, fmt.Sprintf("%s=%s", f.name, f.value))
		}
	}

	count := q.ActiveFilterCount()
	header := "Filters"
	if count > 0 {
		header = fmt.Sprintf("Filters (%d active)", count)
	}
	line := fmt.Sprintf("%s  sort: %s", header, q.Sort.Label())
	if len(parts) > 0 {
		line += "  " + strings.Join(parts, " ")
	}
	return line
}

// RenderToasts renders the visible toasts, newest last
func RenderToasts(toasts []board.Toast) string {
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		switch t.Kind {
		case board.ToastSuccess:
			lines = append(lines, pterm.Green("✔ "+t.Text))
		case board.ToastError:
			lines = append(lines, pterm.Red("✖ "+t.Text))
		case board.ToastDelete:
			lines = append(lines, pterm.LightRed("🗑 "+t.Text))
		default:
			lines = append(lines, pterm.LightBlue("ℹ "+t.Text))
		}
	}
	return strings.Join(lines, "\n")
}
