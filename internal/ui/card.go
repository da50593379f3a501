package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
	"github.com/fr4nk3nst1ner/jobdesk/internal/utils"
)

const defaultLocation = "Remote"

// DisplayLocation returns the location to show, "Remote" when none was given
func DisplayLocation(location string) string {
	if strings.TrimSpace(location) == "" {
		return defaultLocation
	}
	return location
}

// Optional returns s, or "" when it is the backend's "Not Specified" placeholder
func Optional(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, models.NotSpecified) {
		return ""
	}
	return s
}

// PlainDescription strips any HTML markup from a posting description
func PlainDescription(description string) string {
	return utils.StripHTML(description)
}

// PostedLabel renders the posting date with a humanized age relative to now
func PostedLabel(posted, now time.Time) string {
	if posted.IsZero() {
		return "Posted: unknown"
	}
	return fmt.Sprintf("Posted: %s (%s)", posted.Format("Jan 2, 2006"), humanize.RelTime(posted, now, "ago", "from now"))
}

// CardOptions control how much of a posting RenderCard shows
type CardOptions struct {
	Full bool // include the description
	Now  time.Time
}

// RenderCard renders one posting as a terminal card
func RenderCard(job models.Job, opts CardOptions) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", pterm.Magenta(job.Company))
	fmt.Fprintf(&b, "📍 %s   %s\n", DisplayLocation(job.Location), JobTypeBadge(job.JobType))
	if level := Optional(string(job.ExperienceLevel)); level != "" {
		fmt.Fprintf(&b, "Experience: %s\n", level)
	}
	if salary := Optional(job.SalaryRange); salary != "" {
		fmt.Fprintf(&b, "Salary: %s\n", ColorizeSalary(salary))
	}
	if len(job.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", RenderTags(job.Tags))
	}
	b.WriteString(PostedLabel(job.PostedAt(), now))
	if opts.Full {
		if desc := PlainDescription(Optional(job.Description)); desc != "" {
			fmt.Fprintf(&b, "\n\n%s", desc)
		}
	}

	title := fmt.Sprintf("#%d %s", job.ID, job.Title)
	return pterm.DefaultBox.WithTitle(pterm.Bold.Sprint(title)).Sprint(b.String())
}

// JobTypeBadge renders a job type with a color per type
func JobTypeBadge(t models.JobType) string {
	label := fmt.Sprintf("[%s]", t)
	switch t {
	case models.JobTypeFullTime:
		return pterm.Green(label)
	case models.JobTypePartTime:
		return pterm.Cyan(label)
	case models.JobTypeContract:
		return pterm.Yellow(label)
	case models.JobTypeInternship:
		return pterm.LightBlue(label)
	default:
		return pterm.Gray(label)
	}
}

// RenderTags renders tags as inline chips
func RenderTags(tags models.Tags) string {
	chips := make([]string, 0, len(tags))
	for _, tag := range tags {
		chips = append(chips, pterm.LightCyan("#"+tag))
	}
	return strings.Join(chips, " ")
}

// DeleteConfirmation is the two-step delete flow of a card: the first request
// arms it, and only a confirmation of an armed request deletes.
type DeleteConfirmation struct {
	JobID int64
	Title string
	armed bool
}

// NewDeleteConfirmation prepares the confirmation for job
func NewDeleteConfirmation(job models.Job) *DeleteConfirmation {
	return &DeleteConfirmation{JobID: job.ID, Title: job.Title}
}

// Request arms the confirmation
func (d *DeleteConfirmation) Request() {
	d.armed = true
}

// Pending reports whether the user has to confirm
func (d *DeleteConfirmation) Pending() bool {
	return d.armed
}

// Cancel disarms the confirmation
func (d *DeleteConfirmation) Cancel() {
	d.armed = false
}

// Confirm reports whether the delete may proceed and disarms the confirmation
func (d *DeleteConfirmation) Confirm() bool {
	ok := d.armed
	d.armed = false
	return ok
}

// Prompt is the question shown while the confirmation is armed
func (d *DeleteConfirmation) Prompt() string {
	return fmt.Sprintf("Are you sure you want to delete %q?", d.Title)
}
