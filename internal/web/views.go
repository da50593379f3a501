package web

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/fr4nk3nst1ner/jobdesk/internal/board"
	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/listing"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
	"github.com/fr4nk3nst1ner/jobdesk/internal/ui"
)

var templateFuncs = template.FuncMap{
	"sortLabel": func(k models.SortKey) string { return k.Label() },
}

// flash is a one-shot message carried in the redirect URL
type flash struct {
	Text string
	Kind string
}

func flashFrom(v url.Values) *flash {
	text := v.Get("msg")
	if text == "" {
		return nil
	}
	kind := v.Get("kind")
	switch board.ToastKind(kind) {
	case board.ToastSuccess, board.ToastError, board.ToastDelete, board.ToastInfo:
	default:
		kind = string(board.ToastInfo)
	}
	return &flash{Text: text, Kind: kind}
}

// withFlash appends a flash message to a redirect target
func withFlash(path, text string, kind board.ToastKind) string {
	v := url.Values{}
	v.Set("msg", text)
	v.Set("kind", string(kind))
	return path + "?" + v.Encode()
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

func options(values []string, selected string) []option {
	opts := []option{{Value: models.FilterAll, Label: models.FilterAll, Selected: selected == "" || selected == models.FilterAll}}
	for _, v := range values {
		if v == models.FilterAll {
			continue
		}
		opts = append(opts, option{Value: v, Label: v, Selected: v == selected})
	}
	return opts
}

func sortOptions(selected models.SortKey) []option {
	opts := make([]option, 0, len(models.SortKeys))
	for _, k := range models.SortKeys {
		opts = append(opts, option{Value: string(k), Label: k.Label(), Selected: k == selected})
	}
	return opts
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type cardView struct {
	ID          int64
	Title       string
	Company     string
	Location    string
	JobType     string
	Experience  string
	Salary      string
	Tags        []string
	Posted      string
	Description string
}

func newCardView(job models.Job, now time.Time, full bool) cardView {
	v := cardView{
		ID:         job.ID,
		Title:      job.Title,
		Company:    job.Company,
		Location:   ui.DisplayLocation(job.Location),
		JobType:    string(job.JobType),
		Experience: ui.Optional(string(job.ExperienceLevel)),
		Salary:     ui.Optional(job.SalaryRange),
		Tags:       job.Tags,
		Posted:     ui.PostedLabel(job.PostedAt(), now),
	}
	if full {
		v.Description = ui.PlainDescription(ui.Optional(job.Description))
	}
	return v
}

type listView struct {
	Title       string
	Flash       *flash
	State       string
	ErrText     string
	RetryURL    string
	Query       listing.Query
	ActiveCount int
	ClearURL    string
	JobTypes    []option
	Locations   []option
	Tags        []option
	Sorts       []option
	Cards       []cardView
	Pages       []pageLink
	PrevURL     string
	NextURL     string
	Footer      string
	PageText    string
}

func pageURL(q listing.Query, page int) string {
	v := q.WithPage(page).Values()
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func newListView(snap listing.Snapshot, filters models.FilterOptions, now time.Time) listView {
	q := snap.Query
	v := listView{
		Title:       "Job Board",
		Query:       q,
		ActiveCount: q.ActiveFilterCount(),
		JobTypes:    options(filters.JobTypes, q.JobType),
		Locations:   options(filters.Locations, q.Location),
		Tags:        options(filters.Tags, q.Tags),
		Sorts:       sortOptions(q.Sort),
		RetryURL:    pageURL(q, q.Page),
	}
	if v.ActiveCount > 0 {
		v.ClearURL = "/"
	}

	switch ui.StateOf(snap) {
	case ui.StateError:
		v.State = "error"
		v.ErrText = errorText(snap.Err)
		return v
	case ui.StateEmpty, ui.StateLoading:
		v.State = "empty"
		return v
	}

	v.State = "populated"
	for _, job := range snap.Page.Jobs {
		v.Cards = append(v.Cards, newCardView(job, now, false))
	}
	if snap.Page.Pages > 1 {
		for _, n := range snap.PageNumbers() {
			v.Pages = append(v.Pages, pageLink{Number: n, URL: pageURL(q, n), Current: n == q.Page})
		}
		if snap.Page.HasPrev {
			v.PrevURL = pageURL(q, q.Page-1)
		}
		if snap.Page.HasNext {
			v.NextURL = pageURL(q, q.Page+1)
		}
	}
	v.Footer = ui.FooterText(snap)
	v.PageText = ui.PageText(snap)
	return v
}

type formView struct {
	Title            string
	Flash            *flash
	Action           string
	CancelURL        string
	Editing          bool
	Values           form.Values
	Errors           map[string]string
	JobTypes         []option
	ExperienceLevels []option
}

func newFormView(f *form.Form) formView {
	v := formView{
		Title:     "Add New Job",
		Action:    "/jobs",
		CancelURL: "/",
		Values:    f.Values,
		Errors:    f.Errors,
	}
	if f.Editing() {
		id := strconv.FormatInt(f.JobID(), 10)
		v.Title = "Edit Job"
		v.Action = "/jobs/" + id
		v.CancelURL = "/jobs/" + id
		v.Editing = true
	}

	for _, t := range models.JobTypes {
		v.JobTypes = append(v.JobTypes, option{Value: string(t), Label: string(t), Selected: string(t) == f.Values.JobType})
	}
	// Values stored outside the known lists stay selectable so saving keeps them
	if jt := f.Values.JobType; jt != "" && !models.JobType(jt).Valid() {
		v.JobTypes = append(v.JobTypes, option{Value: jt, Label: jt, Selected: true})
	}
	v.ExperienceLevels = []option{{Value: "", Label: "Select level", Selected: f.Values.ExperienceLevel == ""}}
	for _, l := range models.ExperienceLevels {
		v.ExperienceLevels = append(v.ExperienceLevels, option{Value: string(l), Label: string(l), Selected: string(l) == f.Values.ExperienceLevel})
	}
	if lvl := f.Values.ExperienceLevel; !models.ExperienceLevel(lvl).Valid() {
		v.ExperienceLevels = append(v.ExperienceLevels, option{Value: lvl, Label: lvl, Selected: true})
	}
	return v
}

type detailView struct {
	Title string
	Flash *flash
	Card  cardView
}

type confirmView struct {
	Title  string
	Flash  *flash
	Card   cardView
	Prompt string
}

type errorView struct {
	Title   string
	Flash   *flash
	Message string
}
