// Package form implements the create/edit posting form: local validation, tags
// normalization and merging of server-side field errors.
package form

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

// Field names, matching the JSON names of the posting
const (
	FieldTitle           = "title"
	FieldCompany         = "company"
	FieldLocation        = "location"
	FieldJobType         = "job_type"
	FieldTags            = "tags"
	FieldDescription     = "description"
	FieldSalaryRange     = "salary_range"
	FieldExperienceLevel = "experience_level"
	// FieldForm holds errors that are not tied to a single field
	FieldForm = "form"
)

const (
	msgSaveFailed    = "An error occurred while saving the job. Please try again."
	msgCreateSuccess = "Job added successfully!"
	msgUpdateSuccess = "Job updated successfully!"
)

// ErrInvalid is returned by Submit when local validation fails
var ErrInvalid = errors.New("form has validation errors")

// Values are the raw text inputs of the form
type Values struct {
	Title           string `form:"title"`
	Company         string `form:"company"`
	Location        string `form:"location"`
	JobType         string `form:"job_type"`
	Tags            string `form:"tags"`
	Description     string `form:"description"`
	SalaryRange     string `form:"salary_range"`
	ExperienceLevel string `form:"experience_level"`
}

// blankValues is what a new form starts with
func blankValues() Values {
	return Values{JobType: string(models.JobTypeFullTime)}
}

// ValuesFromInput renders a request body back into form values
func ValuesFromInput(input models.JobInput) Values {
	return Values{
		Title:           input.Title,
		Company:         input.Company,
		Location:        input.Location,
		JobType:         string(input.JobType),
		Tags:            input.Tags.String(),
		Description:     input.Description,
		SalaryRange:     input.SalaryRange,
		ExperienceLevel: string(input.ExperienceLevel),
	}
}

// SubmitFunc sends the converted input to the backend
type SubmitFunc func(ctx context.Context, input models.JobInput) error

// Form is the state of one create or edit form
type Form struct {
	Values  Values
	Errors  map[string]string
	Success string
	jobID   int64
	editing bool
}

// New returns a blank form for creating a posting
func New() *Form {
	return &Form{
		Values: blankValues(),
		Errors: map[string]string{},
	}
}

// ForJob returns a form prefilled from an existing posting
func ForJob(job models.Job) *Form {
	jobType := string(job.JobType)
	if jobType == "" {
		jobType = string(models.JobTypeFullTime)
	}
	values := ValuesFromInput(job.Input())
	values.JobType = jobType
	return &Form{
		Values:  values,
		Errors:  map[string]string{},
		jobID:   job.ID,
		editing: true,
	}
}

// Editing reports whether the form edits an existing posting
func (f *Form) Editing() bool {
	return f.editing
}

// JobID is the id of the posting being edited, 0 when creating
func (f *Form) JobID() int64 {
	return f.jobID
}

// Set updates a field by name and clears its error
func (f *Form) Set(field, value string) {
	switch field {
	case FieldTitle:
		f.Values.Title = value
	case FieldCompany:
		f.Values.Company = value
	case FieldLocation:
		f.Values.Location = value
	case FieldJobType:
		f.Values.JobType = value
	case FieldTags:
		f.Values.Tags = value
	case FieldDescription:
		f.Values.Description = value
	case FieldSalaryRange:
		f.Values.SalaryRange = value
	case FieldExperienceLevel:
		f.Values.ExperienceLevel = value
	default:
		return
	}
	delete(f.Errors, field)
}

// Error returns the message for field, if any
func (f *Form) Error(field string) string {
	return f.Errors[field]
}

// Valid runs local validation and reports whether the form can be submitted.
// Errors from a previous run are replaced.
func (f *Form) Valid() bool {
	f.Errors = Validate(f.Values)
	return len(f.Errors) == 0
}

// Input converts the form values into a request body
func (f *Form) Input() models.JobInput {
	return models.JobInput{
		Title:           strings.TrimSpace(f.Values.Title),
		Company:         strings.TrimSpace(f.Values.Company),
		Location:        strings.TrimSpace(f.Values.Location),
		JobType:         models.JobType(f.Values.JobType),
		Tags:            models.ParseTags(f.Values.Tags),
		Description:     strings.TrimSpace(f.Values.Description),
		SalaryRange:     strings.TrimSpace(f.Values.SalaryRange),
		ExperienceLevel: models.ExperienceLevel(f.Values.ExperienceLevel),
	}
}

// Submit validates the form and, when valid, hands the input to fn. A create
// form resets to blank after success; an edit form keeps its values. Failures
// from fn are recorded on the form and returned.
func (f *Form) Submit(ctx context.Context, fn SubmitFunc) error {
	f.Success = ""
	if !f.Valid() {
		return ErrInvalid
	}

	if err := fn(ctx, f.Input()); err != nil {
		f.recordFailure(err)
		return err
	}

	if f.editing {
		f.Success = msgUpdateSuccess
	} else {
		f.Success = msgCreateSuccess
		f.Values = blankValues()
	}
	return nil
}

// recordFailure merges server field errors when the server answered, and sets a
// generic form error otherwise
func (f *Form) recordFailure(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.HasResponse() {
		for field, msg := range apiErr.FieldErrors {
			f.Errors[field] = msg
		}
		return
	}
	f.Errors[FieldForm] = msgSaveFailed
}

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use
var validate = newValidator()

// checked is the trimmed view of Values that validation rules run against
type checked struct {
	Title    string `validate:"required,min=3"`
	Company  string `validate:"required,min=2"`
	Location string `validate:"required"`
	Tags     string `validate:"omitempty,csvtags"`
}

var fieldNames = map[string]string{
	"Title":    FieldTitle,
	"Company":  FieldCompany,
	"Location": FieldLocation,
	"Tags":     FieldTags,
}

var messages = map[string]map[string]string{
	FieldTitle: {
		"required": "Job title is required",
		"min":      "Job title must be at least 3 characters",
	},
	FieldCompany: {
		"required": "Company name is required",
		"min":      "Company name must be at least 2 characters",
	},
	FieldLocation: {
		"required": "Location is required",
	},
	FieldTags: {
		"csvtags": "Tags must be comma-separated values",
	},
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("csvtags", func(fl validator.FieldLevel) bool {
		return ValidTags(fl.Field().String())
	})
	return v
}

// Validate checks values and returns field name → message for every problem.
// Job type and experience level are free text on the backend and pass as is.
func Validate(values Values) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(checked{
		Title:    strings.TrimSpace(values.Title),
		Company:  strings.TrimSpace(values.Company),
		Location: strings.TrimSpace(values.Location),
		Tags:     values.Tags,
	})
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[FieldForm] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := fieldNames[fe.StructField()]
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = messages[field][fe.Tag()]
	}
	return errs
}

// ValidTags reports whether s is a list of comma-separated non-empty tokens.
// Separators at either end are tolerated; an empty token between two tags is not.
func ValidTags(s string) bool {
	parts := strings.Split(s, ",")
	start, end := 0, len(parts)
	for start < end && strings.TrimSpace(parts[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(parts[end-1]) == "" {
		end--
	}
	if start == end {
		return strings.TrimSpace(s) == ""
	}
	for _, part := range parts[start:end] {
		if strings.TrimSpace(part) == "" {
			return false
		}
	}
	return true
}
