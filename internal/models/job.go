package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JobType is the employment type of a posting
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeTemporary  JobType = "Temporary"
)

// JobTypes lists the job types offered by the form, in display order
var JobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeContract,
	JobTypeInternship,
	JobTypeTemporary,
}

// Valid reports whether t is one of the known job types
func (t JobType) Valid() bool {
	for _, known := range JobTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ExperienceLevel is the optional seniority of a posting
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "Entry Level"
	ExperienceMid       ExperienceLevel = "Mid Level"
	ExperienceSenior    ExperienceLevel = "Senior Level"
	ExperienceExecutive ExperienceLevel = "Executive"
)

// ExperienceLevels lists the selectable experience levels, in display order
var ExperienceLevels = []ExperienceLevel{
	ExperienceEntry,
	ExperienceMid,
	ExperienceSenior,
	ExperienceExecutive,
}

// Valid reports whether l is empty or one of the known levels
func (l ExperienceLevel) Valid() bool {
	if l == "" {
		return true
	}
	for _, known := range ExperienceLevels {
		if l == known {
			return true
		}
	}
	return false
}

// NotSpecified is the placeholder the backend stores for missing optional text
const NotSpecified = "Not Specified"

// Job represents a job posting as returned by the backend
type Job struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	JobType         JobType         `json:"job_type"`
	Tags            Tags            `json:"tags"`
	Description     string          `json:"description,omitempty"`
	SalaryRange     string          `json:"salary_range,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	PostingDate     Timestamp       `json:"posting_date"`
	CreatedAt       Timestamp       `json:"created_at,omitempty"`
	UpdatedAt       Timestamp       `json:"updated_at,omitempty"`
}

// PostedAt returns the posting date, falling back to the creation time
func (j Job) PostedAt() time.Time {
	if !j.PostingDate.IsZero() {
		return j.PostingDate.Time
	}
	return j.CreatedAt.Time
}

// Input returns the editable fields of the job
func (j Job) Input() JobInput {
	return JobInput{
		Title:           j.Title,
		Company:         j.Company,
		Location:        j.Location,
		JobType:         j.JobType,
		Tags:            append(Tags(nil), j.Tags...),
		Description:     j.Description,
		SalaryRange:     j.SalaryRange,
		ExperienceLevel: j.ExperienceLevel,
	}
}

// JobInput is the request body for creating or updating a posting
type JobInput struct {
	Title           string          `json:"title" yaml:"title"`
	Company         string          `json:"company" yaml:"company"`
	Location        string          `json:"location" yaml:"location"`
	JobType         JobType         `json:"job_type" yaml:"job_type"`
	Tags            Tags            `json:"tags" yaml:"tags"`
	Description     string          `json:"description" yaml:"description"`
	SalaryRange     string          `json:"salary_range" yaml:"salary_range"`
	ExperienceLevel ExperienceLevel `json:"experience_level" yaml:"experience_level"`
}

// Tags is an ordered list of tag strings. On the wire it may arrive either as a
// JSON array or as a single comma-joined string.
type Tags []string

// ParseTags splits a comma-separated string, trims each token and drops empties
func ParseTags(s string) Tags {
	tags := Tags{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// String joins the tags the way the form displays them
func (t Tags) String() string {
	return strings.Join(t, ", ")
}

// MarshalJSON always encodes tags as an array
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON accepts an array of strings, a comma-joined string or null
func (t *Tags) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Tags{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		tags := Tags{}
		for _, tag := range list {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		*t = tags
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags must be an array or a comma-separated string: %w", err)
	}
	*t = ParseTags(joined)
	return nil
}

// UnmarshalYAML accepts the same two shapes as UnmarshalJSON
func (t *Tags) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*t = ParseTags(strings.Join(list, ","))
		return nil
	}

	var joined string
	if err := unmarshal(&joined); err != nil {
		return fmt.Errorf("tags must be a list or a comma-separated string: %w", err)
	}
	*t = ParseTags(joined)
	return nil
}

// timestampLayouts are tried in order; the backend emits naive ISO timestamps
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time that tolerates the backend's zone-less ISO format
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using the known layouts
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON encodes zero timestamps as null
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}

// UnmarshalJSON decodes null, empty or any supported layout
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
