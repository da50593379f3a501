package importer

import (
	"strings"

	"github.com/fr4nk3nst1ner/jobdesk/internal/config"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

// Tagger derives tags, experience level and job type from a posting title
type Tagger struct {
	cfg config.TaggingConfig
}

// NewTagger creates a tagger using the configured keyword rules
func NewTagger(cfg config.TaggingConfig) *Tagger {
	return &Tagger{cfg: cfg}
}

// Tags returns every category whose keywords appear in the title, in rule order
func (t *Tagger) Tags(title string) models.Tags {
	titleLower := " " + strings.ToLower(title) + " "
	tags := models.Tags{}
	for _, rule := range t.cfg.Categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(titleLower, strings.ToLower(kw)) {
				tags = append(tags, rule.Tag)
				break
			}
		}
	}
	return tags
}

// Level returns the level of the first matching rule, or "" when none matches
func (t *Tagger) Level(title string) models.ExperienceLevel {
	titleLower := " " + strings.ToLower(title) + " "
	for _, rule := range t.cfg.Levels {
		for _, kw := range rule.Keywords {
			if strings.Contains(titleLower, strings.ToLower(kw)) {
				return rule.Level
			}
		}
	}
	return ""
}

// JobType infers the employment type from the title, defaulting to full-time
func JobType(title string) models.JobType {
	titleLower := " " + strings.ToLower(title) + " "
	switch {
	case strings.Contains(titleLower, " intern "), strings.Contains(titleLower, "internship"):
		return models.JobTypeInternship
	case strings.Contains(titleLower, "contract"):
		return models.JobTypeContract
	case strings.Contains(titleLower, "part-time"), strings.Contains(titleLower, "part time"):
		return models.JobTypePartTime
	case strings.Contains(titleLower, "temporary"), strings.Contains(titleLower, "temp "):
		return models.JobTypeTemporary
	default:
		return models.JobTypeFullTime
	}
}

// Apply fills the tags, level and job type of input where they are empty
func (t *Tagger) Apply(input *models.JobInput) {
	if len(input.Tags) == 0 {
		input.Tags = t.Tags(input.Title)
	}
	if input.ExperienceLevel == "" {
		input.ExperienceLevel = t.Level(input.Title)
	}
	if input.JobType == "" {
		input.JobType = JobType(input.Title)
	}
}
