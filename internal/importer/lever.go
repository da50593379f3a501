package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
	"github.com/fr4nk3nst1ner/jobdesk/internal/utils"
)

const leverAPIURL = "https://api.lever.co/v0/postings"

// LeverJob represents a job posting from the public Lever postings API
type LeverJob struct {
	ID          string `json:"id"`
	Title       string `json:"text"`
	Description string `json:"descriptionPlain"`
	Additional  string `json:"additionalPlain"`
	HostedURL   string `json:"hostedUrl"`
	Lists       []struct {
		Text    string `json:"text"`
		Content string `json:"content"` // HTML list items
	} `json:"lists"`
	Categories struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Department string `json:"department"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
}

// LeverSource reads public Lever job sites
type LeverSource struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewLeverSource creates a source; an empty baseURL uses the public API
func NewLeverSource(httpClient *http.Client, baseURL string, logger *zap.Logger) *LeverSource {
	if httpClient == nil {
		httpClient = client.CreateHTTPClient(0, "", false)
	}
	if baseURL == "" {
		baseURL = leverAPIURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeverSource{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// FetchJobs fetches all published postings of a company
func (l *LeverSource) FetchJobs(ctx context.Context, company string) ([]LeverJob, error) {
	endpoint := fmt.Sprintf("%s/%s?mode=json", l.baseURL, url.PathEscape(company))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range client.DefaultHeaders() {
		req.Header[key] = values
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs for %s: %w", company, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code for %s: %d", company, resp.StatusCode)
	}

	body, err := client.ReadResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var jobs []LeverJob
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	l.logger.Debug("fetched lever postings", zap.String("company", company), zap.Int("jobs", len(jobs)))
	return jobs, nil
}

// FullText joins the description, the additional info and every list
func (j LeverJob) FullText() string {
	parts := []string{j.Description, j.Additional}
	for _, list := range j.Lists {
		parts = append(parts, list.Text, utils.StripHTML(list.Content))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// ToInput converts a Lever posting into a job board posting
func (j LeverJob) ToInput(company string, tagger *Tagger) models.JobInput {
	text := j.FullText()
	input := models.JobInput{
		Title:       strings.TrimSpace(j.Title),
		Company:     company,
		Location:    utils.CleanLocation(j.Categories.Location),
		Description: text,
		SalaryRange: utils.FindSalaryInText(text),
		JobType:     commitmentJobType(j.Categories.Commitment),
	}
	if input.Location == "" {
		input.Location = "Remote"
	}
	if tagger != nil {
		tagger.Apply(&input)
	} else if input.JobType == "" {
		input.JobType = JobType(input.Title)
	}
	return input
}

// commitmentJobType maps Lever's free-text commitment onto a job type
func commitmentJobType(commitment string) models.JobType {
	c := strings.ToLower(commitment)
	switch {
	case c == "":
		return ""
	case strings.Contains(c, "intern"):
		return models.JobTypeInternship
	case strings.Contains(c, "contract"), strings.Contains(c, "freelance"):
		return models.JobTypeContract
	case strings.Contains(c, "part"):
		return models.JobTypePartTime
	case strings.Contains(c, "temp"):
		return models.JobTypeTemporary
	case strings.Contains(c, "full"), strings.Contains(c, "permanent"):
		return models.JobTypeFullTime
	default:
		return ""
	}
}

// Collect fetches every company and converts the postings whose title
// contains keyword. Companies that fail are logged and skipped.
func (l *LeverSource) Collect(ctx context.Context, companies []string, keyword string, remoteOnly bool, tagger *Tagger) ([]models.JobInput, error) {
	var inputs []models.JobInput
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return inputs, err
		}

		jobs, err := l.FetchJobs(ctx, company)
		if err != nil {
			l.logger.Warn("skipping lever company", zap.String("company", company), zap.Error(err))
			continue
		}

		name := FormatCompanyName(company)
		for _, job := range jobs {
			if keyword != "" && !strings.Contains(strings.ToLower(job.Title), keyword) {
				continue
			}
			if remoteOnly && !utils.IsRemote(job.Title, job.Categories.Location) {
				continue
			}
			inputs = append(inputs, job.ToInput(name, tagger))
		}
	}
	return inputs, nil
}
