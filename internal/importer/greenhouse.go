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

const greenhouseAPIURL = "https://boards-api.greenhouse.io/v1/boards"

// GreenhouseJobsResponse represents the response from the Greenhouse jobs API
type GreenhouseJobsResponse struct {
	Jobs []GreenhouseJob `json:"jobs"`
}

// GreenhouseJob represents a job posting from Greenhouse
type GreenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Content  string `json:"content"` // entity-escaped HTML, present with ?content=true
	Metadata []struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		ValueType string `json:"value_type"`
		Value     any    `json:"value"`
	} `json:"metadata"`
}

// GreenhouseSource reads public Greenhouse job boards
type GreenhouseSource struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewGreenhouseSource creates a source; an empty baseURL uses the public API
func NewGreenhouseSource(httpClient *http.Client, baseURL string, logger *zap.Logger) *GreenhouseSource {
	if httpClient == nil {
		httpClient = client.CreateHTTPClient(0, "", false)
	}
	if baseURL == "" {
		baseURL = greenhouseAPIURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GreenhouseSource{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// FetchJobs fetches all postings of a board, including their content
func (g *GreenhouseSource) FetchJobs(ctx context.Context, board string) ([]GreenhouseJob, error) {
	endpoint := fmt.Sprintf("%s/%s/jobs?content=true", g.baseURL, url.PathEscape(board))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range client.DefaultHeaders() {
		req.Header[key] = values
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs for %s: %w", board, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code for %s: %d", board, resp.StatusCode)
	}

	body, err := client.ReadResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var jobsResponse GreenhouseJobsResponse
	if err := json.Unmarshal(body, &jobsResponse); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	g.logger.Debug("fetched greenhouse board", zap.String("board", board), zap.Int("jobs", len(jobsResponse.Jobs)))
	return jobsResponse.Jobs, nil
}

// ToInput converts a Greenhouse posting into a job board posting
func (g GreenhouseJob) ToInput(company string, tagger *Tagger) models.JobInput {
	content := utils.UnescapeHTML(g.Content)

	salary := utils.FindSalaryInText(utils.StripHTML(content))
	if salary == "" {
		for _, meta := range g.Metadata {
			name := strings.ToLower(meta.Name)
			if !strings.Contains(name, "salary") && !strings.Contains(name, "compensation") {
				continue
			}
			if s, ok := meta.Value.(string); ok && s != "" {
				salary = s
				break
			}
		}
	}

	input := models.JobInput{
		Title:       strings.TrimSpace(g.Title),
		Company:     company,
		Location:    utils.CleanLocation(g.Location.Name),
		Description: content,
		SalaryRange: salary,
	}
	if input.Location == "" {
		input.Location = "Remote"
	}
	if tagger != nil {
		tagger.Apply(&input)
	} else {
		input.JobType = JobType(input.Title)
	}
	return input
}

// FormatCompanyName turns a board slug into a display name
func FormatCompanyName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Collect fetches every board and converts the postings whose title contains
// keyword. Boards that fail are logged and skipped.
func (g *GreenhouseSource) Collect(ctx context.Context, boards []string, keyword string, remoteOnly bool, tagger *Tagger) ([]models.JobInput, error) {
	var inputs []models.JobInput
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	for _, board := range boards {
		if err := ctx.Err(); err != nil {
			return inputs, err
		}

		jobs, err := g.FetchJobs(ctx, board)
		if err != nil {
			g.logger.Warn("skipping greenhouse board", zap.String("board", board), zap.Error(err))
			continue
		}

		company := FormatCompanyName(board)
		for _, job := range jobs {
			if keyword != "" && !strings.Contains(strings.ToLower(job.Title), keyword) {
				continue
			}
			if remoteOnly && !utils.IsRemote(job.Title, job.Location.Name) {
				continue
			}
			inputs = append(inputs, job.ToInput(company, tagger))
		}
	}
	return inputs, nil
}
