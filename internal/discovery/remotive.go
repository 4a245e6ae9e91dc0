package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobagent/internal/database"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// RemotiveSource queries the Remotive public JSON API.
type RemotiveSource struct {
	// BaseURL is overridable for tests.
	BaseURL   string
	userAgent string
	client    *http.Client
}

// NewRemotiveSource constructs the source with a shared HTTP client.
func NewRemotiveSource(userAgent string) *RemotiveSource {
	return &RemotiveSource{
		BaseURL:   remotiveBaseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements SearchSource.
func (s *RemotiveSource) Name() database.JobSource { return database.SourceRemotive }

// remotiveResponse mirrors the top-level Remotive API response.
type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// remotiveJob mirrors a single Remotive listing.
type remotiveJob struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	JobType     string `json:"job_type"`
	Location    string `json:"candidate_required_location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
}

// Search implements SearchSource.
func (s *RemotiveSource) Search(ctx context.Context, q Query) ([]Posting, error) {
	params := url.Values{}
	params.Set("search", strings.Join(q.Keywords, " "))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	reqURL := s.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remotive returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResp remotiveResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	postings := make([]Posting, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		location := j.Location
		if location == "" {
			location = "Remote"
		}
		jobType := j.JobType
		if jobType == "" {
			jobType = "remote"
		}
		postings = append(postings, Posting{
			ExternalID:  strconv.FormatInt(j.ID, 10),
			Title:       j.Title,
			Company:     j.CompanyName,
			Description: j.Description,
			Location:    location,
			JobType:     jobType,
			URL:         j.URL,
			Salary:      j.Salary,
		})
	}
	return postings, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
