package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobagent/internal/database"
)

const remoteCoBaseURL = "https://remote.co/remote-jobs/search/"

// RemoteCoSource scrapes the Remote.co search listing. Remote.co exposes no
// API; the job-board markup is stable enough to parse directly.
type RemoteCoSource struct {
	// BaseURL is overridable for tests.
	BaseURL   string
	userAgent string
	client    *http.Client
}

// NewRemoteCoSource constructs the source.
func NewRemoteCoSource(userAgent string) *RemoteCoSource {
	return &RemoteCoSource{
		BaseURL:   remoteCoBaseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements SearchSource.
func (s *RemoteCoSource) Name() database.JobSource { return database.SourceRemoteCo }

// Search implements SearchSource.
func (s *RemoteCoSource) Search(ctx context.Context, q Query) ([]Posting, error) {
	params := url.Values{}
	params.Set("search_keywords", strings.Join(q.Keywords, " "))

	reqURL := s.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote.co returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var postings []Posting
	doc.Find("div.job_board_item").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if q.Limit > 0 && len(postings) >= q.Limit {
			return false
		}

		link := card.Find("a.job_board_link").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}

		href, _ := link.Attr("href")
		if href != "" && strings.HasPrefix(href, "/") {
			href = "https://remote.co" + href
		}

		company := strings.TrimSpace(card.Find("p.job_board_company").First().Text())
		location := strings.TrimSpace(card.Find("p.job_board_location").First().Text())
		if location == "" {
			location = "Remote"
		}

		postings = append(postings, Posting{
			Title:    title,
			Company:  company,
			Location: location,
			JobType:  "remote",
			URL:      href,
		})
		return true
	})
	return postings, nil
}
