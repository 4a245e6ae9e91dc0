package discovery

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobagent/internal/database"
)

const wwrFeedURL = "https://weworkremotely.com/remote-jobs.rss"

// WeWorkRemotelySource reads the We Work Remotely RSS feed. The feed carries
// no server-side search, so keyword filtering happens locally.
type WeWorkRemotelySource struct {
	// FeedURL is overridable for tests.
	FeedURL   string
	userAgent string
	client    *http.Client
}

// NewWeWorkRemotelySource constructs the source.
func NewWeWorkRemotelySource(userAgent string) *WeWorkRemotelySource {
	return &WeWorkRemotelySource{
		FeedURL:   wwrFeedURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements SearchSource.
func (s *WeWorkRemotelySource) Name() database.JobSource { return database.SourceWeWorkRemotely }

type wwrFeed struct {
	Channel struct {
		Items []wwrItem `xml:"item"`
	} `xml:"channel"`
}

type wwrItem struct {
	// Title follows the "Company: Job Title" convention.
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Region      string `xml:"region"`
	Category    string `xml:"category"`
	Description string `xml:"description"`
}

// Search implements SearchSource.
func (s *WeWorkRemotelySource) Search(ctx context.Context, q Query) ([]Posting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FeedURL, nil)
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
		return nil, fmt.Errorf("weworkremotely returned %d", resp.StatusCode)
	}

	var feed wwrFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode rss: %w", err)
	}

	var postings []Posting
	for _, item := range feed.Channel.Items {
		if q.Limit > 0 && len(postings) >= q.Limit {
			break
		}
		company, title := splitWWRTitle(item.Title)
		if title == "" {
			continue
		}
		if !matchesAnyKeyword(title+" "+item.Description, q.Keywords) {
			continue
		}
		location := strings.TrimSpace(item.Region)
		if location == "" {
			location = "Remote"
		}
		postings = append(postings, Posting{
			ExternalID:  strings.TrimSpace(item.GUID),
			Title:       title,
			Company:     company,
			Description: item.Description,
			Location:    location,
			JobType:     "remote",
			URL:         item.Link,
		})
	}
	return postings, nil
}

// splitWWRTitle separates the feed's "Company: Job Title" form. Titles
// without the separator are treated as title-only.
func splitWWRTitle(raw string) (company, title string) {
	raw = strings.TrimSpace(raw)
	if company, title, ok := strings.Cut(raw, ": "); ok {
		return strings.TrimSpace(company), strings.TrimSpace(title)
	}
	return "", raw
}

// matchesAnyKeyword is the local stand-in for server-side search: require at
// least one search keyword to appear in the text. No keywords means no filter.
func matchesAnyKeyword(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	textLower := strings.ToLower(text)
	for _, k := range keywords {
		if k = strings.TrimSpace(strings.ToLower(k)); k == "" {
			continue
		}
		if strings.Contains(textLower, k) {
			return true
		}
	}
	return false
}
