package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const wwrSampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>We Work Remotely: Remote Jobs</title>
    <item>
      <title>Acme: Senior Go Engineer</title>
      <link>https://weworkremotely.com/jobs/1</link>
      <guid>wwr-1</guid>
      <region>Anywhere in the World</region>
      <category>Back-End Programming</category>
      <description>Distributed systems in Go.</description>
    </item>
    <item>
      <title>Globex: Content Writer</title>
      <link>https://weworkremotely.com/jobs/2</link>
      <guid>wwr-2</guid>
      <region></region>
      <description>Blog posts and docs.</description>
    </item>
    <item>
      <title>Initech: Go Platform Engineer</title>
      <link>https://weworkremotely.com/jobs/3</link>
      <guid>wwr-3</guid>
      <description>Kubernetes and Go tooling.</description>
    </item>
  </channel>
</rss>`

func TestWeWorkRemotelySearch_FiltersLocally(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(wwrSampleFeed))
	}))
	defer server.Close()

	source := NewWeWorkRemotelySource("test-agent")
	source.FeedURL = server.URL

	postings, err := source.Search(context.Background(), Query{Keywords: []string{"go"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// The feed has no server-side search, so the writer role is dropped locally.
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(postings))
	}

	first := postings[0]
	if first.Company != "Acme" || first.Title != "Senior Go Engineer" {
		t.Errorf("title split = %q / %q", first.Company, first.Title)
	}
	if first.ExternalID != "wwr-1" {
		t.Errorf("external id = %q", first.ExternalID)
	}
	if first.Location != "Anywhere in the World" {
		t.Errorf("location = %q", first.Location)
	}
	if postings[1].Location != "Remote" {
		t.Errorf("missing region should default to Remote, got %q", postings[1].Location)
	}
}

func TestWeWorkRemotelySearch_Limit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(wwrSampleFeed))
	}))
	defer server.Close()

	source := NewWeWorkRemotelySource("test-agent")
	source.FeedURL = server.URL

	postings, err := source.Search(context.Background(), Query{Limit: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("got %d postings, want 1", len(postings))
	}
}

func TestSplitWWRTitle(t *testing.T) {
	cases := []struct {
		raw, company, title string
	}{
		{"Acme: Senior Go Engineer", "Acme", "Senior Go Engineer"},
		{"Acme Corp: DevOps: On-call", "Acme Corp", "DevOps: On-call"},
		{"Untitled posting", "", "Untitled posting"},
	}
	for _, tc := range cases {
		company, title := splitWWRTitle(tc.raw)
		if company != tc.company || title != tc.title {
			t.Errorf("splitWWRTitle(%q) = %q/%q, want %q/%q", tc.raw, company, title, tc.company, tc.title)
		}
	}
}
