package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemotiveSearch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"jobs": [
				{
					"id": 101,
					"url": "https://remotive.com/jobs/101",
					"title": "Senior Go Engineer",
					"company_name": "Acme",
					"job_type": "full_time",
					"candidate_required_location": "Europe",
					"salary": "$100k",
					"description": "Build services in Go."
				},
				{
					"id": 102,
					"url": "https://remotive.com/jobs/102",
					"title": "Backend Developer",
					"company_name": "Globex",
					"job_type": "",
					"candidate_required_location": "",
					"description": "APIs."
				}
			]
		}`))
	}))
	defer server.Close()

	source := NewRemotiveSource("test-agent")
	source.BaseURL = server.URL

	postings, err := source.Search(context.Background(), Query{Keywords: []string{"go", "backend"}, Limit: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(postings))
	}

	first := postings[0]
	if first.ExternalID != "101" || first.Title != "Senior Go Engineer" || first.Company != "Acme" {
		t.Errorf("first posting = %+v", first)
	}
	if first.Location != "Europe" || first.Salary != "$100k" {
		t.Errorf("first posting location/salary = %q/%q", first.Location, first.Salary)
	}

	// Blank location and job type fall back to remote defaults.
	second := postings[1]
	if second.Location != "Remote" || second.JobType != "remote" {
		t.Errorf("second posting defaults = %q/%q", second.Location, second.JobType)
	}

	if gotQuery != "limit=10&search=go+backend" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestRemotiveSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	source := NewRemotiveSource("test-agent")
	source.BaseURL = server.URL

	if _, err := source.Search(context.Background(), Query{Keywords: []string{"go"}}); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
