package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"jobagent/internal/database"
)

func TestDashboard(t *testing.T) {
	a := newTestAPI(t)

	for _, status := range []string{"pending", "pending", "interviewing", "rejected"} {
		job := a.seedJob(t, "")
		w := a.do(t, http.MethodPost, "/api/applications", map[string]any{
			"job_id": job.ID,
			"status": status,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed application: %d body=%s", w.Code, w.Body.String())
		}
	}
	a.seedJob(t, "") // a discovered job with no application yet

	w := a.do(t, http.MethodGet, "/api/analytics/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeJSON[dashboardResponse](t, w)

	if resp.Metrics.TotalJobsDiscovered != 5 {
		t.Errorf("total_jobs_discovered = %d, want 5", resp.Metrics.TotalJobsDiscovered)
	}
	if resp.Metrics.TotalApplications != 4 {
		t.Errorf("total_applications = %d, want 4", resp.Metrics.TotalApplications)
	}
	if resp.Metrics.PendingApplications != 2 {
		t.Errorf("pending_applications = %d, want 2", resp.Metrics.PendingApplications)
	}
	if resp.Metrics.Interviewing != 1 {
		t.Errorf("interviewing = %d, want 1", resp.Metrics.Interviewing)
	}
	if resp.Metrics.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", resp.Metrics.Rejected)
	}
	if len(resp.RecentJobs) != 5 {
		t.Errorf("recent_jobs = %d entries, want 5", len(resp.RecentJobs))
	}
	if len(resp.RecentApplications) != 4 {
		t.Errorf("recent_applications = %d entries, want 4", len(resp.RecentApplications))
	}
}

func TestDashboard_RecentJobsCapped(t *testing.T) {
	a := newTestAPI(t)
	for i := 0; i < 7; i++ {
		job := database.Job{
			ID:       uuid.NewString(),
			Title:    "Engineer",
			Company:  "Acme",
			Source:   database.SourceRemotive,
			DedupKey: "remotive:" + uuid.NewString(),
		}
		if err := a.db.Create(&job).Error; err != nil {
			t.Fatalf("seed job: %v", err)
		}
	}

	w := a.do(t, http.MethodGet, "/api/analytics/dashboard", nil)
	resp := decodeJSON[dashboardResponse](t, w)
	if len(resp.RecentJobs) != 5 {
		t.Errorf("recent_jobs = %d entries, want cap of 5", len(resp.RecentJobs))
	}
	if resp.Metrics.TotalJobsDiscovered != 7 {
		t.Errorf("total_jobs_discovered = %d, want 7", resp.Metrics.TotalJobsDiscovered)
	}
}
