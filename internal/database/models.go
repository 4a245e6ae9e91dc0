package database

import (
	"time"

	"gorm.io/datatypes"
)

// JobSource identifies the platform a posting was discovered on. "manual"
// marks jobs added by hand through the API.
type JobSource string

const (
	SourceFlexJobs       JobSource = "flexjobs"
	SourceRemotive       JobSource = "remotive"
	SourceWeWorkRemotely JobSource = "weworkremotely"
	SourceRemoteCo       JobSource = "remote_co"
	SourceContra         JobSource = "contra"
	SourceToptal         JobSource = "toptal"
	SourceUpwork         JobSource = "upwork"
	SourceIndeed         JobSource = "indeed"
	SourceZipRecruiter   JobSource = "ziprecruiter"
	SourceWellfound      JobSource = "wellfound"
	SourceLinkedIn       JobSource = "linkedin"
	SourceManual         JobSource = "manual"
)

var knownSources = map[JobSource]struct{}{
	SourceFlexJobs: {}, SourceRemotive: {}, SourceWeWorkRemotely: {},
	SourceRemoteCo: {}, SourceContra: {}, SourceToptal: {},
	SourceUpwork: {}, SourceIndeed: {}, SourceZipRecruiter: {},
	SourceWellfound: {}, SourceLinkedIn: {}, SourceManual: {},
}

// ValidSource reports whether s is a member of the closed source enum.
func ValidSource(s JobSource) bool {
	_, ok := knownSources[s]
	return ok
}

// EmailLog delivery states.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Profile is the singleton candidate profile read by the scorer and the
// cover-letter generator. List fields are stored as JSON columns.
type Profile struct {
	ID                string                      `gorm:"primaryKey;size:36" json:"id"`
	FullName          string                      `gorm:"size:255" json:"full_name"`
	Email             string                      `gorm:"size:255" json:"email"`
	Phone             string                      `gorm:"size:64" json:"phone"`
	Location          string                      `gorm:"size:255" json:"location"`
	Bio               string                      `gorm:"type:text" json:"bio"`
	Skills            datatypes.JSONSlice[string] `json:"skills"`
	Experience        datatypes.JSONSlice[string] `json:"experience"`
	Education         datatypes.JSONSlice[string] `json:"education"`
	Languages         datatypes.JSONSlice[string] `json:"languages"`
	PreferredJobTypes datatypes.JSONSlice[string] `json:"preferred_job_types"`
	TargetKeywords    datatypes.JSONSlice[string] `json:"target_keywords"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// Job is a canonical posting record. DedupKey is the stable identity used to
// recognise the same posting across repeated searches; the unique index makes
// concurrent discovery inserts safe (insert-or-skip).
type Job struct {
	ID              string                      `gorm:"primaryKey;size:36" json:"id"`
	Title           string                      `gorm:"size:512;not null" json:"title"`
	Company         string                      `gorm:"size:255;not null" json:"company"`
	Description     string                      `gorm:"type:text" json:"description"`
	Location        string                      `gorm:"size:255" json:"location"`
	JobType         string                      `gorm:"size:64" json:"job_type"`
	Source          JobSource                   `gorm:"size:32;index" json:"source"`
	URL             string                      `gorm:"size:1024" json:"url"`
	Salary          string                      `gorm:"size:255" json:"salary"`
	ContactEmail    string                      `gorm:"size:255" json:"contact_email"`
	Requirements    datatypes.JSONSlice[string] `json:"requirements"`
	Benefits        datatypes.JSONSlice[string] `json:"benefits"`
	KeywordsMatched datatypes.JSONSlice[string] `json:"keywords_matched"`
	RelevanceScore  float64                     `json:"relevance_score"`
	DedupKey        string                      `gorm:"uniqueIndex;size:512" json:"-"`
	SearchID        string                      `gorm:"size:36;index" json:"search_id,omitempty"`
	DiscoveredAt    time.Time                   `gorm:"index" json:"discovered_at"`
	Applied         bool                        `gorm:"index" json:"applied"`
	AppliedAt       *time.Time                  `json:"applied_at,omitempty"`
}

// CoverLetter snapshots job title/company at generation time so later Job
// edits cannot corrupt the letter's context. Regeneration appends a new row.
type CoverLetter struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	JobID          string    `gorm:"size:36;index;not null" json:"job_id"`
	JobTitle       string    `gorm:"size:512" json:"job_title"`
	Company        string    `gorm:"size:255" json:"company"`
	Content        string    `gorm:"type:text" json:"content"`
	GeneratedAt    time.Time `json:"generated_at"`
	Customizations string    `gorm:"type:text" json:"customizations"`
}

// Application tracks one submission against a Job. Version is bumped on every
// status update so concurrent writers don't silently overwrite each other
// unnoticed; the contract itself is last-writer-wins.
type Application struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	JobID             string     `gorm:"size:36;index;not null" json:"job_id"`
	CoverLetterID     string     `gorm:"size:36" json:"cover_letter_id,omitempty"`
	Status            string     `gorm:"size:32;index" json:"status"`
	ApplicationMethod string     `gorm:"size:64" json:"application_method"`
	Notes             string     `gorm:"type:text" json:"notes"`
	AppliedAt         time.Time  `gorm:"index" json:"applied_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	FollowUpDate      *time.Time `json:"follow_up_date,omitempty"`
	InterviewDate     *time.Time `json:"interview_date,omitempty"`
	Version           int        `json:"-"`
}

// EmailLog records one delivery attempt of an application email.
type EmailLog struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ApplicationID  string     `gorm:"size:36;index" json:"application_id"`
	RecipientEmail string     `gorm:"size:255" json:"recipient_email"`
	Subject        string     `gorm:"size:512" json:"subject"`
	Content        string     `gorm:"type:text" json:"content"`
	Status         string     `gorm:"size:16;index" json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `gorm:"size:1024" json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SearchRequest is the immutable audit record of one discovery run.
// SourceStatuses is filled in by the worker when the fan-out completes and
// carries the per-source outcome (inserted/duplicate counts, error if any).
type SearchRequest struct {
	ID                    string                      `gorm:"primaryKey;size:36" json:"search_id"`
	Keywords              datatypes.JSONSlice[string] `json:"keywords"`
	Location              string                      `gorm:"size:255" json:"location"`
	JobType               string                      `gorm:"size:64" json:"job_type"`
	Platforms             datatypes.JSONSlice[string] `json:"platforms"`
	MaxResultsPerPlatform int                         `json:"max_results_per_platform"`
	CreatedAt             time.Time                   `json:"created_at"`
	CompletedAt           *time.Time                  `json:"completed_at,omitempty"`
	SourceStatuses        datatypes.JSON              `json:"source_statuses,omitempty"`
}
