// Package discovery fans a search request out across external job platforms,
// deduplicates the results, scores them against the candidate profile, and
// persists new postings.
package discovery

import (
	"context"
	"fmt"
	"strings"

	"jobagent/internal/apperr"
	"jobagent/internal/database"
)

// Query is the uniform search input every source understands.
type Query struct {
	Keywords []string
	Location string
	JobType  string
	Limit    int
}

// Posting is a raw offer returned by a source, before dedup and scoring.
type Posting struct {
	ExternalID   string
	Title        string
	Company      string
	Description  string
	Location     string
	JobType      string
	URL          string
	Salary       string
	ContactEmail string
}

// SearchSource is the adapter contract implemented once per platform. A
// source fails independently: its error never affects sibling sources.
type SearchSource interface {
	Name() database.JobSource
	Search(ctx context.Context, q Query) ([]Posting, error)
}

// Registry is the lookup table of registered sources, in registration order.
type Registry struct {
	byName map[database.JobSource]SearchSource
	order  []database.JobSource
}

// NewRegistry builds a Registry from the given sources.
func NewRegistry(sources ...SearchSource) *Registry {
	r := &Registry{byName: make(map[database.JobSource]SearchSource, len(sources))}
	for _, s := range sources {
		name := s.Name()
		if _, dup := r.byName[name]; dup {
			continue
		}
		r.byName[name] = s
		r.order = append(r.order, name)
	}
	return r
}

// Names returns all registered platform names in registration order.
func (r *Registry) Names() []database.JobSource {
	out := make([]database.JobSource, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve maps requested platform names to sources. An empty request selects
// every registered source; an unregistered name is a caller error.
func (r *Registry) Resolve(requested []string) ([]SearchSource, error) {
	if len(requested) == 0 {
		out := make([]SearchSource, 0, len(r.order))
		for _, name := range r.order {
			out = append(out, r.byName[name])
		}
		return out, nil
	}

	out := make([]SearchSource, 0, len(requested))
	seen := make(map[database.JobSource]struct{}, len(requested))
	for _, raw := range requested {
		name := database.JobSource(raw)
		source, ok := r.byName[name]
		if !ok {
			return nil, apperr.Validation("unknown platform %q", raw)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, source)
	}
	return out, nil
}

// DedupKey computes the stable identity of a posting. Sources with a native
// external id use it directly; otherwise the key is derived from normalized
// title, company and location.
func DedupKey(source database.JobSource, p Posting) string {
	if p.ExternalID != "" {
		return fmt.Sprintf("%s:%s", source, p.ExternalID)
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		source, normalize(p.Title), normalize(p.Company), normalize(p.Location))
}

// normalize lowercases and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
