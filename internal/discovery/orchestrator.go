package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobagent/internal/apperr"
	"jobagent/internal/database"
)

// NotifyChannel is the Redis pub/sub channel completion summaries go to.
const NotifyChannel = "discovery_notify"

// SourceStatus is the per-source outcome of one search run, stored on the
// SearchRequest row and published on the notify channel.
type SourceStatus struct {
	Source     string `json:"source"`
	Fetched    int    `json:"fetched"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Error      string `json:"error,omitempty"`
}

// notifyMessage is the completion summary published to Redis.
type notifyMessage struct {
	SearchID string         `json:"search_id"`
	Sources  []SourceStatus `json:"sources"`
}

// Orchestrator runs one search: concurrent fan-out to the selected sources,
// fan-in through a single persister that deduplicates, scores and inserts.
type Orchestrator struct {
	db             *gorm.DB
	registry       *Registry
	redisClient    *redis.Client // nil disables the completion notify
	logger         *slog.Logger
	adapterTimeout time.Duration
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(
	db *gorm.DB,
	registry *Registry,
	redisClient *redis.Client,
	logger *slog.Logger,
	adapterTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		db:             db,
		registry:       registry,
		redisClient:    redisClient,
		logger:         logger,
		adapterTimeout: adapterTimeout,
	}
}

type fetchResult struct {
	source   database.JobSource
	postings []Posting
	err      error
}

// Run executes the search described by the persisted SearchRequest. Each
// source runs in its own goroutine under an independent timeout; a source
// failure is recorded in its status and never aborts the siblings. Inserts
// are serialized through the persister loop and guarded by the dedup_key
// unique index, so a concurrent rescan cannot double-insert an identity.
func (o *Orchestrator) Run(ctx context.Context, search database.SearchRequest) ([]SourceStatus, error) {
	sources, err := o.registry.Resolve(search.Platforms)
	if err != nil {
		return nil, err
	}

	keywords := o.profileKeywords(ctx)

	log := o.logger.With(slog.String("search_id", search.ID))
	log.Info("search started",
		slog.Int("sources", len(sources)),
		slog.Any("keywords", []string(search.Keywords)),
	)

	results := make(chan fetchResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(sources))
	for _, source := range sources {
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, o.adapterTimeout)
			defer cancel()

			postings, err := source.Search(actx, Query{
				Keywords: search.Keywords,
				Location: search.Location,
				JobType:  search.JobType,
				Limit:    search.MaxResultsPerPlatform,
			})
			if err != nil {
				// Isolated per-source failure: record, don't propagate,
				// so the group never cancels the remaining sources.
				results <- fetchResult{source: source.Name(), err: apperr.Adapter(string(source.Name()), err)}
				return nil
			}
			results <- fetchResult{source: source.Name(), postings: postings}
			return nil
		})
	}
	go func() {
		g.Wait() //nolint:errcheck // workers never return errors
		close(results)
	}()

	statusBySource := make(map[database.JobSource]SourceStatus, len(sources))
	for res := range results {
		status := SourceStatus{Source: string(res.source)}
		if res.err != nil {
			status.Error = res.err.Error()
			log.Warn("source failed", slog.String("source", string(res.source)), slog.Any("error", res.err))
			statusBySource[res.source] = status
			continue
		}

		postings := res.postings
		if search.MaxResultsPerPlatform > 0 && len(postings) > search.MaxResultsPerPlatform {
			postings = postings[:search.MaxResultsPerPlatform]
		}
		status.Fetched = len(postings)

		for _, posting := range postings {
			inserted, err := o.persist(ctx, res.source, search.ID, posting, keywords)
			if err != nil {
				log.Error("persist posting failed",
					slog.String("source", string(res.source)),
					slog.String("title", posting.Title),
					slog.Any("error", err),
				)
				continue
			}
			if inserted {
				status.Inserted++
			} else {
				status.Duplicates++
			}
		}
		statusBySource[res.source] = status
	}

	statuses := make([]SourceStatus, 0, len(sources))
	for _, source := range sources {
		statuses = append(statuses, statusBySource[source.Name()])
	}

	if err := o.complete(ctx, search.ID, statuses); err != nil {
		return statuses, err
	}

	log.Info("search completed", slog.Int("sources", len(statuses)))
	return statuses, nil
}

// persist inserts one posting unless its dedup key already exists. Returns
// whether a new row was created.
func (o *Orchestrator) persist(
	ctx context.Context,
	source database.JobSource,
	searchID string,
	posting Posting,
	profileKeywords []string,
) (bool, error) {
	score, matched := Score(posting.Title+" "+posting.Description, profileKeywords)

	job := database.Job{
		ID:              uuid.NewString(),
		Title:           posting.Title,
		Company:         posting.Company,
		Description:     posting.Description,
		Location:        posting.Location,
		JobType:         posting.JobType,
		Source:          source,
		URL:             posting.URL,
		Salary:          posting.Salary,
		ContactEmail:    posting.ContactEmail,
		KeywordsMatched: matched,
		RelevanceScore:  score,
		DedupKey:        DedupKey(source, posting),
		SearchID:        searchID,
		DiscoveredAt:    time.Now().UTC(),
	}

	res := o.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(&job)
	if res.Error != nil {
		return false, fmt.Errorf("insert job: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// profileKeywords loads the current target keywords. No profile configured
// means every posting scores zero, which is the documented behavior.
func (o *Orchestrator) profileKeywords(ctx context.Context) []string {
	var profile database.Profile
	if err := o.db.WithContext(ctx).First(&profile).Error; err != nil {
		return nil
	}
	return profile.TargetKeywords
}

// complete stamps the search record with its per-source outcome and publishes
// the summary for any listening client.
func (o *Orchestrator) complete(ctx context.Context, searchID string, statuses []SourceStatus) error {
	raw, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("marshal source statuses: %w", err)
	}

	now := time.Now().UTC()
	update := map[string]any{
		"completed_at":    now,
		"source_statuses": raw,
	}
	if err := o.db.WithContext(ctx).
		Model(&database.SearchRequest{}).
		Where("id = ?", searchID).
		Updates(update).Error; err != nil {
		return fmt.Errorf("stamp search request: %w", err)
	}

	if o.redisClient == nil {
		return nil
	}
	payload, err := json.Marshal(notifyMessage{SearchID: searchID, Sources: statuses})
	if err != nil {
		return fmt.Errorf("marshal notify payload: %w", err)
	}
	if err := o.redisClient.Publish(ctx, NotifyChannel, payload).Err(); err != nil {
		// Best effort: the search itself succeeded.
		o.logger.Warn("publish discovery notify failed",
			slog.String("search_id", searchID), slog.Any("error", err))
	}
	return nil
}
