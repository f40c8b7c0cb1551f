package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"leadlink/internal/db"
	"leadlink/internal/models"
	"leadlink/internal/provider"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// enrichmentJob is one queued enrichment run for a post.
type enrichmentJob struct {
	postID    uint
	accountID string
}

// EnrichmentService enriches a post's leads in the background, one post at a
// time. Enqueue returns immediately; the dashboard polls lead state to watch
// progress. A post already queued or running is not queued twice.
type EnrichmentService struct {
	provider    provider.Provider
	queue       chan enrichmentJob
	pending     map[uint]bool
	mu          sync.Mutex
	maxAttempts int
	retryBase   time.Duration
}

var (
	enrichmentService *EnrichmentService
	enrichmentOnce    sync.Once
)

// GetEnrichment returns the singleton worker, starting its goroutine on
// first use.
func GetEnrichment() *EnrichmentService {
	enrichmentOnce.Do(func() {
		enrichmentService = NewEnrichment(provider.FromEnv())
		go enrichmentService.worker()
	})
	return enrichmentService
}

func NewEnrichment(p provider.Provider) *EnrichmentService {
	return &EnrichmentService{
		provider:    p,
		queue:       make(chan enrichmentJob, 100), // buffered so Enqueue never blocks a request
		pending:     make(map[uint]bool),
		maxAttempts: 3,
		retryBase:   500 * time.Millisecond,
	}
}

// Enqueue schedules an enrichment run for the post. Coalesces: if a run for
// this post is already queued or active, this is a no-op.
func (s *EnrichmentService) Enqueue(postID uint, accountID string) {
	s.mu.Lock()
	if s.pending[postID] {
		s.mu.Unlock()
		return
	}
	s.pending[postID] = true
	s.mu.Unlock()

	select {
	case s.queue <- enrichmentJob{postID: postID, accountID: accountID}:
	default:
		// Queue full; drop the pending mark so a later request can retry.
		s.mu.Lock()
		delete(s.pending, postID)
		s.mu.Unlock()
		log.Printf("enrichment queue full, dropping post %d", postID)
	}
}

func (s *EnrichmentService) worker() {
	for job := range s.queue {
		s.process(job)

		s.mu.Lock()
		delete(s.pending, job.postID)
		s.mu.Unlock()
	}
}

// process runs one enrichment pass over the post's unenriched leads. A
// per-lead failure is retried with backoff and then skipped; the lead stays
// unenriched and is picked up by the next explicit enrichment request. An
// account-level outage (auth, rate limit) aborts the rest of the run without
// undoing leads already enriched.
func (s *EnrichmentService) process(job enrichmentJob) {
	runID := uuid.NewString()[:8]
	ctx := context.Background()

	var leads []models.Lead
	if err := db.DB.Where("post_id = ? AND enriched = ?", job.postID, false).
		Order("id ASC").Find(&leads).Error; err != nil {
		log.Printf("enrichment %s: loading leads for post %d: %v", runID, job.postID, err)
		return
	}
	if len(leads) == 0 {
		log.Printf("enrichment %s: post %d has nothing to enrich", runID, job.postID)
		return
	}

	log.Printf("enrichment %s: post %d, %d leads", runID, job.postID, len(leads))
	enriched, failed := 0, 0

	for i := range leads {
		// The post may have been deleted mid-run; never write against a
		// post that is gone.
		if !s.postExists(job.postID) {
			log.Printf("enrichment %s: post %d deleted, abandoning run", runID, job.postID)
			return
		}

		profile, err := s.fetchWithRetry(ctx, job.accountID, leads[i].ProfileURL)
		if err != nil {
			var perr *provider.Error
			if errors.As(err, &perr) && perr.Outage() {
				log.Printf("enrichment %s: provider outage (%s), aborting run with %d/%d done",
					runID, perr.Kind, enriched, len(leads))
				return
			}
			failed++
			log.Printf("enrichment %s: lead %d failed after retries: %v", runID, leads[i].ID, err)
			continue
		}

		if err := s.applyProfile(&leads[i], profile); err != nil {
			failed++
			log.Printf("enrichment %s: saving lead %d: %v", runID, leads[i].ID, err)
			continue
		}
		enriched++
	}

	log.Printf("enrichment %s: post %d done, %d enriched, %d failed", runID, job.postID, enriched, failed)
}

func (s *EnrichmentService) postExists(postID uint) bool {
	var count int64
	if err := db.DB.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// fetchWithRetry calls the provider up to maxAttempts times with exponential
// backoff. Outage errors return immediately: retrying a dead credential
// burns quota for nothing.
func (s *EnrichmentService) fetchWithRetry(ctx context.Context, accountID, profileURL string) (*provider.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(s.retryBase << (attempt - 1))
		}
		profile, err := s.provider.GetProfile(ctx, accountID, profileURL)
		if err == nil {
			return profile, nil
		}
		var perr *provider.Error
		if errors.As(err, &perr) && perr.Outage() {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// applyProfile writes the enrichment payload onto the lead and flips the
// enriched flag.
func (s *EnrichmentService) applyProfile(lead *models.Lead, profile *provider.Profile) error {
	raw := ""
	if profile.Raw != nil {
		if data, err := json.Marshal(profile.Raw); err == nil {
			raw = string(data)
		}
	}
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Lead{}).Where("id = ?", lead.ID).Updates(map[string]any{
			"company":         profile.Company,
			"job_title":       profile.JobTitle,
			"location":        profile.Location,
			"industry":        profile.Industry,
			"email":           profile.Email,
			"phone":           profile.Phone,
			"enrichment_data": raw,
			"enriched":        true,
		}).Error
	})
}
