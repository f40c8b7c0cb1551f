package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"leadlink/internal/apperr"
	"leadlink/internal/db"
	"leadlink/internal/models"
	"leadlink/internal/provider"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// ExtractionSummary is what one extraction pass produced.
type ExtractionSummary struct {
	TotalLikes    int `json:"total_likes"`
	TotalComments int `json:"total_comments"`
	UniqueLeads   int `json:"unique_leads"`
	Unresolved    int `json:"unresolved"`
}

// ExtractorService owns the post aggregate: extraction, listing, deletion.
// Extraction for a given post URL is serialized in-process; a second call
// while one is running gets a conflict instead of racing it.
type ExtractorService struct {
	provider  provider.Provider
	sanitizer *bluemonday.Policy

	mu       sync.Mutex
	inFlight map[string]bool // keyed by normalized post URL
}

var extractorService *ExtractorService

// GetExtractor returns the singleton extractor.
func GetExtractor() *ExtractorService {
	if extractorService == nil {
		extractorService = NewExtractor(provider.FromEnv())
	}
	return extractorService
}

func NewExtractor(p provider.Provider) *ExtractorService {
	return &ExtractorService{
		provider:  p,
		sanitizer: bluemonday.UGCPolicy(), // comment bodies come from the wild
		inFlight:  make(map[string]bool),
	}
}

func (s *ExtractorService) tryLock(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return false
	}
	s.inFlight[key] = true
	return true
}

func (s *ExtractorService) unlock(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

// ResolveAccount returns accountID unchanged when set, otherwise the first
// connected provider account.
func (s *ExtractorService) ResolveAccount(ctx context.Context, accountID string) (string, error) {
	if accountID != "" {
		return accountID, nil
	}
	accounts, err := s.provider.GetAccounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", apperr.Validation("account_id", "no connected accounts available")
	}
	return accounts[0].ID, nil
}

// Extract runs one full extraction pass for a post URL: fetch both
// interaction streams, merge them, and swap in the merged lead set in a
// single transaction. Re-running on the same URL updates the same post and
// never loses enrichment already done for recurring profiles.
func (s *ExtractorService) Extract(ctx context.Context, rawURL, accountID string) (*models.Post, *ExtractionSummary, error) {
	postURL, err := NormalizePostURL(rawURL)
	if err != nil {
		return nil, nil, err
	}

	accountID, err = s.ResolveAccount(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	if !s.tryLock(postURL) {
		return nil, nil, apperr.Conflict("extraction already in progress for this post")
	}
	defer s.unlock(postURL)

	now := time.Now().UTC()
	var post models.Post
	err = db.DB.Where("post_url = ?", postURL).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		post = models.Post{
			PostURL:    postURL,
			ActivityID: provider.ExtractActivityID(postURL),
			Status:     models.PostStatusPending,
		}
		if err := db.DB.Create(&post).Error; err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	post.Status = models.PostStatusScraping
	post.LastScrapedAt = &now
	if err := db.DB.Model(&post).Updates(map[string]any{
		"status":          post.Status,
		"last_scraped_at": post.LastScrapedAt,
	}).Error; err != nil {
		return nil, nil, err
	}

	log.Printf("extracting interactions for post %d (%s)", post.ID, postURL)

	likers, err := s.provider.GetPostReactions(ctx, accountID, post.ActivityID)
	if err != nil {
		return nil, nil, s.markFailed(&post, err)
	}
	commenters, err := s.provider.GetPostComments(ctx, accountID, post.ActivityID)
	if err != nil {
		return nil, nil, s.markFailed(&post, err)
	}

	merged, unresolved := mergeInteractions(likers, commenters)

	summary := &ExtractionSummary{
		TotalLikes:    len(likers),
		TotalComments: len(commenters),
		UniqueLeads:   len(merged),
		Unresolved:    unresolved,
	}

	if err := s.reconcile(&post, merged, commenters, summary); err != nil {
		return nil, nil, s.markFailed(&post, err)
	}

	log.Printf("post %d extraction completed: %d likes, %d comments, %d leads, %d unresolved",
		post.ID, summary.TotalLikes, summary.TotalComments, summary.UniqueLeads, summary.Unresolved)
	return &post, summary, nil
}

// markFailed flips the post to failed without touching previously stored
// leads, and passes the original error through.
func (s *ExtractorService) markFailed(post *models.Post, cause error) error {
	if err := db.DB.Model(post).Update("status", models.PostStatusFailed).Error; err != nil {
		log.Printf("post %d: marking failed after %v also failed: %v", post.ID, cause, err)
	}
	post.Status = models.PostStatusFailed
	return cause
}

// reconcile replaces the post's lead set with the merged result in one
// transaction. Recurring profiles are updated in place so their enrichment
// survives; profiles absent from the fresh streams are removed; comment rows
// are rebuilt from the commenter stream.
func (s *ExtractorService) reconcile(post *models.Post, merged []*leadAccumulator, commenters []provider.RawInteraction, summary *ExtractionSummary) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.Lead
		if err := tx.Where("post_id = ?", post.ID).Find(&existing).Error; err != nil {
			return err
		}
		byProfile := make(map[string]*models.Lead, len(existing))
		for i := range existing {
			byProfile[existing[i].ProfileURL] = &existing[i]
		}

		keep := make(map[string]bool, len(merged))
		leadIDs := make(map[string]uint, len(merged))
		for _, acc := range merged {
			keep[acc.ProfileURL] = true
			if lead, ok := byProfile[acc.ProfileURL]; ok {
				// Display and interaction fields refresh; enrichment stays.
				updates := map[string]any{
					"full_name":           acc.FullName,
					"headline":            acc.Headline,
					"profile_picture_url": acc.PictureURL,
					"interaction_type":    acc.interactionType(),
					"liked":               acc.Liked,
					"commented":           acc.Commented,
					"comment_count":       acc.CommentCount,
				}
				if err := tx.Model(&models.Lead{}).Where("id = ?", lead.ID).Updates(updates).Error; err != nil {
					return err
				}
				leadIDs[acc.ProfileURL] = lead.ID
				continue
			}
			lead := models.Lead{
				PostID:            post.ID,
				ProfileURL:        acc.ProfileURL,
				FullName:          acc.FullName,
				Headline:          acc.Headline,
				ProfilePictureURL: acc.PictureURL,
				InteractionType:   acc.interactionType(),
				Liked:             acc.Liked,
				Commented:         acc.Commented,
				CommentCount:      acc.CommentCount,
			}
			if err := tx.Create(&lead).Error; err != nil {
				return err
			}
			leadIDs[acc.ProfileURL] = lead.ID
		}

		// Drop leads whose profile no longer appears in either stream.
		for url, lead := range byProfile {
			if !keep[url] {
				if err := tx.Delete(&models.Lead{}, lead.ID).Error; err != nil {
					return err
				}
			}
		}

		// Comment rows are a full rebuild per pass.
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		seen := make(map[string]bool)
		for _, raw := range commenters {
			if raw.CommentID != "" {
				if seen[raw.CommentID] {
					continue
				}
				seen[raw.CommentID] = true
			}
			comment := models.Comment{
				PostID:       post.ID,
				CommentID:    raw.CommentID,
				Content:      s.sanitizer.Sanitize(raw.Content),
				LikesCount:   raw.LikesCount,
				RepliesCount: raw.RepliesCount,
				PostedAt:     raw.PostedAt,
			}
			if id, ok := leadIDs[raw.ProfileURL]; ok {
				comment.LeadID = &id
			}
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
		}

		updates := map[string]any{
			"total_likes":             summary.TotalLikes,
			"total_comments":          summary.TotalComments,
			"unresolved_interactions": summary.Unresolved,
			"status":                  models.PostStatusCompleted,
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return err
		}
		post.TotalLikes = summary.TotalLikes
		post.TotalComments = summary.TotalComments
		post.UnresolvedInteractions = summary.Unresolved
		post.Status = models.PostStatusCompleted
		return nil
	})
}

// ListPosts returns post summaries, newest first.
func (s *ExtractorService) ListPosts(skip, limit int, status string) ([]models.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	query := db.DB.Model(&models.Post{})
	if status != "" {
		switch status {
		case models.PostStatusPending, models.PostStatusScraping, models.PostStatusCompleted, models.PostStatusFailed:
		default:
			return nil, apperr.Validation("status", "unknown status value")
		}
		query = query.Where("status = ?", status)
	}
	var posts []models.Post
	if err := query.Order("created_at DESC, id DESC").Offset(skip).Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches one post by id.
func (s *ExtractorService) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post")
		}
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and everything under it. Deleting an id that does
// not exist is a no-op: the dashboard retries deletes freely.
func (s *ExtractorService) DeletePost(id uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Lead{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// ListLeads returns a page of the post's leads in insertion order, optionally
// filtered by interaction type.
func (s *ExtractorService) ListLeads(postID uint, skip, limit int, interactionType string) ([]models.Lead, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	query := db.DB.Where("post_id = ?", postID)
	if interactionType != "" {
		switch interactionType {
		case models.InteractionLike, models.InteractionComment, models.InteractionBoth:
		default:
			return nil, apperr.Validation("interaction_type", "must be one of: like, comment, both")
		}
		query = query.Where("interaction_type = ?", interactionType)
	}

	var leads []models.Lead
	if err := query.Order("id ASC").Offset(skip).Limit(limit).Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}
