package models

import (
	"time"
)

// Post status values. Transitions only move forward, except failed -> scraping
// when a re-extraction is requested.
const (
	PostStatusPending   = "pending"
	PostStatusScraping  = "scraping"
	PostStatusCompleted = "completed"
	PostStatusFailed    = "failed"
)

type Post struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	PostURL          string     `gorm:"uniqueIndex;not null" json:"post_url"` // normalized
	ActivityID       string     `gorm:"index" json:"activity_id"`             // LinkedIn activity id parsed from the URL
	AuthorName       string     `json:"author_name"`
	AuthorProfileURL string     `json:"author_profile_url"`
	Content          string     `gorm:"type:text" json:"content"`
	PostedAt         *time.Time `json:"posted_at"`

	// Raw stream sizes from the provider, independent of dedup.
	TotalLikes    int `gorm:"default:0" json:"total_likes"`
	TotalComments int `gorm:"default:0" json:"total_comments"`
	// Interactions dropped because the provider gave no stable profile key.
	UnresolvedInteractions int `gorm:"default:0" json:"unresolved_interactions"`

	Status        string     `gorm:"size:20;default:'pending';not null" json:"status"`
	LastScrapedAt *time.Time `json:"last_scraped_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Leads    []Lead    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
