package models

import (
	"time"
)

// Interaction types for a lead on a single post.
const (
	InteractionLike    = "like"
	InteractionComment = "comment"
	InteractionBoth    = "both"
)

// Lead is one deduplicated person derived from the interactions on a post.
// The stable profile URL is the identity key; exactly one Lead exists per
// (post, profile URL) pair.
type Lead struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"not null;index;uniqueIndex:idx_post_profile" json:"post_id"`
	Post   Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ProfileURL        string `gorm:"not null;uniqueIndex:idx_post_profile" json:"linkedin_profile_url"`
	FullName          string `json:"full_name"`
	Headline          string `json:"headline"`
	ProfilePictureURL string `json:"profile_picture_url"`

	// Filled by enrichment, empty until Enriched is true.
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Location string `json:"location"`
	Industry string `json:"industry"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	InteractionType string `gorm:"size:10;index" json:"interaction_type"` // like, comment, both
	Liked           bool   `gorm:"default:false" json:"liked"`
	Commented       bool   `gorm:"default:false" json:"commented"`
	CommentCount    int    `gorm:"default:0" json:"comment_count"`

	Enriched       bool   `gorm:"default:false" json:"enriched"`
	EnrichmentData string `gorm:"type:text" json:"-"` // raw provider payload, JSON

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
