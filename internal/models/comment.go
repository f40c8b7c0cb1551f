package models

import (
	"time"
)

// Comment is one comment event on a post. A comment without a resolvable
// profile key still gets stored, it just has no lead attached.
type Comment struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	PostID uint  `gorm:"not null;index" json:"post_id"`
	Post   Post  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	LeadID *uint `gorm:"index" json:"lead_id"`
	Lead   *Lead `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Provider id; may be empty, deduped per extraction pass rather than by
	// a unique constraint.
	CommentID    string     `gorm:"index" json:"comment_id"`
	Content      string     `gorm:"type:text" json:"content"`
	LikesCount   int        `gorm:"default:0" json:"likes_count"`
	RepliesCount int        `gorm:"default:0" json:"replies_count"`
	PostedAt     *time.Time `json:"posted_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
