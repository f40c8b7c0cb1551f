package models

import (
	"time"
)

// Account is a connected provider account usable for extraction.
type Account struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AccountID  string     `gorm:"uniqueIndex;not null" json:"account_id"`
	Provider   string     `gorm:"default:'LINKEDIN'" json:"provider"`
	Username   string     `json:"username"`
	Status     string     `json:"status"` // VALID, INVALID, ...
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
