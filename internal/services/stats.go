package services

import (
	"leadlink/internal/db"
	"leadlink/internal/models"
)

// Stats are the cross-post totals shown on the dashboard overview.
type Stats struct {
	TotalPosts    int64 `json:"total_posts"`
	TotalLeads    int64 `json:"total_leads"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
}

// ComputeStats aggregates over current storage on every call. No cache: the
// dashboard expects the numbers to match what listing endpoints return.
func ComputeStats() (*Stats, error) {
	var stats Stats
	if err := db.DB.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Model(&models.Lead{}).Count(&stats.TotalLeads).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Model(&models.Lead{}).Where("liked = ?", true).Count(&stats.TotalLikes).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Model(&models.Lead{}).Where("commented = ?", true).Count(&stats.TotalComments).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
