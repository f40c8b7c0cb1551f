package provider

import (
	"context"
	"time"
)

// Mock serves canned data so the whole pipeline can run without an upstream
// credential. Selected by USE_MOCK_UNIPILE=true.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetAccounts(ctx context.Context) ([]Account, error) {
	return []Account{
		{
			ID:       "mock_account_123",
			Provider: "LINKEDIN",
			Username: "test@example.com",
			Status:   "VALID",
		},
	}, nil
}

func (m *Mock) GetPostReactions(ctx context.Context, accountID, activityID string) ([]RawInteraction, error) {
	return []RawInteraction{
		{
			ProfileURL: "https://linkedin.com/in/johndoe",
			Name:       "John Doe",
			Headline:   "CEO at TechCorp",
			PictureURL: "https://example.com/photo1.jpg",
		},
		{
			ProfileURL: "https://linkedin.com/in/janesmith",
			Name:       "Jane Smith",
			Headline:   "CTO at StartupXYZ",
			PictureURL: "https://example.com/photo2.jpg",
		},
	}, nil
}

func (m *Mock) GetPostComments(ctx context.Context, accountID, activityID string) ([]RawInteraction, error) {
	now := time.Now().UTC()
	return []RawInteraction{
		{
			ProfileURL:   "https://linkedin.com/in/alicejohnson",
			Name:         "Alice Johnson",
			Headline:     "Marketing Director",
			PictureURL:   "https://example.com/photo3.jpg",
			CommentID:    "comment_1",
			Content:      "Great post! Very insightful.",
			LikesCount:   5,
			RepliesCount: 2,
			PostedAt:     &now,
		},
	}, nil
}

func (m *Mock) GetProfile(ctx context.Context, accountID, profileURL string) (*Profile, error) {
	return &Profile{
		Name:     "John Doe",
		Headline: "CEO at TechCorp",
		Company:  "TechCorp",
		JobTitle: "CEO at TechCorp",
		Location: "San Francisco, CA",
		Industry: "Technology",
		Raw: map[string]any{
			"name":        "John Doe",
			"headline":    "CEO at TechCorp",
			"company":     "TechCorp",
			"location":    "San Francisco, CA",
			"industry":    "Technology",
			"profile_url": profileURL,
		},
	}, nil
}
