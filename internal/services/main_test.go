package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"leadlink/internal/db"
	"leadlink/internal/provider"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB points db.DB at a throwaway sqlite file for the duration of
// the test.
func setupTestDB(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "leadlink_test.db")
	g, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(g))

	prev := db.DB
	db.DB = g
	t.Cleanup(func() { db.DB = prev })
}

// fakeProvider is a scriptable Provider for tests.
type fakeProvider struct {
	mu sync.Mutex

	accounts     []provider.Account
	likers       []provider.RawInteraction
	commenters   []provider.RawInteraction
	reactionsErr error
	commentsErr  error

	// profileFn decides per-URL what enrichment returns.
	profileFn    func(profileURL string) (*provider.Profile, error)
	profileCalls []string
}

func (f *fakeProvider) GetAccounts(ctx context.Context) ([]provider.Account, error) {
	if f.accounts == nil {
		return []provider.Account{{ID: "acct_1", Provider: "LINKEDIN", Username: "tester", Status: "VALID"}}, nil
	}
	return f.accounts, nil
}

func (f *fakeProvider) GetPostReactions(ctx context.Context, accountID, activityID string) ([]provider.RawInteraction, error) {
	if f.reactionsErr != nil {
		return nil, f.reactionsErr
	}
	return f.likers, nil
}

func (f *fakeProvider) GetPostComments(ctx context.Context, accountID, activityID string) ([]provider.RawInteraction, error) {
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.commenters, nil
}

func (f *fakeProvider) GetProfile(ctx context.Context, accountID, profileURL string) (*provider.Profile, error) {
	f.mu.Lock()
	f.profileCalls = append(f.profileCalls, profileURL)
	f.mu.Unlock()

	if f.profileFn != nil {
		return f.profileFn(profileURL)
	}
	return &provider.Profile{
		Company:  "TestCorp",
		JobTitle: "Tester",
		Location: "Testville",
		Raw:      map[string]any{"company": "TestCorp"},
	}, nil
}
