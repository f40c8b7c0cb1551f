// Package provider talks to the upstream LinkedIn data API (Unipile-style).
// The rest of the app only sees the Provider interface and the raw interaction
// shapes; everything upstream-specific stays in here.
package provider

import (
	"context"
	"fmt"
	"time"
)

// ErrorKind classifies provider failures so callers can react differently to
// an expired credential vs a throttle vs a missing post.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindRateLimit ErrorKind = "rate_limit"
	KindNotFound  ErrorKind = "not_found"
	KindNetwork   ErrorKind = "network"
)

// Error is the provider failure surfaced to callers.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("provider %s (%s)", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Outage reports whether the failure affects the whole account session rather
// than a single request, meaning further calls this run are pointless.
func (e *Error) Outage() bool {
	return e.Kind == KindAuth || e.Kind == KindRateLimit
}

// Account is one connected upstream account.
type Account struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// RawInteraction is a single like or comment event as the upstream reports
// it. ProfileURL is the stable identity key and may be empty when the
// upstream could not resolve the actor.
type RawInteraction struct {
	ProfileURL string
	Name       string
	Headline   string
	PictureURL string

	// Comment-only fields, zero for reactions.
	CommentID    string
	Content      string
	LikesCount   int
	RepliesCount int
	PostedAt     *time.Time
}

// Profile is the deeper profile record used for enrichment.
type Profile struct {
	Name     string
	Headline string
	Company  string
	JobTitle string
	Location string
	Industry string
	Email    string
	Phone    string
	Raw      map[string]any // full upstream payload, persisted as-is
}

// Provider is the narrow surface the pipeline consumes.
type Provider interface {
	GetAccounts(ctx context.Context) ([]Account, error)
	GetPostReactions(ctx context.Context, accountID, activityID string) ([]RawInteraction, error)
	GetPostComments(ctx context.Context, accountID, activityID string) ([]RawInteraction, error)
	GetProfile(ctx context.Context, accountID, profileURL string) (*Profile, error)
}
