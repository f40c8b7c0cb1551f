package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.unipile.com/v1"

// UnipileClient is the real Provider implementation. All calls go through a
// shared rate limiter to stay under the upstream quota.
type UnipileClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewUnipileClient reads UNIPILE_API_KEY and UNIPILE_BASE_URL from the
// environment.
func NewUnipileClient() *UnipileClient {
	baseURL := os.Getenv("UNIPILE_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &UnipileClient{
		apiKey:  os.Getenv("UNIPILE_API_KEY"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		// ~1 request per second keeps us clear of the upstream quota
		limiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
	}
}

// FromEnv picks the mock provider when USE_MOCK_UNIPILE=true, otherwise the
// real client.
func FromEnv() Provider {
	if strings.EqualFold(os.Getenv("USE_MOCK_UNIPILE"), "true") {
		return NewMock()
	}
	return NewUnipileClient()
}

// get performs one rate-limited GET and decodes the body into out.
func (u *UnipileClient) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if err := u.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	reqURL := u.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req.Header.Set("X-API-KEY", u.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: kindFromStatus(resp.StatusCode), Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func kindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindNetwork
	}
}

// listEnvelope handles both upstream list shapes: {"items": [...]} and a bare
// array.
type listEnvelope struct {
	Items []json.RawMessage `json:"items"`
}

func (l *listEnvelope) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &l.Items)
	}
	type alias listEnvelope
	return json.Unmarshal(data, (*alias)(l))
}

// rawAuthor is the actor object embedded in reactions and comments.
type rawAuthor struct {
	Name           string `json:"name"`
	ProfileURL     string `json:"profile_url"`
	URL            string `json:"url"`
	Headline       string `json:"headline"`
	ProfilePicture string `json:"profile_picture"`
	Picture        string `json:"picture"`
}

func (a rawAuthor) profileURL() string {
	if a.ProfileURL != "" {
		return a.ProfileURL
	}
	return a.URL
}

func (a rawAuthor) picture() string {
	if a.ProfilePicture != "" {
		return a.ProfilePicture
	}
	return a.Picture
}

func (u *UnipileClient) GetAccounts(ctx context.Context) ([]Account, error) {
	var env listEnvelope
	if err := u.get(ctx, "accounts", "/accounts", nil, &env); err != nil {
		return nil, err
	}
	accounts := make([]Account, 0, len(env.Items))
	for _, item := range env.Items {
		var acc Account
		if err := json.Unmarshal(item, &acc); err != nil {
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (u *UnipileClient) GetPostReactions(ctx context.Context, accountID, activityID string) ([]RawInteraction, error) {
	params := url.Values{}
	params.Set("account_id", accountID)
	params.Set("limit", "100")

	var env listEnvelope
	if err := u.get(ctx, "reactions", "/posts/"+url.PathEscape(activityID)+"/reactions", params, &env); err != nil {
		return nil, err
	}

	reactions := make([]RawInteraction, 0, len(env.Items))
	for _, item := range env.Items {
		var r struct {
			Author rawAuthor `json:"author"`
		}
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		reactions = append(reactions, RawInteraction{
			ProfileURL: r.Author.profileURL(),
			Name:       r.Author.Name,
			Headline:   r.Author.Headline,
			PictureURL: r.Author.picture(),
		})
	}
	return reactions, nil
}

func (u *UnipileClient) GetPostComments(ctx context.Context, accountID, activityID string) ([]RawInteraction, error) {
	params := url.Values{}
	params.Set("account_id", accountID)
	params.Set("limit", "100")

	var env listEnvelope
	if err := u.get(ctx, "comments", "/posts/"+url.PathEscape(activityID)+"/comments", params, &env); err != nil {
		return nil, err
	}

	comments := make([]RawInteraction, 0, len(env.Items))
	for _, item := range env.Items {
		var c struct {
			ID           string    `json:"id"`
			Content      string    `json:"content"`
			Author       rawAuthor `json:"author"`
			LikesCount   int       `json:"likes_count"`
			RepliesCount int       `json:"replies_count"`
			CreatedAt    string    `json:"created_at"`
		}
		if err := json.Unmarshal(item, &c); err != nil {
			continue
		}
		comments = append(comments, RawInteraction{
			ProfileURL:   c.Author.profileURL(),
			Name:         c.Author.Name,
			Headline:     c.Author.Headline,
			PictureURL:   c.Author.picture(),
			CommentID:    c.ID,
			Content:      c.Content,
			LikesCount:   c.LikesCount,
			RepliesCount: c.RepliesCount,
			PostedAt:     parseTime(c.CreatedAt),
		})
	}
	return comments, nil
}

func (u *UnipileClient) GetProfile(ctx context.Context, accountID, profileURL string) (*Profile, error) {
	username := ExtractUsername(profileURL)
	params := url.Values{}
	params.Set("account_id", accountID)

	var raw map[string]any
	if err := u.get(ctx, "profile", "/users/"+url.PathEscape(username), params, &raw); err != nil {
		return nil, err
	}
	return profileFromRaw(raw), nil
}

func profileFromRaw(raw map[string]any) *Profile {
	str := func(key string) string {
		if v, ok := raw[key].(string); ok {
			return v
		}
		return ""
	}
	p := &Profile{
		Name:     str("name"),
		Headline: str("headline"),
		Company:  str("company"),
		JobTitle: str("job_title"),
		Location: str("location"),
		Industry: str("industry"),
		Email:    str("email"),
		Phone:    str("phone"),
		Raw:      raw,
	}
	if p.JobTitle == "" {
		p.JobTitle = p.Headline
	}
	return p
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ExtractActivityID pulls the numeric activity id out of the two LinkedIn
// post URL shapes:
//
//	https://www.linkedin.com/posts/username_slug-activity-1234567890-abcd
//	https://www.linkedin.com/feed/update/urn:li:activity:1234567890
//
// Falls back to the full URL when neither matches.
func ExtractActivityID(postURL string) string {
	if idx := strings.Index(postURL, "activity-"); idx >= 0 {
		rest := postURL[idx+len("activity-"):]
		if end := strings.IndexAny(rest, "-/?"); end > 0 {
			return rest[:end]
		}
		if rest != "" {
			return rest
		}
	}
	if idx := strings.Index(postURL, "urn:li:activity:"); idx >= 0 {
		rest := postURL[idx+len("urn:li:activity:"):]
		if end := strings.IndexAny(rest, "/?"); end > 0 {
			return rest[:end]
		}
		if rest != "" {
			return rest
		}
	}
	return postURL
}

// ExtractUsername pulls the vanity name out of /in/<username>/ profile URLs.
func ExtractUsername(profileURL string) string {
	if idx := strings.Index(profileURL, "/in/"); idx >= 0 {
		rest := strings.TrimSuffix(profileURL[idx+len("/in/"):], "/")
		if end := strings.Index(rest, "/"); end > 0 {
			return rest[:end]
		}
		if rest != "" {
			return rest
		}
	}
	return profileURL
}
