package services

import (
	"net/url"
	"strings"

	"leadlink/internal/apperr"
)

// NormalizePostURL canonicalizes a LinkedIn post URL so that re-submissions
// of the same post always hit the same row: https scheme, www.linkedin.com
// host, tracking query params and fragment stripped, no trailing slash.
func NormalizePostURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.Validation("post_url", "post_url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", apperr.Validation("post_url", "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperr.Validation("post_url", "URL must use http or https")
	}

	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return "", apperr.Validation("post_url", "not a LinkedIn URL")
	}

	u.Scheme = "https"
	u.Host = "www.linkedin.com"
	u.RawQuery = "" // utm_*, trackingId and friends carry no identity
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}
