package services

import (
	"testing"

	"leadlink/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePostURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tracking params stripped",
			in:   "https://www.linkedin.com/posts/jane_activity-123-abcd?utm_source=share&trackingId=xyz",
			want: "https://www.linkedin.com/posts/jane_activity-123-abcd",
		},
		{
			name: "host canonicalized",
			in:   "http://linkedin.com/posts/jane_activity-123-abcd/",
			want: "https://www.linkedin.com/posts/jane_activity-123-abcd",
		},
		{
			name: "subdomain and fragment",
			in:   "https://de.linkedin.com/feed/update/urn:li:activity:456#comments",
			want: "https://www.linkedin.com/feed/update/urn:li:activity:456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePostURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePostURLRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"ftp://linkedin.com/posts/x",
		"https://example.com/posts/x",
		"https://notlinkedin.com.evil.io/posts/x",
	} {
		_, err := NormalizePostURL(in)
		require.Error(t, err, "input %q", in)
		var verr *apperr.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "post_url", verr.Field)
	}
}

func TestNormalizePostURLIdempotent(t *testing.T) {
	first, err := NormalizePostURL("https://linkedin.com/posts/jane_activity-123-abcd?utm_source=share")
	require.NoError(t, err)
	second, err := NormalizePostURL(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
