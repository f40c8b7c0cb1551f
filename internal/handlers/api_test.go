package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"leadlink/internal/db"
	"leadlink/internal/models"
	"leadlink/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const mockPostURL = "https://www.linkedin.com/posts/jane_activity-7012345-abcd"

// setupAPI wires the full router against a throwaway sqlite database and the
// mock provider.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("USE_MOCK_UNIPILE", "true")

	path := filepath.Join(t.TempDir(), "leadlink_api_test.db")
	g, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(g))

	prev := db.DB
	db.DB = g
	t.Cleanup(func() { db.DB = prev })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	router.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func extractMockPost(t *testing.T, r *gin.Engine) uint {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/api/posts/extract", gin.H{"post_url": mockPostURL})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp["data"].(map[string]any)
	return uint(data["post_id"].(float64))
}

func TestRootHealth(t *testing.T) {
	r := setupAPI(t)
	w, resp := doJSON(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", resp["status"])
}

func TestAccountsEndpoint(t *testing.T) {
	r := setupAPI(t)
	w, resp := doJSON(t, r, http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	accounts := resp["accounts"].([]any)
	require.Len(t, accounts, 1)
	acc := accounts[0].(map[string]any)
	assert.Equal(t, "mock_account_123", acc["id"])
	assert.Equal(t, "LINKEDIN", acc["provider"])
}

func TestExtractEndpoint(t *testing.T) {
	r := setupAPI(t)
	w, resp := doJSON(t, r, http.MethodPost, "/api/posts/extract", gin.H{"post_url": mockPostURL})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Leads extracted successfully", resp["message"])
	data := resp["data"].(map[string]any)
	stats := data["stats"].(map[string]any)
	// Mock data: 2 likers + 1 commenter, all distinct profiles.
	assert.EqualValues(t, 2, stats["total_likes"])
	assert.EqualValues(t, 1, stats["total_comments"])
	assert.EqualValues(t, 3, stats["unique_leads"])
}

func TestExtractValidation(t *testing.T) {
	r := setupAPI(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/posts/extract", gin.H{"post_url": "https://example.com/post/1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["detail"], "post_url")

	w, resp = doJSON(t, r, http.MethodPost, "/api/posts/extract", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, resp["detail"])
}

func TestPostLifecycleEndpoints(t *testing.T) {
	r := setupAPI(t)
	postID := extractMockPost(t, r)

	// List
	w, _ := doJSON(t, r, http.MethodGet, "/api/posts?skip=0&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, models.PostStatusCompleted, posts[0].Status)

	// Get
	w, resp := doJSON(t, r, http.MethodGet, "/api/posts/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mockPostURL, resp["post_url"])

	// Unknown and malformed ids
	w, resp = doJSON(t, r, http.MethodGet, "/api/posts/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "post not found", resp["detail"])
	w, _ = doJSON(t, r, http.MethodGet, "/api/posts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Delete twice: both succeed
	w, _ = doJSON(t, r, http.MethodDelete, "/api/posts/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/api/posts/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.DB.Model(&models.Lead{}).Where("post_id = ?", postID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestLeadsEndpoint(t *testing.T) {
	r := setupAPI(t)
	postID := extractMockPost(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/posts/1/leads?skip=0&limit=50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var leads []models.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leads))
	require.Len(t, leads, 3)
	for _, lead := range leads {
		assert.Equal(t, postID, lead.PostID)
		assert.False(t, lead.Enriched)
	}

	// Filtered
	w, _ = doJSON(t, r, http.MethodGet, "/api/posts/1/leads?interaction_type=comment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "Alice Johnson", leads[0].FullName)

	// Bad filter value
	w, resp := doJSON(t, r, http.MethodGet, "/api/posts/1/leads?interaction_type=share", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["detail"], "interaction_type")

	// Unknown post
	w, _ = doJSON(t, r, http.MethodGet, "/api/posts/999/leads", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrichEndpointReturnsImmediately(t *testing.T) {
	r := setupAPI(t)
	extractMockPost(t, r)

	w, resp := doJSON(t, r, http.MethodPost, "/api/posts/1/enrich", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Enrichment started in background", resp["message"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/posts/999/enrich", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoints(t *testing.T) {
	r := setupAPI(t)
	extractMockPost(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/posts/1/export/csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "leads_post_1.csv")
	firstLine := strings.SplitN(w.Body.String(), "\n", 2)[0]
	assert.Contains(t, firstLine, "Full Name,LinkedIn URL,Headline")

	w, _ = doJSON(t, r, http.MethodGet, "/api/posts/1/export/excel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w, _ = doJSON(t, r, http.MethodGet, "/api/posts/999/export/csv", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r := setupAPI(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, resp["total_posts"])

	extractMockPost(t, r)

	w, resp = doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["total_posts"])
	assert.EqualValues(t, 3, resp["total_leads"])
	assert.EqualValues(t, 2, resp["total_likes"])
	assert.EqualValues(t, 1, resp["total_comments"])
}
