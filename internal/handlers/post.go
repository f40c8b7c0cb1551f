package handlers

import (
	"net/http"

	"leadlink/internal/apperr"
	"leadlink/internal/services"
	"leadlink/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	extractor  *services.ExtractorService
	enrichment *services.EnrichmentService
}

func NewPostHandler(extractor *services.ExtractorService, enrichment *services.EnrichmentService) *PostHandler {
	return &PostHandler{
		extractor:  extractor,
		enrichment: enrichment,
	}
}

type extractRequest struct {
	PostURL   string `json:"post_url"`
	AccountID string `json:"account_id"`
	Enrich    bool   `json:"enrich"`
}

// Extract scrapes likers and commenters of a post into deduplicated leads.
// With enrich=true the enrichment run is queued right after; the response
// never waits for it.
func (h *PostHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortError(c, apperr.Validation("body", "invalid request body"))
		return
	}

	post, summary, err := h.extractor.Extract(c.Request.Context(), req.PostURL, req.AccountID)
	if err != nil {
		AbortError(c, err)
		return
	}

	if req.Enrich {
		accountID, err := h.extractor.ResolveAccount(c.Request.Context(), req.AccountID)
		if err == nil {
			h.enrichment.Enqueue(post.ID, accountID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Leads extracted successfully",
		"data": gin.H{
			"post_id":  post.ID,
			"post_url": post.PostURL,
			"stats":    summary,
		},
	})
}

// List returns analyzed posts, newest first.
func (h *PostHandler) List(c *gin.Context) {
	skip := utils.StringToInt(c.Query("skip"), 0)
	limit := utils.StringToInt(c.Query("limit"), 20)

	posts, err := h.extractor.ListPosts(skip, limit, c.Query("status"))
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		AbortError(c, apperr.Validation("id", "invalid post id"))
		return
	}

	post, err := h.extractor.GetPost(id)
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete removes a post and cascades to its leads. Idempotent: an unknown id
// still answers success.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		AbortError(c, apperr.Validation("id", "invalid post id"))
		return
	}

	if err := h.extractor.DeletePost(id); err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ListLeads returns a filtered, paginated page of the post's leads.
func (h *PostHandler) ListLeads(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		AbortError(c, apperr.Validation("id", "invalid post id"))
		return
	}
	skip := utils.StringToInt(c.Query("skip"), 0)
	limit := utils.StringToInt(c.Query("limit"), 100)

	leads, err := h.extractor.ListLeads(id, skip, limit, c.Query("interaction_type"))
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// Enrich queues a background enrichment run for the post's unenriched leads
// and returns immediately.
func (h *PostHandler) Enrich(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		AbortError(c, apperr.Validation("id", "invalid post id"))
		return
	}

	if _, err := h.extractor.GetPost(id); err != nil {
		AbortError(c, err)
		return
	}

	accountID, err := h.extractor.ResolveAccount(c.Request.Context(), c.Query("account_id"))
	if err != nil {
		AbortError(c, err)
		return
	}

	h.enrichment.Enqueue(id, accountID)
	c.JSON(http.StatusOK, gin.H{"message": "Enrichment started in background"})
}
