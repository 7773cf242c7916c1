package restapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jpeggirl/gacha-dashboard/internal/config"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
	"github.com/jpeggirl/gacha-dashboard/internal/store"
)

// ProfileHandler handles wallet tags, comments and the announcements feed.
type ProfileHandler struct {
	profiles port.ProfileStore
	cfg      *config.Config
	logger   *zap.Logger
}

// NewProfileHandler creates the profile handler set.
func NewProfileHandler(profiles port.ProfileStore, cfg *config.Config, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		cfg:      cfg,
		logger:   logger.Named("ProfileHandler"),
	}
}

type tagRequest struct {
	Tag       string `json:"tag" binding:"required"`
	CreatedBy string `json:"createdBy"`
}

type commentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body" binding:"required"`
}

// GetProfileHandler handles GET /api/v1/profiles/:wallet.
func (h *ProfileHandler) GetProfileHandler(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallet is required"})
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	profile, err := h.profiles.GetUserProfile(ctx, wallet)
	if err != nil {
		h.writeStoreError(c, "Failed to fetch profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// GetTagsHandler handles GET /api/v1/profiles/:wallet/tags.
func (h *ProfileHandler) GetTagsHandler(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallet is required"})
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	tags, err := h.profiles.GetUserTags(ctx, wallet)
	if err != nil {
		h.writeStoreError(c, "Failed to fetch tags", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// AddTagHandler handles POST /api/v1/profiles/:wallet/tags.
func (h *ProfileHandler) AddTagHandler(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallet is required"})
		return
	}
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "tag is required"})
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	profile, err := h.profiles.AddUserTag(ctx, wallet, req.Tag, req.CreatedBy)
	if err != nil {
		h.writeStoreError(c, "Failed to add tag", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": profile})
}

// RemoveTagHandler handles DELETE /api/v1/profiles/:wallet/tags/:tag.
func (h *ProfileHandler) RemoveTagHandler(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	tag := strings.TrimSpace(c.Param("tag"))
	if wallet == "" || tag == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallet and tag are required"})
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	profile, err := h.profiles.RemoveUserTag(ctx, wallet, tag)
	if err != nil {
		h.writeStoreError(c, "Failed to remove tag", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// GetAllTagsHandler handles GET /api/v1/tags.
func (h *ProfileHandler) GetAllTagsHandler(c *gin.Context) {
	ctx, cancel := h.storeContext(c)
	defer cancel()

	tags, err := h.profiles.AllTags(ctx)
	if err != nil {
		h.writeStoreError(c, "Failed to fetch tag catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// GetCommentsHandler handles GET /api/v1/profiles/:wallet/comments.
func (h *ProfileHandler) GetCommentsHandler(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallet is required"})
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	comments, err := h.profiles.ListComments(ctx, wallet)
	if err != nil {
		h.writeStoreError(c, "Failed to fetch comments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

// AddCommentHandler handles POST /api/v1/profiles/:wallet/comments.
func (h *ProfileHandler) AddCommentHandler(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallet is required"})
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "body is required"})
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	comment, err := h.profiles.AddComment(ctx, wallet, req.Body, req.Author)
	if err != nil {
		h.writeStoreError(c, "Failed to add comment", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

// DeleteCommentHandler handles DELETE /api/v1/profiles/:wallet/comments/:id.
func (h *ProfileHandler) DeleteCommentHandler(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if wallet == "" || err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallet and numeric comment id are required"})
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	if err := h.profiles.DeleteComment(ctx, id); err != nil {
		h.writeStoreError(c, "Failed to delete comment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetFeedHandler handles GET /api/v1/feed.
func (h *ProfileHandler) GetFeedHandler(c *gin.Context) {
	ctx, cancel := h.storeContext(c)
	defer cancel()

	feed, err := h.profiles.AnnouncementsFeed(ctx)
	if err != nil {
		h.writeStoreError(c, "Failed to fetch feed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": feed})
}

func (h *ProfileHandler) writeStoreError(c *gin.Context, msg string, err error) {
	if errors.Is(err, store.ErrStoreNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, APIErrorResponse{Error: "profile store is not configured"})
		return
	}
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusBadGateway, APIErrorResponse{Error: err.Error()})
}

func (h *ProfileHandler) storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.cfg.ProfileStore.RequestTimeoutMillis) * time.Millisecond
	return contextWithTimeout(c, timeout)
}
