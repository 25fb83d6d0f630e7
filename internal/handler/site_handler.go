package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

type postService interface {
	ListPublished(ctx context.Context) ([]models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, req dto.PostRequest, authorID string) (*models.Post, error)
	Update(ctx context.Context, id string, req dto.PostRequest) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

type settingsService interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, req dto.SiteSettingsRequest) (*models.SiteSettings, error)
}

// SiteHandler serves posts and site settings.
type SiteHandler struct {
	posts    postService
	settings settingsService
}

// NewSiteHandler constructs the handler.
func NewSiteHandler(posts postService, settings settingsService) *SiteHandler {
	return &SiteHandler{posts: posts, settings: settings}
}

// ListPosts godoc
// @Summary List published posts
// @Tags Site
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /posts [get]
func (h *SiteHandler) ListPosts(c *gin.Context) {
	posts, err := h.posts.ListPublished(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, nil)
}

// ListAllPosts includes drafts.
func (h *SiteHandler) ListAllPosts(c *gin.Context) {
	posts, err := h.posts.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, nil)
}

// GetPost returns one post.
func (h *SiteHandler) GetPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// CreatePost godoc
// @Summary Create a post
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PostRequest true "Post"
// @Success 201 {object} response.Envelope
// @Router /admin/posts [post]
func (h *SiteHandler) CreatePost(c *gin.Context) {
	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}
	var authorID string
	if claims := claimsFromContext(c); claims != nil {
		authorID = claims.UserID
	}
	post, err := h.posts.Create(c.Request.Context(), req, authorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// UpdatePost replaces a post.
func (h *SiteHandler) UpdatePost(c *gin.Context) {
	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}
	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// DeletePost removes a post.
func (h *SiteHandler) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetSettings returns the site settings.
func (h *SiteHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// UpdateSettings godoc
// @Summary Update site settings
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SiteSettingsRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Router /admin/settings [put]
func (h *SiteHandler) UpdateSettings(c *gin.Context) {
	var req dto.SiteSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
