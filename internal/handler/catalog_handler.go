package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

type catalogSubjectService interface {
	List(ctx context.Context, yearSlug string) ([]models.CatalogSubject, error)
	Get(ctx context.Context, id string) (*models.CatalogSubject, error)
	Create(ctx context.Context, req dto.CatalogSubjectRequest) (*models.CatalogSubject, error)
	Update(ctx context.Context, id string, req dto.CatalogSubjectRequest) (*models.CatalogSubject, error)
	Delete(ctx context.Context, id string) error
}

type chapterService interface {
	ListPublished(ctx context.Context, yearSlug, subjectCode string) ([]models.Chapter, error)
	ListAll(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error)
	Get(ctx context.Context, id string) (*models.Chapter, error)
	Create(ctx context.Context, req dto.ChapterRequest) (*models.Chapter, error)
	Update(ctx context.Context, id string, req dto.ChapterRequest) (*models.Chapter, error)
	Delete(ctx context.Context, id string) error
}

// CatalogHandler serves the subject and chapter catalog.
type CatalogHandler struct {
	subjects catalogSubjectService
	chapters chapterService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(subjects catalogSubjectService, chapters chapterService) *CatalogHandler {
	return &CatalogHandler{subjects: subjects, chapters: chapters}
}

// ListSubjects godoc
// @Summary List catalog subjects
// @Tags Catalog
// @Produce json
// @Param yearSlug query string false "Academic year"
// @Success 200 {object} response.Envelope
// @Router /catalog/subjects [get]
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.subjects.List(c.Request.Context(), c.Query("yearSlug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// GetSubject returns one subject.
func (h *CatalogHandler) GetSubject(c *gin.Context) {
	subject, err := h.subjects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// CreateSubject godoc
// @Summary Create a catalog subject
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CatalogSubjectRequest true "Subject"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /catalog/subjects [post]
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var req dto.CatalogSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// UpdateSubject replaces a subject.
func (h *CatalogHandler) UpdateSubject(c *gin.Context) {
	var req dto.CatalogSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}
	subject, err := h.subjects.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// DeleteSubject removes a subject.
func (h *CatalogHandler) DeleteSubject(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListChapters godoc
// @Summary List published chapters
// @Tags Catalog
// @Produce json
// @Param yearSlug query string false "Academic year"
// @Param subjectCode query string false "Subject code"
// @Success 200 {object} response.Envelope
// @Router /chapters [get]
func (h *CatalogHandler) ListChapters(c *gin.Context) {
	chapters, err := h.chapters.ListPublished(c.Request.Context(), c.Query("yearSlug"), c.Query("subjectCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapters, nil)
}

// ListSubjectChapters lists published chapters from the subject page path.
func (h *CatalogHandler) ListSubjectChapters(c *gin.Context) {
	chapters, err := h.chapters.ListPublished(c.Request.Context(), c.Param("yearSlug"), c.Param("subjectCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapters, nil)
}

// ListAllChapters returns chapters regardless of publication for the admin panel.
func (h *CatalogHandler) ListAllChapters(c *gin.Context) {
	filter := models.ChapterFilter{
		YearSlug:    models.YearSlug(strings.TrimSpace(c.Query("yearSlug"))),
		SubjectCode: c.Query("subjectCode"),
		SubjectID:   strings.TrimSpace(c.Query("subjectId")),
	}
	chapters, err := h.chapters.ListAll(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapters, nil)
}

// GetChapter returns one chapter.
func (h *CatalogHandler) GetChapter(c *gin.Context) {
	chapter, err := h.chapters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapter, nil)
}

// CreateChapter godoc
// @Summary Create a chapter
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ChapterRequest true "Chapter"
// @Success 201 {object} response.Envelope
// @Router /chapters [post]
func (h *CatalogHandler) CreateChapter(c *gin.Context) {
	var req dto.ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chapter payload"))
		return
	}
	chapter, err := h.chapters.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, chapter)
}

// UpdateChapter replaces a chapter.
func (h *CatalogHandler) UpdateChapter(c *gin.Context) {
	var req dto.ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chapter payload"))
		return
	}
	chapter, err := h.chapters.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapter, nil)
}

// DeleteChapter removes a chapter.
func (h *CatalogHandler) DeleteChapter(c *gin.Context) {
	if err := h.chapters.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
