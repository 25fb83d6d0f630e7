package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/middleware"
	"github.com/StudyBeacon/physics-learn/internal/models"
	"github.com/StudyBeacon/physics-learn/internal/service"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

type chapterNoteService interface {
	ListPublished(ctx context.Context, query dto.ChapterNoteQuery) ([]models.ChapterNote, error)
	Get(ctx context.Context, id string) (*models.ChapterNote, error)
	Create(ctx context.Context, sub service.ChapterNoteSubmission) (*models.ChapterNote, error)
	Update(ctx context.Context, id string, sub service.ChapterNoteSubmission) (*models.ChapterNote, error)
	Delete(ctx context.Context, id string) error
}

// ChapterNoteHandler serves chapter PDF notes.
type ChapterNoteHandler struct {
	service chapterNoteService
	limits  UploadLimits
}

// NewChapterNoteHandler constructs the handler.
func NewChapterNoteHandler(svc chapterNoteService, limits UploadLimits) *ChapterNoteHandler {
	return &ChapterNoteHandler{service: svc, limits: limits.withDefaults()}
}

// List godoc
// @Summary List published chapter notes
// @Tags ChapterNotes
// @Produce json
// @Param yearSlug query string false "Academic year"
// @Param subjectCode query string false "Subject code"
// @Param chapterId query string false "Chapter ID"
// @Success 200 {object} response.Envelope
// @Router /chapter-notes [get]
func (h *ChapterNoteHandler) List(c *gin.Context) {
	var query dto.ChapterNoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	notes, err := h.service.ListPublished(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil, middleware.ResponseMeta(c))
}

// Get godoc
// @Summary Get a chapter note
// @Tags ChapterNotes
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} response.Envelope
// @Router /chapter-notes/{id} [get]
func (h *ChapterNoteHandler) Get(c *gin.Context) {
	note, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}

// Create godoc
// @Summary Upload a chapter note
// @Tags ChapterNotes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file false "Note PDF"
// @Success 201 {object} response.Envelope
// @Router /chapter-notes [post]
func (h *ChapterNoteHandler) Create(c *gin.Context) {
	sub, err := h.bindSubmission(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	note, err := h.service.Create(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// Update godoc
// @Summary Update a chapter note
// @Tags ChapterNotes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} response.Envelope
// @Router /chapter-notes/{id} [put]
func (h *ChapterNoteHandler) Update(c *gin.Context) {
	sub, err := h.bindSubmission(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	note, err := h.service.Update(c.Request.Context(), c.Param("id"), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}

// Delete godoc
// @Summary Delete a chapter note
// @Tags ChapterNotes
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 204
// @Router /chapter-notes/{id} [delete]
func (h *ChapterNoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ChapterNoteHandler) bindSubmission(c *gin.Context) (service.ChapterNoteSubmission, error) {
	var sub service.ChapterNoteSubmission
	if err := c.ShouldBind(&sub.Fields); err != nil {
		return sub, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chapter note payload")
	}
	pdf, err := singleFile(c, "file", h.limits)
	if err != nil {
		return sub, err
	}
	sub.PDF = pdf
	return sub, nil
}
