package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/middleware"
	"github.com/StudyBeacon/physics-learn/internal/models"
	"github.com/StudyBeacon/physics-learn/internal/service"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

type examPaperService interface {
	ListPublished(ctx context.Context, query dto.ExamPaperQuery) ([]models.ExamPaper, *models.Pagination, error)
	ListBySubjectYear(ctx context.Context, subjectCode, yearSlug string) ([]models.ExamPaper, error)
	Get(ctx context.Context, id string) (*models.ExamPaper, error)
	Create(ctx context.Context, sub service.ExamPaperSubmission, actor *models.JWTClaims) (*models.ExamPaper, error)
	Update(ctx context.Context, id string, sub service.ExamPaperSubmission) (*models.ExamPaper, error)
	Delete(ctx context.Context, id string) error
}

type paperExporter interface {
	PaperCatalog(ctx context.Context) (*service.ExportFile, error)
	PrintSheet(ctx context.Context, id string) (*service.ExportFile, error)
}

// ExamPaperHandler serves past question papers.
type ExamPaperHandler struct {
	service  examPaperService
	exporter paperExporter
	limits   UploadLimits
}

// NewExamPaperHandler constructs the handler.
func NewExamPaperHandler(svc examPaperService, exporter paperExporter, limits UploadLimits) *ExamPaperHandler {
	return &ExamPaperHandler{service: svc, exporter: exporter, limits: limits.withDefaults()}
}

// List godoc
// @Summary List published past questions
// @Tags PastQuestions
// @Produce json
// @Param subjectCode query string false "Subject code"
// @Param yearSlug query string false "Academic year"
// @Param examYear query string false "Exam year"
// @Param examType query string false "Exam type"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /past-questions [get]
func (h *ExamPaperHandler) List(c *gin.Context) {
	var query dto.ExamPaperQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	papers, pagination, err := h.service.ListPublished(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, papers, pagination, middleware.ResponseMeta(c))
}

// BySubjectYear godoc
// @Summary List every past question of a subject and year
// @Tags PastQuestions
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Param yearSlug path string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /past-questions/subject/{subjectCode}/{yearSlug} [get]
func (h *ExamPaperHandler) BySubjectYear(c *gin.Context) {
	papers, err := h.service.ListBySubjectYear(c.Request.Context(), c.Param("subjectCode"), c.Param("yearSlug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, papers, nil)
}

// Get godoc
// @Summary Get a past question and count the download
// @Tags PastQuestions
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /past-questions/{id} [get]
func (h *ExamPaperHandler) Get(c *gin.Context) {
	paper, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paper, nil)
}

// Print godoc
// @Summary Printable question sheet
// @Tags PastQuestions
// @Produce application/pdf
// @Param id path string true "Paper ID"
// @Success 200 {file} file
// @Router /past-questions/{id}/print [get]
func (h *ExamPaperHandler) Print(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.exporter.PrintSheet(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file, "inline")
}

// Export godoc
// @Summary Export the past question catalogue as CSV
// @Tags Admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/past-questions/export [get]
func (h *ExamPaperHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.exporter.PaperCatalog(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file, "attachment")
}

// Create godoc
// @Summary Create a past question paper
// @Tags PastQuestions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param subjectCode formData string true "Subject code"
// @Param yearSlug formData string true "Academic year"
// @Param examYear formData string true "Exam year"
// @Param questionContent formData string false "Numbered question text"
// @Param questions formData string false "Structured questions (JSON array)"
// @Param file formData file false "Paper PDF"
// @Param images formData file false "Question images"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /past-questions [post]
func (h *ExamPaperHandler) Create(c *gin.Context) {
	sub, err := h.bindSubmission(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	paper, err := h.service.Create(c.Request.Context(), sub, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, paper)
}

// Update godoc
// @Summary Update a past question paper
// @Tags PastQuestions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Paper ID"
// @Success 200 {object} response.Envelope
// @Router /past-questions/{id} [put]
func (h *ExamPaperHandler) Update(c *gin.Context) {
	sub, err := h.bindSubmission(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	paper, err := h.service.Update(c.Request.Context(), c.Param("id"), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paper, nil)
}

// Delete godoc
// @Summary Delete a past question paper and its files
// @Tags PastQuestions
// @Security BearerAuth
// @Param id path string true "Paper ID"
// @Success 204
// @Router /past-questions/{id} [delete]
func (h *ExamPaperHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ExamPaperHandler) bindSubmission(c *gin.Context) (service.ExamPaperSubmission, error) {
	var sub service.ExamPaperSubmission
	if err := c.ShouldBind(&sub.Fields); err != nil {
		return sub, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid past question payload")
	}
	pdf, err := singleFile(c, "file", h.limits)
	if err != nil {
		return sub, err
	}
	images, err := multiFiles(c, "images", h.limits.MaxImages, h.limits)
	if err != nil {
		return sub, err
	}
	sub.PDF = pdf
	sub.Images = images
	return sub, nil
}

func sendFile(c *gin.Context, file *service.ExportFile, disposition string) {
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
