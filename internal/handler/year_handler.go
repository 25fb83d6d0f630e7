package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

type subjectDirectory interface {
	List(ctx context.Context, yearSlug string) ([]models.CatalogSubject, error)
	GetByYearAndCode(ctx context.Context, yearSlug, code string) (*models.CatalogSubject, error)
}

// YearHandler serves the academic years and the subject pages under them.
type YearHandler struct {
	subjects subjectDirectory
}

// NewYearHandler constructs the handler.
func NewYearHandler(subjects subjectDirectory) *YearHandler {
	return &YearHandler{subjects: subjects}
}

// List godoc
// @Summary List academic years
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /years [get]
func (h *YearHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.Years(), nil)
}

// Get returns one academic year.
func (h *YearHandler) Get(c *gin.Context) {
	slug := models.YearSlug(c.Param("slug"))
	for _, year := range models.Years() {
		if year.Slug == slug {
			response.JSON(c, http.StatusOK, year, nil)
			return
		}
	}
	response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "year not found"))
}

// Subjects godoc
// @Summary List the subjects of a year
// @Tags Catalog
// @Produce json
// @Param slug path string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /years/{slug}/subjects [get]
func (h *YearHandler) Subjects(c *gin.Context) {
	slug := models.YearSlug(c.Param("slug"))
	if !slug.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "year not found"))
		return
	}
	subjects, err := h.subjects.List(c.Request.Context(), string(slug))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// SubjectInfo godoc
// @Summary Get a subject by year and code
// @Tags Catalog
// @Produce json
// @Param yearSlug path string true "Academic year"
// @Param subjectCode path string true "Subject code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{yearSlug}/{subjectCode}/info [get]
func (h *YearHandler) SubjectInfo(c *gin.Context) {
	subject, err := h.subjects.GetByYearAndCode(c.Request.Context(), c.Param("yearSlug"), c.Param("subjectCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}
