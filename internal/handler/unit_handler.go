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

type unitService interface {
	ListForSubject(ctx context.Context, yearSlug, subjectCode string) ([]models.Unit, error)
	ListAll(ctx context.Context, filter models.UnitFilter) ([]models.Unit, error)
	Get(ctx context.Context, id string) (*models.Unit, error)
	Create(ctx context.Context, req dto.UnitRequest) (*models.Unit, error)
	Update(ctx context.Context, id string, req dto.UnitRequest) (*models.Unit, error)
	Delete(ctx context.Context, id string) error
}

// UnitHandler serves syllabus units.
type UnitHandler struct {
	service unitService
}

// NewUnitHandler constructs the handler.
func NewUnitHandler(svc unitService) *UnitHandler {
	return &UnitHandler{service: svc}
}

// ListForSubject godoc
// @Summary List units of a subject
// @Tags Catalog
// @Produce json
// @Param yearSlug path string true "Academic year"
// @Param subjectCode path string true "Subject code"
// @Success 200 {object} response.Envelope
// @Router /subjects/{yearSlug}/{subjectCode}/units [get]
func (h *UnitHandler) ListForSubject(c *gin.Context) {
	units, err := h.service.ListForSubject(c.Request.Context(), c.Param("yearSlug"), c.Param("subjectCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, nil)
}

// ListAll returns every unit for the admin panel.
func (h *UnitHandler) ListAll(c *gin.Context) {
	filter := models.UnitFilter{
		YearSlug:    models.YearSlug(strings.TrimSpace(c.Query("yearSlug"))),
		SubjectCode: c.Query("subjectCode"),
	}
	units, err := h.service.ListAll(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, nil)
}

// Get returns one unit.
func (h *UnitHandler) Get(c *gin.Context) {
	unit, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Create godoc
// @Summary Create a unit
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UnitRequest true "Unit"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var req dto.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid unit payload"))
		return
	}
	unit, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

// Update replaces a unit.
func (h *UnitHandler) Update(c *gin.Context) {
	var req dto.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid unit payload"))
		return
	}
	unit, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Delete removes a unit.
func (h *UnitHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
