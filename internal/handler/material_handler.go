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

type materialService interface {
	ListForSubject(ctx context.Context, yearSlug, subjectCode string) ([]models.Material, error)
	ListAll(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error)
	Get(ctx context.Context, id string) (*models.Material, error)
	Create(ctx context.Context, req dto.MaterialRequest) (*models.Material, error)
	Update(ctx context.Context, id string, req dto.MaterialRequest) (*models.Material, error)
	Delete(ctx context.Context, id string) error
}

// MaterialHandler serves study materials.
type MaterialHandler struct {
	service materialService
}

// NewMaterialHandler constructs the handler.
func NewMaterialHandler(svc materialService) *MaterialHandler {
	return &MaterialHandler{service: svc}
}

// ListForSubject godoc
// @Summary List materials of a subject
// @Tags Catalog
// @Produce json
// @Param yearSlug path string true "Academic year"
// @Param subjectCode path string true "Subject code"
// @Success 200 {object} response.Envelope
// @Router /subjects/{yearSlug}/{subjectCode}/materials [get]
func (h *MaterialHandler) ListForSubject(c *gin.Context) {
	materials, err := h.service.ListForSubject(c.Request.Context(), c.Param("yearSlug"), c.Param("subjectCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, nil)
}

// ListAll returns every material for the admin panel.
func (h *MaterialHandler) ListAll(c *gin.Context) {
	filter := models.MaterialFilter{
		YearSlug:    models.YearSlug(strings.TrimSpace(c.Query("yearSlug"))),
		SubjectCode: c.Query("subjectCode"),
		Category:    models.MaterialCategory(strings.TrimSpace(c.Query("category"))),
	}
	materials, err := h.service.ListAll(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, nil)
}

// Get returns one material.
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, material, nil)
}

// Create godoc
// @Summary Create a material
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.MaterialRequest true "Material"
// @Success 201 {object} response.Envelope
// @Router /admin/materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req dto.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid material payload"))
		return
	}
	material, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// Update replaces a material.
func (h *MaterialHandler) Update(c *gin.Context) {
	var req dto.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid material payload"))
		return
	}
	material, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, material, nil)
}

// Delete removes a material.
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
