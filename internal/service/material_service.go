package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
)

type materialRepository interface {
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error)
	GetByID(ctx context.Context, id string) (*models.Material, error)
	Create(ctx context.Context, material *models.Material) error
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id string) error
}

// MaterialService manages study materials linked to catalog subjects.
type MaterialService struct {
	repo      materialRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService constructs the service.
func NewMaterialService(repo materialRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ListForSubject returns the published materials of one subject, newest first.
func (s *MaterialService) ListForSubject(ctx context.Context, yearSlug, subjectCode string) ([]models.Material, error) {
	published := true
	filter := models.MaterialFilter{
		YearSlug:    models.YearSlug(strings.TrimSpace(yearSlug)),
		SubjectCode: normalizeCode(subjectCode),
		Published:   &published,
	}
	key := cacheKey(catalogCacheScope+":materials", filter.YearSlug, filter.SubjectCode)
	return remember(ctx, s.cache, key, func() ([]models.Material, error) {
		return s.list(ctx, filter)
	})
}

// ListAll returns materials for the admin panel regardless of publication.
func (s *MaterialService) ListAll(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error) {
	filter.SubjectCode = normalizeCode(filter.SubjectCode)
	return s.list(ctx, filter)
}

// Get returns a material by id.
func (s *MaterialService) Get(ctx context.Context, id string) (*models.Material, error) {
	material, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	return material, nil
}

// Create adds a material.
func (s *MaterialService) Create(ctx context.Context, req dto.MaterialRequest) (*models.Material, error) {
	material, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}
	s.invalidate(ctx)
	return material, nil
}

// Update replaces a material's fields.
func (s *MaterialService) Update(ctx context.Context, id string, req dto.MaterialRequest) (*models.Material, error) {
	next, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	if req.Published == nil {
		next.Published = current.Published
	}
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update material")
	}
	s.invalidate(ctx)
	return next, nil
}

// Delete removes a material.
func (s *MaterialService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}
	s.invalidate(ctx)
	return nil
}

func (s *MaterialService) list(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error) {
	if filter.YearSlug != "" && !filter.YearSlug.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
	}
	materials, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	if materials == nil {
		materials = []models.Material{}
	}
	return materials, nil
}

func (s *MaterialService) fromRequest(req dto.MaterialRequest) (*models.Material, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.URL = strings.TrimSpace(req.URL)
	req.SubjectCode = normalizeCode(req.SubjectCode)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}
	material := &models.Material{
		Title:       req.Title,
		URL:         req.URL,
		SubjectCode: req.SubjectCode,
		YearSlug:    models.YearSlug(req.YearSlug),
		Type:        models.MaterialPDF,
		Category:    models.MaterialChapter,
		Published:   req.Published == nil || *req.Published,
	}
	if req.Type != "" {
		material.Type = models.MaterialType(req.Type)
	}
	if req.Category != "" {
		material.Category = models.MaterialCategory(req.Category)
	}
	return material, nil
}

func (s *MaterialService) invalidate(ctx context.Context) {
	s.cache.InvalidateScope(ctx, catalogCacheScope)
}
