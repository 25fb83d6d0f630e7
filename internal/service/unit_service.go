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

type unitRepository interface {
	List(ctx context.Context, filter models.UnitFilter) ([]models.Unit, error)
	GetByID(ctx context.Context, id string) (*models.Unit, error)
	FindBySubjectAndCode(ctx context.Context, subjectCode, unitCode string) (*models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, id string) error
}

// UnitService manages the syllabus units of catalog subjects.
type UnitService struct {
	repo      unitRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUnitService constructs the service.
func NewUnitService(repo unitRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *UnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ListForSubject returns the published units of one subject in a year.
func (s *UnitService) ListForSubject(ctx context.Context, yearSlug, subjectCode string) ([]models.Unit, error) {
	published := true
	filter := models.UnitFilter{
		YearSlug:    models.YearSlug(strings.TrimSpace(yearSlug)),
		SubjectCode: normalizeCode(subjectCode),
		Published:   &published,
	}
	key := cacheKey(catalogCacheScope+":units", filter.YearSlug, filter.SubjectCode)
	return remember(ctx, s.cache, key, func() ([]models.Unit, error) {
		return s.list(ctx, filter)
	})
}

// ListAll returns units for the admin panel regardless of publication.
func (s *UnitService) ListAll(ctx context.Context, filter models.UnitFilter) ([]models.Unit, error) {
	filter.SubjectCode = normalizeCode(filter.SubjectCode)
	return s.list(ctx, filter)
}

// Get returns a unit by id.
func (s *UnitService) Get(ctx context.Context, id string) (*models.Unit, error) {
	unit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load unit")
	}
	return unit, nil
}

// Create adds a unit. Unit codes are unique within a subject.
func (s *UnitService) Create(ctx context.Context, req dto.UnitRequest) (*models.Unit, error) {
	unit, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, unit.SubjectCode, unit.UnitCode, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create unit")
	}
	s.invalidate(ctx)
	return unit, nil
}

// Update replaces a unit's fields.
func (s *UnitService) Update(ctx context.Context, id string, req dto.UnitRequest) (*models.Unit, error) {
	next, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, next.SubjectCode, next.UnitCode, id); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	if req.Published == nil {
		next.Published = current.Published
	}
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update unit")
	}
	s.invalidate(ctx)
	return next, nil
}

// Delete removes a unit.
func (s *UnitService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete unit")
	}
	s.invalidate(ctx)
	return nil
}

func (s *UnitService) list(ctx context.Context, filter models.UnitFilter) ([]models.Unit, error) {
	if filter.YearSlug != "" && !filter.YearSlug.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
	}
	units, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list units")
	}
	if units == nil {
		units = []models.Unit{}
	}
	return units, nil
}

func (s *UnitService) fromRequest(req dto.UnitRequest) (*models.Unit, error) {
	req.SubjectCode = normalizeCode(req.SubjectCode)
	req.UnitCode = strings.TrimSpace(req.UnitCode)
	req.UnitName = strings.TrimSpace(req.UnitName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unit payload")
	}
	unit := &models.Unit{
		SubjectCode:      req.SubjectCode,
		YearSlug:         models.YearSlug(req.YearSlug),
		UnitCode:         req.UnitCode,
		UnitName:         req.UnitName,
		Topics:           models.StringList(req.Topics),
		Resources:        models.ResourceList(req.Resources),
		EstimatedTimeMin: req.EstimatedTimeMin,
		Difficulty:       models.UnitMedium,
		Tags:             models.StringList(req.Tags),
		Published:        req.Published == nil || *req.Published,
	}
	if req.Difficulty != "" {
		unit.Difficulty = models.UnitDifficulty(req.Difficulty)
	}
	if unit.Topics == nil {
		unit.Topics = models.StringList{}
	}
	if unit.Tags == nil {
		unit.Tags = models.StringList{}
	}
	if unit.Resources == nil {
		unit.Resources = models.ResourceList{}
	}
	return unit, nil
}

func (s *UnitService) ensureUnique(ctx context.Context, subjectCode, unitCode, selfID string) error {
	existing, err := s.repo.FindBySubjectAndCode(ctx, subjectCode, unitCode)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check unit code")
	case existing.ID != selfID:
		return appErrors.Clone(appErrors.ErrConflict, "unit code already exists for this subject")
	}
	return nil
}

func (s *UnitService) invalidate(ctx context.Context) {
	s.cache.InvalidateScope(ctx, catalogCacheScope)
}
