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

const catalogCacheScope = "catalog"

type catalogSubjectRepository interface {
	ListByYear(ctx context.Context, yearSlug models.YearSlug) ([]models.CatalogSubject, error)
	GetByID(ctx context.Context, id string) (*models.CatalogSubject, error)
	FindByYearAndCode(ctx context.Context, yearSlug models.YearSlug, code string) (*models.CatalogSubject, error)
	Create(ctx context.Context, subject *models.CatalogSubject) error
	Update(ctx context.Context, subject *models.CatalogSubject) error
	Delete(ctx context.Context, id string) error
}

// CatalogSubjectService manages the per-year subject catalog.
type CatalogSubjectService struct {
	repo      catalogSubjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogSubjectService constructs the service.
func NewCatalogSubjectService(repo catalogSubjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CatalogSubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogSubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the subjects of a year, or every subject when yearSlug is empty.
func (s *CatalogSubjectService) List(ctx context.Context, yearSlug string) ([]models.CatalogSubject, error) {
	year := models.YearSlug(strings.TrimSpace(yearSlug))
	if year != "" && !year.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
	}
	return remember(ctx, s.cache, cacheKey(catalogCacheScope+":subjects", year), func() ([]models.CatalogSubject, error) {
		subjects, err := s.repo.ListByYear(ctx, year)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
		}
		if subjects == nil {
			subjects = []models.CatalogSubject{}
		}
		return subjects, nil
	})
}

// Get returns a single subject.
func (s *CatalogSubjectService) Get(ctx context.Context, id string) (*models.CatalogSubject, error) {
	subject, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// GetByYearAndCode returns the subject shown on a year's subject page.
func (s *CatalogSubjectService) GetByYearAndCode(ctx context.Context, yearSlug, code string) (*models.CatalogSubject, error) {
	year := models.YearSlug(strings.TrimSpace(yearSlug))
	if !year.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
	}
	code = normalizeCode(code)
	return remember(ctx, s.cache, cacheKey(catalogCacheScope+":subject", year, code), func() (*models.CatalogSubject, error) {
		subject, err := s.repo.FindByYearAndCode(ctx, year, code)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
		}
		return subject, nil
	})
}

// Create adds a subject. Codes are unique within a year.
func (s *CatalogSubjectService) Create(ctx context.Context, req dto.CatalogSubjectRequest) (*models.CatalogSubject, error) {
	subject, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, subject.YearSlug, subject.Code, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.invalidate(ctx)
	return subject, nil
}

// Update replaces a subject's fields.
func (s *CatalogSubjectService) Update(ctx context.Context, id string, req dto.CatalogSubjectRequest) (*models.CatalogSubject, error) {
	next, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, next.YearSlug, next.Code, id); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	s.invalidate(ctx)
	return next, nil
}

// Delete removes a subject.
func (s *CatalogSubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogSubjectService) fromRequest(req dto.CatalogSubjectRequest) (*models.CatalogSubject, error) {
	req.Code = normalizeCode(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	return &models.CatalogSubject{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		YearSlug:    models.YearSlug(req.YearSlug),
		Chapters:    req.Chapters,
		Syllabus:    req.Syllabus,
	}, nil
}

func (s *CatalogSubjectService) ensureUnique(ctx context.Context, year models.YearSlug, code, selfID string) error {
	existing, err := s.repo.FindByYearAndCode(ctx, year, code)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	case existing.ID != selfID:
		return appErrors.Clone(appErrors.ErrConflict, "subject code already exists for this year")
	}
	return nil
}

func (s *CatalogSubjectService) invalidate(ctx context.Context) {
	s.cache.InvalidateScope(ctx, catalogCacheScope)
}
