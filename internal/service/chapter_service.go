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

type chapterRepository interface {
	List(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error)
	GetByID(ctx context.Context, id string) (*models.Chapter, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, chapter *models.Chapter) error
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id string) error
}

// ChapterService manages chapters of catalog subjects.
type ChapterService struct {
	repo      chapterRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChapterService constructs the service.
func NewChapterService(repo chapterRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ChapterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChapterService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ListPublished returns published chapters in display order.
func (s *ChapterService) ListPublished(ctx context.Context, yearSlug, subjectCode string) ([]models.Chapter, error) {
	published := true
	filter := models.ChapterFilter{
		YearSlug:    models.YearSlug(strings.TrimSpace(yearSlug)),
		SubjectCode: normalizeCode(subjectCode),
		Published:   &published,
	}
	key := cacheKey(catalogCacheScope+":chapters", filter.YearSlug, filter.SubjectCode)
	return remember(ctx, s.cache, key, func() ([]models.Chapter, error) {
		return s.list(ctx, filter)
	})
}

// ListAll returns every chapter matching the filter, published or not.
func (s *ChapterService) ListAll(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error) {
	filter.SubjectCode = normalizeCode(filter.SubjectCode)
	return s.list(ctx, filter)
}

// Get returns a chapter by id.
func (s *ChapterService) Get(ctx context.Context, id string) (*models.Chapter, error) {
	chapter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "chapter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chapter")
	}
	return chapter, nil
}

// Create adds a chapter.
func (s *ChapterService) Create(ctx context.Context, req dto.ChapterRequest) (*models.Chapter, error) {
	chapter, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, chapter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create chapter")
	}
	s.invalidate(ctx)
	return chapter, nil
}

// Update replaces a chapter's fields.
func (s *ChapterService) Update(ctx context.Context, id string, req dto.ChapterRequest) (*models.Chapter, error) {
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
			return nil, appErrors.Clone(appErrors.ErrNotFound, "chapter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update chapter")
	}
	s.invalidate(ctx)
	return next, nil
}

// Delete removes a chapter.
func (s *ChapterService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "chapter not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete chapter")
	}
	s.invalidate(ctx)
	return nil
}

// Exists reports whether a chapter id is known.
func (s *ChapterService) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check chapter")
	}
	return ok, nil
}

func (s *ChapterService) list(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error) {
	if filter.YearSlug != "" && !filter.YearSlug.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
	}
	chapters, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list chapters")
	}
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	return chapters, nil
}

func (s *ChapterService) fromRequest(req dto.ChapterRequest) (*models.Chapter, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.SubjectCode = normalizeCode(req.SubjectCode)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chapter payload")
	}
	chapter := &models.Chapter{
		Title:         req.Title,
		Description:   req.Description,
		SubjectID:     strings.TrimSpace(req.SubjectID),
		YearSlug:      models.YearSlug(req.YearSlug),
		SubjectCode:   req.SubjectCode,
		Topics:        models.StringList(req.Topics),
		Resources:     models.ResourceList(req.Resources),
		Difficulty:    models.DifficultyBeginner,
		EstimatedTime: req.EstimatedTime,
		Tags:          models.StringList(req.Tags),
		Order:         req.Order,
		Published:     req.Published == nil || *req.Published,
	}
	if req.Difficulty != "" {
		chapter.Difficulty = models.Difficulty(req.Difficulty)
	}
	if chapter.Topics == nil {
		chapter.Topics = models.StringList{}
	}
	if chapter.Tags == nil {
		chapter.Tags = models.StringList{}
	}
	if chapter.Resources == nil {
		chapter.Resources = models.ResourceList{}
	}
	return chapter, nil
}

func (s *ChapterService) invalidate(ctx context.Context) {
	s.cache.InvalidateScope(ctx, catalogCacheScope)
}
