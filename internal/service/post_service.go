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

const postCacheScope = "posts"

type postRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// PostService manages notices and articles.
type PostService struct {
	repo      postRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(repo postRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PostService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ListPublished returns published posts for the public site.
func (s *PostService) ListPublished(ctx context.Context) ([]models.Post, error) {
	return remember(ctx, s.cache, cacheKey(postCacheScope+":published"), func() ([]models.Post, error) {
		return s.list(ctx, true)
	})
}

// ListAll returns drafts and published posts.
func (s *PostService) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, false)
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	return post, nil
}

// Create adds a post authored by authorID. An empty author is stored as NULL.
func (s *PostService) Create(ctx context.Context, req dto.PostRequest, authorID string) (*models.Post, error) {
	post, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if authorID = strings.TrimSpace(authorID); authorID != "" {
		post.AuthorID = &authorID
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}
	s.invalidate(ctx)
	return post, nil
}

// Update replaces a post's editable fields.
func (s *PostService) Update(ctx context.Context, id string, req dto.PostRequest) (*models.Post, error) {
	next, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.AuthorID = current.AuthorID
	next.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update post")
	}
	s.invalidate(ctx)
	return next, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete post")
	}
	s.invalidate(ctx)
	return nil
}

func (s *PostService) list(ctx context.Context, publishedOnly bool) ([]models.Post, error) {
	posts, err := s.repo.List(ctx, publishedOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *PostService) fromRequest(req dto.PostRequest) (*models.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}
	return &models.Post{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
	}, nil
}

func (s *PostService) invalidate(ctx context.Context) {
	s.cache.InvalidateScope(ctx, postCacheScope)
}
