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

type settingsRepository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Save(ctx context.Context, settings *models.SiteSettings) error
}

// SettingsService reads and patches the site settings.
type SettingsService struct {
	repo      settingsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingsRepository, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, validator: validate, logger: logger}
}

// Get returns the stored settings, or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.DefaultSiteSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Update applies the non-nil fields of req and saves the result.
func (s *SettingsService) Update(ctx context.Context, req dto.SiteSettingsRequest) (*models.SiteSettings, error) {
	if req.SiteName != nil {
		trimmed := strings.TrimSpace(*req.SiteName)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "siteName cannot be empty")
		}
		req.SiteName = &trimmed
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.SiteName != nil {
		settings.SiteName = *req.SiteName
	}
	if req.LogoURL != nil {
		settings.LogoURL = strings.TrimSpace(*req.LogoURL)
	}
	if req.Theme != nil {
		settings.Theme = models.Theme(*req.Theme)
	}
	if req.AnalyticsKey != nil {
		settings.AnalyticsKey = *req.AnalyticsKey
	}
	if req.EmailKey != nil {
		settings.EmailKey = *req.EmailKey
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.logger.Info("site settings updated", zap.String("theme", string(settings.Theme)))
	return settings, nil
}
