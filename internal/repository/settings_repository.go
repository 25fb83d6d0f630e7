package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/StudyBeacon/physics-learn/internal/models"
)

// SettingsRepository stores the single site_settings row (id = 1).
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings or sql.ErrNoRows before the first save.
func (r *SettingsRepository) Get(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	const query = `SELECT site_name, logo_url, theme, analytics_key, email_key, updated_at FROM site_settings WHERE id = 1`
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	return &settings, nil
}

// Save upserts the settings row.
func (r *SettingsRepository) Save(ctx context.Context, settings *models.SiteSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO site_settings (id, site_name, logo_url, theme, analytics_key, email_key, updated_at)
VALUES (1, :site_name, :logo_url, :theme, :analytics_key, :email_key, :updated_at)
ON CONFLICT (id) DO UPDATE SET site_name = EXCLUDED.site_name, logo_url = EXCLUDED.logo_url, theme = EXCLUDED.theme,
analytics_key = EXCLUDED.analytics_key, email_key = EXCLUDED.email_key, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("save site settings: %w", err)
	}
	return nil
}
