package models

import "time"

// Theme is the site colour scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// SiteSettings is the single row of site-wide configuration.
type SiteSettings struct {
	SiteName     string    `db:"site_name" json:"siteName"`
	LogoURL      string    `db:"logo_url" json:"logoUrl"`
	Theme        Theme     `db:"theme" json:"theme"`
	AnalyticsKey string    `db:"analytics_key" json:"analyticsKey"`
	EmailKey     string    `db:"email_key" json:"emailKey"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// DefaultSiteSettings is returned before an admin saves anything.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{SiteName: "PhysicsLearn", Theme: ThemeSystem}
}
