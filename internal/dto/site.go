package dto

// PostRequest creates or replaces a post.
type PostRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Published   bool   `json:"published"`
}

// SiteSettingsRequest patches site settings. Nil fields keep their value.
type SiteSettingsRequest struct {
	SiteName     *string `json:"siteName"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
	Theme        *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	AnalyticsKey *string `json:"analyticsKey"`
	EmailKey     *string `json:"emailKey"`
}
