package models

import (
	"database/sql/driver"
	"time"
)

// Difficulty grades how demanding a chapter is.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ChapterResource is an extra link attached to a chapter.
type ChapterResource struct {
	Type        string `json:"type" validate:"required,oneof=note diagram video link pdf"`
	Title       string `json:"title" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description"`
}

// ResourceList is stored as JSONB on chapters.
type ResourceList []ChapterResource

// Value marshals resources to JSON.
func (l ResourceList) Value() (driver.Value, error) {
	return jsonbValue(l, l == nil, "resource list")
}

// Scan unmarshals a JSONB resource array.
func (l *ResourceList) Scan(value interface{}) error {
	return jsonbScan(value, l, "ResourceList")
}

// Chapter belongs to a catalog subject within one academic year.
type Chapter struct {
	ID            string       `db:"id" json:"id"`
	Title         string       `db:"title" json:"title"`
	Description   string       `db:"description" json:"description"`
	SubjectID     string       `db:"subject_id" json:"subjectId"`
	YearSlug      YearSlug     `db:"year_slug" json:"yearSlug"`
	SubjectCode   string       `db:"subject_code" json:"subjectCode"`
	Topics        StringList   `db:"topics" json:"topics"`
	Resources     ResourceList `db:"resources" json:"resources"`
	Difficulty    Difficulty   `db:"difficulty" json:"difficulty"`
	EstimatedTime int          `db:"estimated_time" json:"estimatedTime"`
	Tags          StringList   `db:"tags" json:"tags"`
	Order         int          `db:"sort_order" json:"order"`
	Published     bool         `db:"published" json:"published"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updatedAt"`
}

// ChapterFilter captures list filters for chapters.
type ChapterFilter struct {
	YearSlug    YearSlug
	SubjectCode string
	SubjectID   string
	Published   *bool
}
