package models

import "time"

// CatalogSubject is a course offered in an academic year.
type CatalogSubject struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	YearSlug    YearSlug  `db:"year_slug" json:"yearSlug"`
	Chapters    int       `db:"chapters" json:"chapters"`
	Syllabus    string    `db:"syllabus" json:"syllabus"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
