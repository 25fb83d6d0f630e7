package models

import "time"

// MaterialType says whether a material is a hosted PDF or an external link.
type MaterialType string

const (
	MaterialPDF  MaterialType = "pdf"
	MaterialLink MaterialType = "link"
)

// MaterialCategory groups materials on the subject page.
type MaterialCategory string

const (
	MaterialChapter      MaterialCategory = "chapter"
	MaterialSyllabus     MaterialCategory = "syllabus"
	MaterialQuestionBank MaterialCategory = "questionBank"
)

// Material is a downloadable or linked study resource for a subject.
type Material struct {
	ID          string           `db:"id" json:"id"`
	Title       string           `db:"title" json:"title"`
	URL         string           `db:"url" json:"url"`
	SubjectCode string           `db:"subject_code" json:"subjectCode"`
	YearSlug    YearSlug         `db:"year_slug" json:"yearSlug"`
	Type        MaterialType     `db:"type" json:"type"`
	Category    MaterialCategory `db:"category" json:"category"`
	Published   bool             `db:"published" json:"published"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

// MaterialFilter narrows material listings.
type MaterialFilter struct {
	YearSlug    YearSlug
	SubjectCode string
	Category    MaterialCategory
	Published   *bool
}
