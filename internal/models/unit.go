package models

import "time"

// UnitDifficulty grades a syllabus unit.
type UnitDifficulty string

const (
	UnitEasy   UnitDifficulty = "easy"
	UnitMedium UnitDifficulty = "medium"
	UnitHard   UnitDifficulty = "hard"
)

// Unit groups related chapters of a subject's syllabus.
type Unit struct {
	ID               string         `db:"id" json:"id"`
	SubjectCode      string         `db:"subject_code" json:"subjectCode"`
	YearSlug         YearSlug       `db:"year_slug" json:"yearSlug"`
	UnitCode         string         `db:"unit_code" json:"unitCode"`
	UnitName         string         `db:"unit_name" json:"unitName"`
	Topics           StringList     `db:"topics" json:"topics"`
	Resources        ResourceList   `db:"resources" json:"resources"`
	EstimatedTimeMin int            `db:"estimated_time_min" json:"estimatedTimeMin"`
	Difficulty       UnitDifficulty `db:"difficulty" json:"difficulty"`
	Tags             StringList     `db:"tags" json:"tags"`
	Published        bool           `db:"published" json:"published"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedAt"`
}

// UnitFilter narrows unit listings.
type UnitFilter struct {
	YearSlug    YearSlug
	SubjectCode string
	Published   *bool
}
