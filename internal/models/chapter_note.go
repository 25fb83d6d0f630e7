package models

import "time"

// ChapterNote is a PDF study note attached to a chapter.
type ChapterNote struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	SubjectCode string    `db:"subject_code" json:"subjectCode"`
	YearSlug    YearSlug  `db:"year_slug" json:"yearSlug"`
	ChapterID   string    `db:"chapter_id" json:"chapterId"`
	PDFURL      string    `db:"pdf_url" json:"pdfUrl"`
	StorageKey  string    `db:"storage_key" json:"-"`
	Description string    `db:"description" json:"description"`
	Published   bool      `db:"published" json:"published"`
	PageCount   int       `db:"page_count" json:"pageCount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ChapterNoteFilter captures list filters for chapter notes.
type ChapterNoteFilter struct {
	YearSlug    YearSlug
	SubjectCode string
	ChapterID   string
	Published   *bool
}
