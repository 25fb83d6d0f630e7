package dto

// ChapterNoteRequest carries the text fields of a chapter note submission.
type ChapterNoteRequest struct {
	Title       *string `form:"title" json:"title"`
	SubjectCode *string `form:"subjectCode" json:"subjectCode"`
	YearSlug    *string `form:"yearSlug" json:"yearSlug"`
	ChapterID   *string `form:"chapterId" json:"chapterId"`
	Description *string `form:"description" json:"description"`
	Published   *bool   `form:"published" json:"published"`
	PDFURL      *string `form:"pdfUrl" json:"pdfUrl"`
	PublicID    *string `form:"publicId" json:"publicId"`
}

// ChapterNoteQuery captures list query parameters.
type ChapterNoteQuery struct {
	YearSlug    string `form:"yearSlug"`
	SubjectCode string `form:"subjectCode"`
	ChapterID   string `form:"chapterId"`
}
