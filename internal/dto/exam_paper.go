package dto

// ExamPaperRequest carries the text fields of a multipart exam paper submission.
// Nil pointers mean the field was not submitted.
type ExamPaperRequest struct {
	Title           *string `form:"title" json:"title"`
	SubjectCode     *string `form:"subjectCode" json:"subjectCode"`
	YearSlug        *string `form:"yearSlug" json:"yearSlug"`
	ExamYear        *string `form:"examYear" json:"examYear"`
	ExamType        *string `form:"examType" json:"examType"`
	Description     *string `form:"description" json:"description"`
	Published       *bool   `form:"published" json:"published"`
	QuestionContent *string `form:"questionContent" json:"questionContent"`
	Questions       *string `form:"questions" json:"questions"`
	PDFURL          *string `form:"pdfUrl" json:"pdfUrl"`
	PublicID        *string `form:"publicId" json:"publicId"`
}

// ExamPaperQuery captures list query parameters.
type ExamPaperQuery struct {
	SubjectCode string `form:"subjectCode"`
	YearSlug    string `form:"yearSlug"`
	ExamYear    string `form:"examYear"`
	ExamType    string `form:"examType"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

// FileUpload is one buffered multipart file.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
