package models

import (
	"database/sql/driver"
	"time"
)

// YearSlug identifies the academic year a paper or note belongs to.
type YearSlug string

const (
	YearFirst  YearSlug = "first"
	YearSecond YearSlug = "second"
	YearThird  YearSlug = "third"
	YearFourth YearSlug = "fourth"
)

// Valid reports whether the slug is one of the four academic years.
func (y YearSlug) Valid() bool {
	switch y {
	case YearFirst, YearSecond, YearThird, YearFourth:
		return true
	}
	return false
}

// ExamType enumerates the kinds of exam a paper was set for.
type ExamType string

const (
	ExamTypeMidterm   ExamType = "midterm"
	ExamTypeFinal     ExamType = "final"
	ExamTypeInternal  ExamType = "internal"
	ExamTypePractical ExamType = "practical"
	ExamTypeOther     ExamType = "other"
)

// Valid reports whether the exam type is supported.
func (t ExamType) Valid() bool {
	switch t {
	case ExamTypeMidterm, ExamTypeFinal, ExamTypeInternal, ExamTypePractical, ExamTypeOther:
		return true
	}
	return false
}

// ImageAsset describes one uploaded or externally hosted image.
type ImageAsset struct {
	URL        string `json:"url"`
	StorageKey string `json:"storageKey,omitempty"`
	Caption    string `json:"caption"`
	Order      int    `json:"order"`
}

// Question is one numbered exam question with the images bound to it.
type Question struct {
	Number  string       `json:"questionNumber"`
	Content string       `json:"content"`
	Images  []ImageAsset `json:"images"`
}

// QuestionList is stored as a JSONB array on exam_papers.
type QuestionList []Question

// Value marshals the question list to JSON.
func (l QuestionList) Value() (driver.Value, error) {
	return jsonbValue(l, l == nil, "question list")
}

// Scan unmarshals a JSONB question array.
func (l *QuestionList) Scan(value interface{}) error {
	return jsonbScan(value, l, "QuestionList")
}

// ImageList is stored as a JSONB array on exam_papers.
type ImageList []ImageAsset

// Value marshals the image list to JSON.
func (l ImageList) Value() (driver.Value, error) {
	return jsonbValue(l, l == nil, "image list")
}

// Scan unmarshals a JSONB image array.
func (l *ImageList) Scan(value interface{}) error {
	return jsonbScan(value, l, "ImageList")
}

// ExamPaper is a past exam paper with its parsed questions and attachments.
type ExamPaper struct {
	ID              string       `db:"id" json:"id"`
	Title           string       `db:"title" json:"title"`
	Description     string       `db:"description" json:"description"`
	SubjectCode     string       `db:"subject_code" json:"subjectCode"`
	YearSlug        YearSlug     `db:"year_slug" json:"yearSlug"`
	ExamYear        string       `db:"exam_year" json:"examYear"`
	ExamType        ExamType     `db:"exam_type" json:"examType"`
	QuestionContent string       `db:"question_content" json:"questionContent"`
	Questions       QuestionList `db:"questions" json:"questions"`
	Images          ImageList    `db:"images" json:"images"`
	PDFURL          string       `db:"pdf_url" json:"pdfUrl,omitempty"`
	StorageKey      string       `db:"storage_key" json:"-"`
	FileSize        int64        `db:"file_size" json:"fileSize,omitempty"`
	PageCount       int          `db:"page_count" json:"pageCount"`
	Published       bool         `db:"published" json:"published"`
	DownloadCount   int64        `db:"download_count" json:"downloadCount"`
	UploadedBy      *string      `db:"uploaded_by" json:"uploadedBy,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updatedAt"`
}

// AssetKeys returns every non-empty storage key the paper references.
func (p *ExamPaper) AssetKeys() []string {
	keys := make([]string, 0, 1+len(p.Images))
	if p.StorageKey != "" {
		keys = append(keys, p.StorageKey)
	}
	seen := map[string]struct{}{}
	add := func(img ImageAsset) {
		if img.StorageKey == "" {
			return
		}
		if _, ok := seen[img.StorageKey]; ok {
			return
		}
		seen[img.StorageKey] = struct{}{}
		keys = append(keys, img.StorageKey)
	}
	for _, img := range p.Images {
		add(img)
	}
	for _, q := range p.Questions {
		for _, img := range q.Images {
			add(img)
		}
	}
	return keys
}

// ExamPaperFilter captures list filters for exam papers.
type ExamPaperFilter struct {
	SubjectCode string
	YearSlug    YearSlug
	ExamYear    string
	ExamType    ExamType
	Published   *bool
	Page        int
	PageSize    int
}
