package dto

import "github.com/StudyBeacon/physics-learn/internal/models"

// CatalogSubjectRequest creates or replaces a catalog subject.
type CatalogSubjectRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	YearSlug    string `json:"yearSlug" validate:"required,oneof=first second third fourth"`
	Chapters    int    `json:"chapters" validate:"gte=0"`
	Syllabus    string `json:"syllabus"`
}

// ChapterRequest creates or replaces a chapter.
type ChapterRequest struct {
	Title         string                   `json:"title" validate:"required"`
	Description   string                   `json:"description" validate:"required"`
	SubjectID     string                   `json:"subjectId" validate:"required"`
	YearSlug      string                   `json:"yearSlug" validate:"required,oneof=first second third fourth"`
	SubjectCode   string                   `json:"subjectCode" validate:"required"`
	Topics        []string                 `json:"topics"`
	Resources     []models.ChapterResource `json:"resources" validate:"dive"`
	Difficulty    string                   `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	EstimatedTime int                      `json:"estimatedTime" validate:"gte=0"`
	Tags          []string                 `json:"tags"`
	Order         int                      `json:"order"`
	Published     *bool                    `json:"published"`
}

// UnitRequest creates or replaces a syllabus unit.
type UnitRequest struct {
	SubjectCode      string                   `json:"subjectCode" validate:"required"`
	YearSlug         string                   `json:"yearSlug" validate:"required,oneof=first second third fourth"`
	UnitCode         string                   `json:"unitCode" validate:"required"`
	UnitName         string                   `json:"unitName" validate:"required"`
	Topics           []string                 `json:"topics"`
	Resources        []models.ChapterResource `json:"resources" validate:"dive"`
	EstimatedTimeMin int                      `json:"estimatedTimeMin" validate:"gte=0"`
	Difficulty       string                   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Tags             []string                 `json:"tags"`
	Published        *bool                    `json:"published"`
}

// MaterialRequest creates or replaces a study material.
type MaterialRequest struct {
	Title       string `json:"title" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	SubjectCode string `json:"subjectCode" validate:"required"`
	YearSlug    string `json:"yearSlug" validate:"required,oneof=first second third fourth"`
	Type        string `json:"type" validate:"omitempty,oneof=pdf link"`
	Category    string `json:"category" validate:"omitempty,oneof=chapter syllabus questionBank"`
	Published   *bool  `json:"published"`
}
