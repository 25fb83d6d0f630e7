package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/pdfinfo"
	"github.com/StudyBeacon/physics-learn/pkg/storage"
)

const (
	examPaperFolder      = "past-questions"
	examPaperImageFolder = "past-questions-images"
	examPaperCacheScope  = "past-questions"
)

type examPaperRepository interface {
	List(ctx context.Context, filter models.ExamPaperFilter) ([]models.ExamPaper, int, error)
	ListBySubjectYear(ctx context.Context, subjectCode string, yearSlug models.YearSlug) ([]models.ExamPaper, error)
	ListAll(ctx context.Context) ([]models.ExamPaper, error)
	GetByID(ctx context.Context, id string) (*models.ExamPaper, error)
	Create(ctx context.Context, paper *models.ExamPaper) error
	Update(ctx context.Context, paper *models.ExamPaper) error
	Delete(ctx context.Context, id string) error
	IncrementDownloadCount(ctx context.Context, id string) error
}

// assetStore is the two-tier blob store used for uploads and deletions.
type assetStore interface {
	Upload(ctx context.Context, obj storage.Object) storage.Result
	Delete(ctx context.Context, key string) error
}

type downloadObserver interface {
	ObserveDownload()
}

// ExamPaperSubmission is a create or update request after transport decoding.
type ExamPaperSubmission struct {
	Fields dto.ExamPaperRequest
	PDF    *dto.FileUpload
	Images []dto.FileUpload
}

// examPaperFields is validated on create.
type examPaperFields struct {
	Title       string `validate:"required"`
	SubjectCode string `validate:"required"`
	YearSlug    string `validate:"required,oneof=first second third fourth"`
	ExamYear    string `validate:"required"`
	ExamType    string `validate:"omitempty,oneof=midterm final internal practical other"`
}

// ExamPaperServiceConfig bounds submissions.
type ExamPaperServiceConfig struct {
	MaxImages int
}

// ExamPaperService assembles exam papers from text, structured questions and uploads.
type ExamPaperService struct {
	repo      examPaperRepository
	assets    assetStore
	cache     *CacheService
	downloads downloadObserver
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExamPaperServiceConfig
	async     func(func())
}

// NewExamPaperService constructs the service.
func NewExamPaperService(repo examPaperRepository, assets assetStore, cache *CacheService, downloads downloadObserver, validate *validator.Validate, logger *zap.Logger, cfg ExamPaperServiceConfig) *ExamPaperService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = 10
	}
	return &ExamPaperService{
		repo:      repo,
		assets:    assets,
		cache:     cache,
		downloads: downloads,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		async:     func(fn func()) { go fn() },
	}
}

// ExamPaperPage is a cached page of list results.
type ExamPaperPage struct {
	Items      []models.ExamPaper `json:"items"`
	Pagination models.Pagination  `json:"pagination"`
}

// ListPublished returns published papers sorted by exam year then creation time, newest first.
func (s *ExamPaperService) ListPublished(ctx context.Context, query dto.ExamPaperQuery) ([]models.ExamPaper, *models.Pagination, error) {
	published := true
	filter := models.ExamPaperFilter{
		SubjectCode: normalizeCode(query.SubjectCode),
		YearSlug:    models.YearSlug(strings.TrimSpace(query.YearSlug)),
		ExamYear:    strings.TrimSpace(query.ExamYear),
		ExamType:    models.ExamType(strings.TrimSpace(query.ExamType)),
		Published:   &published,
		Page:        query.Page,
		PageSize:    query.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	key := cacheKey(examPaperCacheScope+":list", filter.SubjectCode, filter.YearSlug, filter.ExamYear, filter.ExamType, filter.Page, filter.PageSize)
	page, err := remember(ctx, s.cache, key, func() (ExamPaperPage, error) {
		papers, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return ExamPaperPage{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past questions")
		}
		if papers == nil {
			papers = []models.ExamPaper{}
		}
		return ExamPaperPage{
			Items:      papers,
			Pagination: models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total},
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return page.Items, &page.Pagination, nil
}

// ListBySubjectYear returns every paper for a subject and year, including unpublished ones.
func (s *ExamPaperService) ListBySubjectYear(ctx context.Context, subjectCode, yearSlug string) ([]models.ExamPaper, error) {
	papers, err := s.repo.ListBySubjectYear(ctx, normalizeCode(subjectCode), models.YearSlug(strings.TrimSpace(yearSlug)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past questions")
	}
	if papers == nil {
		papers = []models.ExamPaper{}
	}
	return papers, nil
}

// Get returns a paper and records one download without delaying the response.
func (s *ExamPaperService) Get(ctx context.Context, id string) (*models.ExamPaper, error) {
	paper, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.async(func() {
		// The request context may be cancelled once the response is written.
		if err := s.repo.IncrementDownloadCount(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("failed to increment download count", zap.String("exam_paper_id", id), zap.Error(err))
			return
		}
		if s.downloads != nil {
			s.downloads.ObserveDownload()
		}
	})
	return paper, nil
}

// Find returns a paper without touching the download counter.
func (s *ExamPaperService) Find(ctx context.Context, id string) (*models.ExamPaper, error) {
	return s.load(ctx, id)
}

// ListAll returns every paper for catalogue export.
func (s *ExamPaperService) ListAll(ctx context.Context) ([]models.ExamPaper, error) {
	papers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past questions")
	}
	return papers, nil
}

// Create validates the submission, uploads its files and persists the paper.
// Every asset uploaded by the call is removed again if the call fails.
func (s *ExamPaperService) Create(ctx context.Context, sub ExamPaperSubmission, actor *models.JWTClaims) (*models.ExamPaper, error) {
	f := sub.Fields
	fields := examPaperFields{
		Title:       trimPtr(f.Title),
		SubjectCode: normalizeCode(trimPtr(f.SubjectCode)),
		YearSlug:    trimPtr(f.YearSlug),
		ExamYear:    trimPtr(f.ExamYear),
		ExamType:    trimPtr(f.ExamType),
	}
	if fields.Title == "" || fields.SubjectCode == "" || fields.YearSlug == "" || fields.ExamYear == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing required fields")
	}
	if err := s.validator.Struct(fields); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid past question payload")
	}
	structured, err := decodeQuestions(f.Questions)
	if err != nil {
		return nil, err
	}
	content := ptrValue(f.QuestionContent)
	if strings.TrimSpace(content) == "" && len(structured) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question content is required")
	}
	if err := s.checkImageCount(len(sub.Images)); err != nil {
		return nil, err
	}

	questions := structured
	if len(questions) == 0 {
		if questions, err = parseQuestionText(content); err != nil {
			return nil, err
		}
	}

	paper := &models.ExamPaper{
		Title:           fields.Title,
		Description:     ptrValue(f.Description),
		SubjectCode:     fields.SubjectCode,
		YearSlug:        models.YearSlug(fields.YearSlug),
		ExamYear:        fields.ExamYear,
		ExamType:        models.ExamTypeFinal,
		QuestionContent: content,
		Published:       f.Published == nil || *f.Published,
	}
	if fields.ExamType != "" {
		paper.ExamType = models.ExamType(fields.ExamType)
	}
	if actor != nil && actor.UserID != "" {
		uploader := actor.UserID
		paper.UploadedBy = &uploader
	}

	tx := newUploadBatch(s.assets, s.logger)
	if sub.PDF != nil {
		if err := s.attachPDF(ctx, tx, paper, *sub.PDF); err != nil {
			return nil, err
		}
	} else if url := trimPtr(f.PDFURL); url != "" {
		paper.PDFURL = url
		paper.StorageKey = trimPtr(f.PublicID)
	}

	images, err := s.uploadImages(ctx, tx, sub.Images)
	if err != nil {
		tx.rollback(ctx)
		return nil, err
	}
	binding := BindImages(questions, images)
	paper.Questions = binding.Questions
	paper.Images = binding.General

	if err := s.repo.Create(ctx, paper); err != nil {
		tx.rollback(ctx)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create past question")
	}
	s.invalidate(ctx)
	s.logger.Info("past question created",
		zap.String("exam_paper_id", paper.ID),
		zap.Int("questions", len(paper.Questions)),
		zap.Int("images", len(paper.Images)),
	)
	return paper, nil
}

// Update applies the submitted fields to an existing paper. Omitted fields are left untouched.
func (s *ExamPaperService) Update(ctx context.Context, id string, sub ExamPaperSubmission) (*models.ExamPaper, error) {
	f := sub.Fields
	if err := validatePresent(f); err != nil {
		return nil, err
	}
	structured, err := decodeQuestions(f.Questions)
	if err != nil {
		return nil, err
	}
	if err := s.checkImageCount(len(sub.Images)); err != nil {
		return nil, err
	}

	paper, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if f.Title != nil {
		paper.Title = strings.TrimSpace(*f.Title)
	}
	if f.SubjectCode != nil {
		paper.SubjectCode = normalizeCode(*f.SubjectCode)
	}
	if f.YearSlug != nil {
		paper.YearSlug = models.YearSlug(strings.TrimSpace(*f.YearSlug))
	}
	if f.ExamYear != nil {
		paper.ExamYear = strings.TrimSpace(*f.ExamYear)
	}
	if f.ExamType != nil && strings.TrimSpace(*f.ExamType) != "" {
		paper.ExamType = models.ExamType(strings.TrimSpace(*f.ExamType))
	}
	if f.Description != nil {
		paper.Description = *f.Description
	}
	if f.Published != nil {
		paper.Published = *f.Published
	}
	if f.QuestionContent != nil {
		paper.QuestionContent = *f.QuestionContent
	}
	switch {
	case len(structured) > 0:
		paper.Questions = structured
	case f.QuestionContent != nil:
		parsed, err := parseQuestionText(*f.QuestionContent)
		if err != nil {
			return nil, err
		}
		paper.Questions = parsed
	case f.Questions != nil:
		paper.Questions = models.QuestionList{}
	}
	if strings.TrimSpace(paper.QuestionContent) == "" && len(paper.Questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question content is required")
	}

	previousKey := paper.StorageKey
	tx := newUploadBatch(s.assets, s.logger)
	replacedPDF := false
	if sub.PDF != nil {
		if err := s.attachPDF(ctx, tx, paper, *sub.PDF); err != nil {
			return nil, err
		}
		replacedPDF = true
	} else if f.PDFURL != nil {
		paper.PDFURL = strings.TrimSpace(*f.PDFURL)
		paper.StorageKey = trimPtr(f.PublicID)
		paper.FileSize = 0
		paper.PageCount = 0
		replacedPDF = true
	}

	images, err := s.uploadImages(ctx, tx, sub.Images)
	if err != nil {
		tx.rollback(ctx)
		return nil, err
	}
	if len(images) > 0 {
		binding := BindImages(paper.Questions, images)
		paper.Questions = binding.Questions
		paper.Images = append(paper.Images, binding.General...)
	}

	if err := s.repo.Update(ctx, paper); err != nil {
		tx.rollback(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "past question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update past question")
	}
	if replacedPDF && previousKey != "" && previousKey != paper.StorageKey {
		s.deleteAsset(ctx, previousKey, paper.ID)
	}
	s.invalidate(ctx)
	return paper, nil
}

// Delete removes a paper after a best-effort deletion of its stored assets.
func (s *ExamPaperService) Delete(ctx context.Context, id string) error {
	paper, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	for _, key := range paper.AssetKeys() {
		s.deleteAsset(ctx, key, paper.ID)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "past question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete past question")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ExamPaperService) load(ctx context.Context, id string) (*models.ExamPaper, error) {
	paper, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "past question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load past question")
	}
	return paper, nil
}

func (s *ExamPaperService) attachPDF(ctx context.Context, tx *uploadBatch, paper *models.ExamPaper, file dto.FileUpload) error {
	res, err := tx.upload(ctx, storage.Object{
		Folder:      examPaperFolder,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		return err
	}
	paper.PDFURL = res.URL
	paper.StorageKey = res.Key
	paper.FileSize = res.Size
	paper.PageCount = readPageCount(s.logger, file)
	return nil
}

func (s *ExamPaperService) uploadImages(ctx context.Context, tx *uploadBatch, files []dto.FileUpload) ([]models.ImageAsset, error) {
	images := make([]models.ImageAsset, 0, len(files))
	for _, file := range files {
		res, err := tx.upload(ctx, storage.Object{
			Folder:      examPaperImageFolder,
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Data:        file.Data,
		})
		if err != nil {
			return nil, err
		}
		images = append(images, models.ImageAsset{URL: res.URL, StorageKey: res.Key})
	}
	return images, nil
}

// readPageCount returns the page count of a PDF upload, or 0 when it cannot be parsed.
func readPageCount(logger *zap.Logger, file dto.FileUpload) int {
	if !pdfinfo.IsPDF(file.Data) {
		return 0
	}
	pages, err := pdfinfo.PageCount(file.Data)
	if err != nil {
		logger.Warn("failed to read pdf page count", zap.String("filename", file.Filename), zap.Error(err))
		return 0
	}
	return pages
}

func (s *ExamPaperService) checkImageCount(n int) error {
	if n > s.cfg.MaxImages {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d images are allowed", s.cfg.MaxImages))
	}
	return nil
}

func (s *ExamPaperService) deleteAsset(ctx context.Context, key, paperID string) {
	if err := s.assets.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete past question asset",
			zap.String("exam_paper_id", paperID),
			zap.String("storage_key", key),
			zap.Bool("local", storage.IsLocalKey(key)),
			zap.Error(err),
		)
	}
}

func (s *ExamPaperService) invalidate(ctx context.Context) {
	s.cache.InvalidateScope(ctx, examPaperCacheScope)
}

// validatePresent checks only the fields an update actually carries.
func validatePresent(f dto.ExamPaperRequest) error {
	for name, v := range map[string]*string{"title": f.Title, "subjectCode": f.SubjectCode, "yearSlug": f.YearSlug, "examYear": f.ExamYear} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return appErrors.Clone(appErrors.ErrValidation, name+" cannot be empty")
		}
	}
	if f.YearSlug != nil && !models.YearSlug(strings.TrimSpace(*f.YearSlug)).Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
	}
	if f.ExamType != nil {
		if t := strings.TrimSpace(*f.ExamType); t != "" && !models.ExamType(t).Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "invalid examType")
		}
	}
	return nil
}

// decodeQuestions parses the JSON encoded structured question array. Nil or blank input yields nil.
func decodeQuestions(raw *string) (models.QuestionList, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var questions models.QuestionList
	if err := json.Unmarshal([]byte(*raw), &questions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "questions must be a JSON array")
	}
	for i := range questions {
		questions[i].Number = strings.TrimSpace(questions[i].Number)
		if questions[i].Number == "" || strings.TrimSpace(questions[i].Content) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %d requires questionNumber and content", i+1))
		}
		if questions[i].Images == nil {
			questions[i].Images = []models.ImageAsset{}
		}
		for _, img := range questions[i].Images {
			if strings.TrimSpace(img.URL) == "" {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %d has an image without url", i+1))
			}
		}
	}
	return questions, nil
}

// parseQuestionText runs the parser and rejects numbered lines that carry no
// question text, e.g. a bare "2023" line.
func parseQuestionText(content string) (models.QuestionList, error) {
	questions := ParseQuestions(content)
	for _, q := range questions {
		if strings.TrimSpace(q.Content) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %s has no content", q.Number))
		}
	}
	return questions, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func trimPtr(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func ptrValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
