package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/storage"
)

const chapterNoteFolder = "chapter-notes"

type chapterNoteRepository interface {
	List(ctx context.Context, filter models.ChapterNoteFilter) ([]models.ChapterNote, error)
	GetByID(ctx context.Context, id string) (*models.ChapterNote, error)
	Create(ctx context.Context, note *models.ChapterNote) error
	Update(ctx context.Context, note *models.ChapterNote) error
	Delete(ctx context.Context, id string) error
}

type chapterLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ChapterNoteSubmission is a note request after transport decoding.
type ChapterNoteSubmission struct {
	Fields dto.ChapterNoteRequest
	PDF    *dto.FileUpload
}

// ChapterNoteService manages PDF notes attached to chapters.
type ChapterNoteService struct {
	repo     chapterNoteRepository
	chapters chapterLookup
	assets   assetStore
	logger   *zap.Logger
}

// NewChapterNoteService constructs the service.
func NewChapterNoteService(repo chapterNoteRepository, chapters chapterLookup, assets assetStore, logger *zap.Logger) *ChapterNoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChapterNoteService{repo: repo, chapters: chapters, assets: assets, logger: logger}
}

// ListPublished returns published notes, newest first.
func (s *ChapterNoteService) ListPublished(ctx context.Context, query dto.ChapterNoteQuery) ([]models.ChapterNote, error) {
	published := true
	notes, err := s.repo.List(ctx, models.ChapterNoteFilter{
		YearSlug:    models.YearSlug(strings.TrimSpace(query.YearSlug)),
		SubjectCode: normalizeCode(query.SubjectCode),
		ChapterID:   strings.TrimSpace(query.ChapterID),
		Published:   &published,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list chapter notes")
	}
	if notes == nil {
		notes = []models.ChapterNote{}
	}
	return notes, nil
}

// Get returns one note.
func (s *ChapterNoteService) Get(ctx context.Context, id string) (*models.ChapterNote, error) {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "chapter note not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chapter note")
	}
	return note, nil
}

// Create stores the note PDF and persists the note.
func (s *ChapterNoteService) Create(ctx context.Context, sub ChapterNoteSubmission) (*models.ChapterNote, error) {
	f := sub.Fields
	note := &models.ChapterNote{
		Title:       trimPtr(f.Title),
		SubjectCode: normalizeCode(trimPtr(f.SubjectCode)),
		YearSlug:    models.YearSlug(trimPtr(f.YearSlug)),
		ChapterID:   trimPtr(f.ChapterID),
		Description: ptrValue(f.Description),
		Published:   f.Published == nil || *f.Published,
	}
	if note.Title == "" || note.SubjectCode == "" || note.YearSlug == "" || note.ChapterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing required fields")
	}
	if !note.YearSlug.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
	}
	if sub.PDF == nil && trimPtr(f.PDFURL) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a pdf file or pdfUrl is required")
	}
	if err := s.ensureChapter(ctx, note.ChapterID); err != nil {
		return nil, err
	}

	tx := newUploadBatch(s.assets, s.logger)
	if sub.PDF != nil {
		if err := s.attachPDF(ctx, tx, note, *sub.PDF); err != nil {
			return nil, err
		}
	} else {
		note.PDFURL = trimPtr(f.PDFURL)
		note.StorageKey = trimPtr(f.PublicID)
	}

	if err := s.repo.Create(ctx, note); err != nil {
		tx.rollback(ctx)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create chapter note")
	}
	s.logger.Info("chapter note created", zap.String("chapter_note_id", note.ID), zap.String("chapter_id", note.ChapterID))
	return note, nil
}

// Update applies the submitted fields. A new PDF replaces the stored one.
func (s *ChapterNoteService) Update(ctx context.Context, id string, sub ChapterNoteSubmission) (*models.ChapterNote, error) {
	f := sub.Fields
	for name, v := range map[string]*string{"title": f.Title, "subjectCode": f.SubjectCode, "yearSlug": f.YearSlug, "chapterId": f.ChapterID} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, name+" cannot be empty")
		}
	}
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Title != nil {
		note.Title = strings.TrimSpace(*f.Title)
	}
	if f.SubjectCode != nil {
		note.SubjectCode = normalizeCode(*f.SubjectCode)
	}
	if f.YearSlug != nil {
		note.YearSlug = models.YearSlug(strings.TrimSpace(*f.YearSlug))
		if !note.YearSlug.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid yearSlug")
		}
	}
	if f.ChapterID != nil && strings.TrimSpace(*f.ChapterID) != note.ChapterID {
		note.ChapterID = strings.TrimSpace(*f.ChapterID)
		if err := s.ensureChapter(ctx, note.ChapterID); err != nil {
			return nil, err
		}
	}
	if f.Description != nil {
		note.Description = *f.Description
	}
	if f.Published != nil {
		note.Published = *f.Published
	}

	previousKey := note.StorageKey
	replaced := false
	tx := newUploadBatch(s.assets, s.logger)
	if sub.PDF != nil {
		if err := s.attachPDF(ctx, tx, note, *sub.PDF); err != nil {
			return nil, err
		}
		replaced = true
	} else if f.PDFURL != nil && strings.TrimSpace(*f.PDFURL) != "" {
		note.PDFURL = strings.TrimSpace(*f.PDFURL)
		note.StorageKey = trimPtr(f.PublicID)
		note.PageCount = 0
		replaced = true
	}

	if err := s.repo.Update(ctx, note); err != nil {
		tx.rollback(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "chapter note not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update chapter note")
	}
	if replaced && previousKey != "" && previousKey != note.StorageKey {
		s.deleteAsset(ctx, previousKey, note.ID)
	}
	return note, nil
}

// Delete removes the note and, best effort, its stored PDF.
func (s *ChapterNoteService) Delete(ctx context.Context, id string) error {
	note, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	s.deleteAsset(ctx, note.StorageKey, note.ID)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "chapter note not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete chapter note")
	}
	return nil
}

func (s *ChapterNoteService) ensureChapter(ctx context.Context, chapterID string) error {
	ok, err := s.chapters.Exists(ctx, chapterID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check chapter")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "chapter does not exist")
	}
	return nil
}

func (s *ChapterNoteService) attachPDF(ctx context.Context, tx *uploadBatch, note *models.ChapterNote, file dto.FileUpload) error {
	res, err := tx.upload(ctx, storage.Object{
		Folder:      chapterNoteFolder,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		return err
	}
	note.PDFURL = res.URL
	note.StorageKey = res.Key
	note.PageCount = readPageCount(s.logger, file)
	return nil
}

func (s *ChapterNoteService) deleteAsset(ctx context.Context, key, noteID string) {
	if key == "" || s.assets == nil {
		return
	}
	if err := s.assets.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete chapter note asset",
			zap.String("chapter_note_id", noteID),
			zap.String("storage_key", key),
			zap.Error(err),
		)
	}
}
