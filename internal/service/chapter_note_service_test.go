package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
)

type chapterNoteRepoStub struct {
	notes     map[string]*models.ChapterNote
	created   int
	createErr error
}

func newChapterNoteRepoStub(notes ...*models.ChapterNote) *chapterNoteRepoStub {
	repo := &chapterNoteRepoStub{notes: map[string]*models.ChapterNote{}}
	for _, n := range notes {
		repo.notes[n.ID] = n
	}
	return repo
}

func (r *chapterNoteRepoStub) List(ctx context.Context, filter models.ChapterNoteFilter) ([]models.ChapterNote, error) {
	var out []models.ChapterNote
	for _, n := range r.notes {
		if filter.Published != nil && n.Published != *filter.Published {
			continue
		}
		if filter.SubjectCode != "" && n.SubjectCode != filter.SubjectCode {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *chapterNoteRepoStub) GetByID(ctx context.Context, id string) (*models.ChapterNote, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *n
	return &clone, nil
}

func (r *chapterNoteRepoStub) Create(ctx context.Context, note *models.ChapterNote) error {
	r.created++
	if r.createErr != nil {
		return r.createErr
	}
	note.ID = fmt.Sprintf("note-%d", r.created)
	clone := *note
	r.notes[note.ID] = &clone
	return nil
}

func (r *chapterNoteRepoStub) Update(ctx context.Context, note *models.ChapterNote) error {
	if _, ok := r.notes[note.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *note
	r.notes[note.ID] = &clone
	return nil
}

func (r *chapterNoteRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.notes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.notes, id)
	return nil
}

type chapterLookupStub map[string]bool

func (c chapterLookupStub) Exists(ctx context.Context, id string) (bool, error) {
	return c[id], nil
}

func noteFields() dto.ChapterNoteRequest {
	return dto.ChapterNoteRequest{
		Title:       strPtr("Kinematics notes"),
		SubjectCode: strPtr("phy101"),
		YearSlug:    strPtr("first"),
		ChapterID:   strPtr("ch-1"),
	}
}

func TestChapterNoteCreateUploadsPDF(t *testing.T) {
	repo := newChapterNoteRepoStub()
	assets := newAssetStoreStub()
	svc := NewChapterNoteService(repo, chapterLookupStub{"ch-1": true}, assets, nil)

	note, err := svc.Create(context.Background(), ChapterNoteSubmission{
		Fields: noteFields(),
		PDF:    &dto.FileUpload{Filename: "notes.pdf", ContentType: "application/pdf", Data: []byte("not really a pdf")},
	})
	require.NoError(t, err)
	assert.Equal(t, "PHY101", note.SubjectCode)
	assert.Equal(t, "chapter-notes/notes.pdf", note.StorageKey)
	assert.Equal(t, "https://cdn.test/chapter-notes/notes.pdf", note.PDFURL)
	assert.Equal(t, 0, note.PageCount)
	assert.True(t, note.Published)
}

func TestChapterNoteCreateValidation(t *testing.T) {
	repo := newChapterNoteRepoStub()
	assets := newAssetStoreStub()
	svc := NewChapterNoteService(repo, chapterLookupStub{"ch-1": true}, assets, nil)

	_, err := svc.Create(context.Background(), ChapterNoteSubmission{Fields: noteFields()})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	fields := noteFields()
	fields.PDFURL = strPtr("https://example.com/n.pdf")
	fields.ChapterID = strPtr("ch-missing")
	_, err = svc.Create(context.Background(), ChapterNoteSubmission{Fields: fields})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	fields = noteFields()
	fields.Title = nil
	_, err = svc.Create(context.Background(), ChapterNoteSubmission{Fields: fields})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Zero(t, repo.created)
	assert.Empty(t, assets.uploads)
}

func TestChapterNoteCreateRollsBackOnStoreFailure(t *testing.T) {
	repo := newChapterNoteRepoStub()
	repo.createErr = errors.New("db down")
	assets := newAssetStoreStub()
	svc := NewChapterNoteService(repo, chapterLookupStub{"ch-1": true}, assets, nil)

	_, err := svc.Create(context.Background(), ChapterNoteSubmission{
		Fields: noteFields(),
		PDF:    &dto.FileUpload{Filename: "notes.pdf", Data: []byte("x")},
	})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, []string{"chapter-notes/notes.pdf"}, assets.deletes)
}

func TestChapterNoteUpdateReplacesPDF(t *testing.T) {
	repo := newChapterNoteRepoStub(&models.ChapterNote{ID: "n1", Title: "Old", SubjectCode: "PHY101", YearSlug: models.YearFirst, ChapterID: "ch-1", StorageKey: "local-chapter-notes/old.pdf", Published: true})
	assets := newAssetStoreStub()
	svc := NewChapterNoteService(repo, chapterLookupStub{"ch-1": true}, assets, nil)

	published := false
	note, err := svc.Update(context.Background(), "n1", ChapterNoteSubmission{
		Fields: dto.ChapterNoteRequest{Title: strPtr("New"), Published: &published},
		PDF:    &dto.FileUpload{Filename: "new.pdf", Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, "New", note.Title)
	assert.False(t, note.Published)
	assert.Equal(t, "chapter-notes/new.pdf", note.StorageKey)
	assert.Equal(t, []string{"local-chapter-notes/old.pdf"}, assets.deletes)
}

func TestChapterNoteDeleteToleratesAssetFailure(t *testing.T) {
	repo := newChapterNoteRepoStub(&models.ChapterNote{ID: "n1", StorageKey: "chapter-notes/a.pdf"})
	assets := newAssetStoreStub()
	assets.deleteErr = errors.New("remote down")
	svc := NewChapterNoteService(repo, chapterLookupStub{}, assets, nil)

	require.NoError(t, svc.Delete(context.Background(), "n1"))
	assert.Empty(t, repo.notes)
	assert.ErrorIs(t, svc.Delete(context.Background(), "n1"), appErrors.ErrNotFound)
}

func TestChapterNoteListPublishedOnly(t *testing.T) {
	repo := newChapterNoteRepoStub(
		&models.ChapterNote{ID: "n1", SubjectCode: "PHY101", Published: true},
		&models.ChapterNote{ID: "n2", SubjectCode: "PHY101", Published: false},
	)
	svc := NewChapterNoteService(repo, chapterLookupStub{}, newAssetStoreStub(), nil)

	notes, err := svc.ListPublished(context.Background(), dto.ChapterNoteQuery{SubjectCode: "phy101"})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
}
