package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/export"
)

type examPaperReader interface {
	ListAll(ctx context.Context) ([]models.ExamPaper, error)
	GetByID(ctx context.Context, id string) (*models.ExamPaper, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type sheetRenderer interface {
	Render(sheet export.Sheet) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders exam papers as CSV catalogues and printable sheets.
type ExportService struct {
	papers examPaperReader
	csv    csvRenderer
	sheet  sheetRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(papers examPaperReader, logger *zap.Logger, csv csvRenderer, sheet sheetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if sheet == nil {
		sheet = export.NewSheetExporter()
	}
	return &ExportService{papers: papers, csv: csv, sheet: sheet, logger: logger, now: time.Now}
}

var catalogHeaders = []string{"ID", "Title", "Subject", "Year", "Exam Year", "Exam Type", "Questions", "Images", "Pages", "Downloads", "Published", "PDF URL", "Created At"}

// PaperCatalog renders every exam paper as a CSV row.
func (s *ExportService) PaperCatalog(ctx context.Context) (*ExportFile, error) {
	papers, err := s.papers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past questions")
	}
	rows := make([]map[string]string, 0, len(papers))
	for _, p := range papers {
		images := len(p.Images)
		for _, q := range p.Questions {
			images += len(q.Images)
		}
		rows = append(rows, map[string]string{
			"ID":         p.ID,
			"Title":      p.Title,
			"Subject":    p.SubjectCode,
			"Year":       string(p.YearSlug),
			"Exam Year":  p.ExamYear,
			"Exam Type":  string(p.ExamType),
			"Questions":  fmt.Sprintf("%d", len(p.Questions)),
			"Images":     fmt.Sprintf("%d", images),
			"Pages":      fmt.Sprintf("%d", p.PageCount),
			"Downloads":  fmt.Sprintf("%d", p.DownloadCount),
			"Published":  fmt.Sprintf("%t", p.Published),
			"PDF URL":    p.PDFURL,
			"Created At": p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	payload, err := s.csv.Render(export.Dataset{Headers: catalogHeaders, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render catalogue")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("past-questions_%s.csv", s.now().UTC().Format("20060102_150405")),
		ContentType: "text/csv",
		Data:        payload,
	}, nil
}

// PrintSheet renders one exam paper's questions as a PDF.
func (s *ExportService) PrintSheet(ctx context.Context, id string) (*ExportFile, error) {
	paper, err := s.papers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "past question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load past question")
	}

	sheet := export.Sheet{
		Title:    paper.Title,
		Subtitle: fmt.Sprintf("%s · %s year · %s %s", paper.SubjectCode, paper.YearSlug, paper.ExamType, paper.ExamYear),
		Intro:    paper.Description,
	}
	for _, q := range paper.Questions {
		item := export.SheetItem{Number: q.Number, Content: q.Content}
		for _, img := range q.Images {
			item.Figures = append(item.Figures, img.URL)
		}
		sheet.Items = append(sheet.Items, item)
	}
	if len(sheet.Items) == 0 && strings.TrimSpace(paper.QuestionContent) != "" {
		sheet.Items = append(sheet.Items, export.SheetItem{Content: paper.QuestionContent})
	}
	if len(paper.Images) > 0 {
		general := export.SheetItem{Number: "Figures"}
		for _, img := range paper.Images {
			general.Figures = append(general.Figures, img.URL)
		}
		sheet.Items = append(sheet.Items, general)
	}

	payload, err := s.sheet.Render(sheet)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render question sheet")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s_%s.pdf", storageSafe(paper.SubjectCode), storageSafe(paper.ExamYear), storageSafe(string(paper.ExamType))),
		ContentType: "application/pdf",
		Data:        payload,
	}, nil
}

func storageSafe(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(strings.ToLower(raw))
	if len(result) > 60 {
		return result[:60]
	}
	return result
}
