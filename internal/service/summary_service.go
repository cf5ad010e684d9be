package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
)

const SummaryFilename = "summary.pdf"

type SummaryPDFResponse struct {
	SummaryPDF         []byte
	SummaryPDFFolder   string
	SummaryPDFFilename string
}

type SummaryService struct {
	paperRepo PaperRepository
	eventRepo EventRepository
	log       *zap.Logger
}

func NewSummaryService(paperRepo PaperRepository, eventRepo EventRepository, log *zap.Logger) *SummaryService {
	return &SummaryService{
		paperRepo: paperRepo,
		eventRepo: eventRepo,
		log:       log.Named("summary_service"),
	}
}

type summaryEntry struct {
	Title     string
	Authors   string
	Area      string
	StartPage int
}

// summaryEntries lists non-ignored papers with their first page inside the
// merged volume. Ignored papers are not listed but still take up pages.
func summaryEntries(papers []models.Paper) []summaryEntry {
	entries := make([]summaryEntry, 0, len(papers))
	page := 1
	for i := range papers {
		p := &papers[i]
		if !p.Ignored() {
			entry := summaryEntry{Title: p.DisplayTitle(), StartPage: page}
			if p.Authors != nil {
				entry.Authors = *p.Authors
			}
			if p.Area != nil {
				entry.Area = *p.Area
			}
			entries = append(entries, entry)
		}
		page += p.TotalPages
	}
	return entries
}

func (s *SummaryService) CreateSummaryPDF(ctx context.Context, eventID uint) (*SummaryPDFResponse, error) {
	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}

	papers, err := s.paperRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get papers of event %d: %w", eventID, err)
	}

	entries := summaryEntries(papers)
	if len(entries) == 0 {
		return nil, apperror.NotFound("No papers found for event with id %d", eventID)
	}

	doc, err := renderSummary(event, entries)
	if err != nil {
		return nil, apperror.Internal(err, "An error occurred while creating the summary")
	}

	s.log.Info("summary created",
		zap.Uint("event_id", eventID),
		zap.Int("entries", len(entries)),
		zap.Int("size", len(doc)))

	return &SummaryPDFResponse{
		SummaryPDF:         doc,
		SummaryPDFFolder:   event.S3FolderName,
		SummaryPDFFilename: artifactFilename(SummaryFilename),
	}, nil
}

func renderSummary(event *models.Event, entries []summaryEntry) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle(event.Name+" - Summary", true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 10, strconv.Itoa(doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 8, tr(event.Name), "", "C", false)
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 8, fmt.Sprintf("%s - %s",
		event.InitialDate.Format(models.DateLayout),
		event.FinalDate.Format(models.DateLayout)), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, "Summary", "B", 1, "L", false, 0, "")
	doc.Ln(4)

	const pageColumn = 15.0
	width, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	textWidth := width - left - right - pageColumn

	for _, entry := range entries {
		y := doc.GetY()
		doc.SetFont("Helvetica", "B", 11)
		doc.SetXY(left+textWidth, y)
		doc.CellFormat(pageColumn, 6, strconv.Itoa(entry.StartPage), "", 0, "R", false, 0, "")
		doc.SetXY(left, y)
		doc.MultiCell(textWidth, 6, tr(entry.Title), "", "L", false)

		if entry.Authors != "" {
			doc.SetFont("Helvetica", "I", 10)
			doc.MultiCell(textWidth, 5, tr(entry.Authors), "", "L", false)
		}
		if entry.Area != "" {
			doc.SetFont("Helvetica", "", 9)
			doc.MultiCell(textWidth, 5, tr(entry.Area), "", "L", false)
		}
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	return buf.Bytes(), nil
}
