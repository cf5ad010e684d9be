package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/internal/repository"
	"github.com/sefazor/eventpapers-backend/pkg/pdf"
)

const (
	csvPdfID     = "pdf_id"
	csvTitle     = "title"
	csvAuthors   = "authors"
	csvArea      = "area"
	csvIsIgnored = "is_ignored"
)

type PaperService struct {
	paperRepo PaperRepository
	eventRepo EventRepository
	log       *zap.Logger
}

func NewPaperService(paperRepo PaperRepository, eventRepo EventRepository, log *zap.Logger) *PaperService {
	return &PaperService{
		paperRepo: paperRepo,
		eventRepo: eventRepo,
		log:       log.Named("paper_service"),
	}
}

func (s *PaperService) GetPapers(ctx context.Context, page models.Page) (*models.PapersPaginatedResponse, error) {
	papers, total, err := s.paperRepo.List(ctx, page.Offset(), page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}

	items := make([]models.PaperResponse, 0, len(papers))
	for i := range papers {
		items = append(items, models.NewPaperResponse(&papers[i]))
	}
	return &models.PapersPaginatedResponse{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(total),
	}, nil
}

// BatchUpdatePapers applies paper metadata from a CSV file with a header row.
// Only pdf_id is mandatory; absent columns leave the field untouched.
func (s *PaperService) BatchUpdatePapers(ctx context.Context, eventID uint, file Upload) ([]models.BatchPapersResponse, error) {
	if !pdf.IsCSV(file.Filename, file.Content) {
		return nil, apperror.UnsupportedMediaType("The file must be a csv file")
	}
	if _, err := getEvent(ctx, s.eventRepo, eventID); err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Content, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperror.BadRequest("Invalid csv file: %v", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[csvPdfID]; !ok {
		return nil, apperror.BadRequest("The csv file must have a %s column", csvPdfID)
	}

	var results []models.BatchPapersResponse
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperror.BadRequest("Invalid csv file: %v", err)
		}
		results = append(results, s.updateRow(ctx, eventID, columns, record))
	}

	s.log.Info("papers batch updated", zap.Uint("event_id", eventID), zap.Int("rows", len(results)))
	return results, nil
}

func (s *PaperService) updateRow(ctx context.Context, eventID uint, columns map[string]int, record []string) models.BatchPapersResponse {
	field := func(name string) (string, bool) {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	id, _ := field(csvPdfID)
	result := models.BatchPapersResponse{PdfID: id}
	if id == "" {
		result.Status = http.StatusBadRequest
		result.Detail = "pdf_id is required"
		return result
	}

	paper, err := s.paperRepo.GetByPdfID(ctx, eventID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			result.Status = http.StatusNotFound
			result.Detail = "Paper not found"
			return result
		}
		result.Status = http.StatusInternalServerError
		result.Detail = err.Error()
		return result
	}

	for name, dst := range map[string]**string{
		csvTitle:   &paper.Title,
		csvAuthors: &paper.Authors,
		csvArea:    &paper.Area,
	} {
		if value, ok := field(name); ok {
			*dst = optional(value)
		}
	}
	if value, ok := field(csvIsIgnored); ok {
		if value == "" {
			paper.IsIgnored = nil
		} else {
			ignored, err := strconv.ParseBool(value)
			if err != nil {
				result.Status = http.StatusBadRequest
				result.Detail = fmt.Sprintf("invalid is_ignored value %q", value)
				return result
			}
			paper.IsIgnored = &ignored
		}
	}

	if err := s.paperRepo.Update(ctx, paper); err != nil {
		result.Status = http.StatusInternalServerError
		result.Detail = err.Error()
		return result
	}

	result.Status = http.StatusOK
	return result
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
