package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/pkg/pdf"
)

const (
	MergedPapersFilename = "merged_papers.pdf"

	// maxArchiveEntrySize bounds a single decompressed paper.
	maxArchiveEntrySize = 200 << 20
)

type MergedPapersResponse struct {
	PutObjectResponse
	// Papers are not persisted yet; EventService records them with the key.
	Papers []models.Paper
}

type MergedPapersService struct {
	fileHandler *FileHandlerService
	eventRepo   EventRepository
	paperRepo   PaperRepository
	log         *zap.Logger
}

func NewMergedPapersService(
	fileHandler *FileHandlerService,
	eventRepo EventRepository,
	paperRepo PaperRepository,
	log *zap.Logger,
) *MergedPapersService {
	return &MergedPapersService{
		fileHandler: fileHandler,
		eventRepo:   eventRepo,
		paperRepo:   paperRepo,
		log:         log.Named("merged_papers_service"),
	}
}

type paperDocument struct {
	pdfID   string
	content []byte
	pages   int
}

// MergePDFFiles accepts a single PDF or a ZIP archive of PDFs, merges them in
// archive order and stores the result in the event folder.
func (s *MergedPapersService) MergePDFFiles(ctx context.Context, eventID uint, file Upload) (*MergedPapersResponse, error) {
	if file.Filename == "" {
		return nil, apperror.BadRequest("The file must have a name")
	}
	isPDF := pdf.IsPDF(file.Content)
	if !isPDF && !pdf.IsZIP(file.Filename, file.Content) {
		return nil, apperror.UnsupportedMediaType("The file must be a pdf or zip file")
	}

	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	if event.PapersMerged() {
		return nil, apperror.BadRequest("Papers already merged for this event")
	}

	count, err := s.paperRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count papers of event %d: %w", eventID, err)
	}
	if count > 0 {
		return nil, apperror.Conflict("Papers already created for this event")
	}

	start := time.Now()
	var docs []paperDocument
	if isPDF {
		docs, err = s.singleDocument(file)
	} else {
		docs, err = s.archiveDocuments(eventID, file.Content)
	}
	if err != nil {
		return nil, apperror.Processing(err, "An error occurred while processing the file")
	}

	contents := make([][]byte, 0, len(docs))
	papers := make([]models.Paper, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.content)
		papers = append(papers, models.Paper{
			PdfID:      doc.pdfID,
			TotalPages: doc.pages,
			EventID:    eventID,
		})
	}

	merged, err := pdf.Merge(contents)
	if err != nil {
		return nil, apperror.Processing(err, "An error occurred while processing the file")
	}
	s.log.Info("papers merged",
		zap.Uint("event_id", eventID),
		zap.Int("papers", len(papers)),
		zap.Duration("elapsed", time.Since(start)))

	put, err := s.fileHandler.PutObject(ctx, merged, event.S3FolderName, artifactFilename(MergedPapersFilename))
	if err != nil {
		return nil, apperror.Internal(err, "An error occurred while processing the file")
	}

	return &MergedPapersResponse{PutObjectResponse: *put, Papers: papers}, nil
}

func pdfID(filename string) string {
	base := path.Base(filename)
	return strings.TrimSuffix(base, path.Ext(base))
}

func (s *MergedPapersService) singleDocument(file Upload) ([]paperDocument, error) {
	pages, err := pdf.PageCount(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Filename, err)
	}
	return []paperDocument{{pdfID: pdfID(file.Filename), content: file.Content, pages: pages}}, nil
}

func (s *MergedPapersService) archiveDocuments(eventID uint, content []byte) ([]paperDocument, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	seen := make(map[string]bool)
	docs := make([]paperDocument, 0, len(archive.File))
	start := time.Now()
	for i, entry := range archive.File {
		if !isPaperEntry(entry) {
			continue
		}
		id := pdfID(entry.Name)
		if seen[id] {
			s.log.Warn("duplicate paper skipped", zap.Uint("event_id", eventID), zap.String("entry", entry.Name))
			continue
		}

		data, err := readEntry(entry)
		if err != nil {
			return nil, err
		}
		pages, err := pdf.PageCount(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name, err)
		}

		seen[id] = true
		docs = append(docs, paperDocument{pdfID: id, content: data, pages: pages})
		s.log.Info("paper registered",
			zap.Uint("event_id", eventID),
			zap.String("pdf_id", id),
			zap.Int("current", i+1),
			zap.Int("total", len(archive.File)),
			zap.Duration("elapsed", time.Since(start)))
	}

	if len(docs) == 0 {
		return nil, pdf.ErrNoDocuments
	}
	return docs, nil
}

func isPaperEntry(entry *zip.File) bool {
	if entry.FileInfo().IsDir() {
		return false
	}
	name := entry.Name
	if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), "._") {
		return false
	}
	return strings.EqualFold(path.Ext(name), ".pdf")
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxArchiveEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Name, err)
	}
	if len(data) > maxArchiveEntrySize {
		return nil, fmt.Errorf("%s exceeds %d bytes", entry.Name, maxArchiveEntrySize)
	}
	return data, nil
}
