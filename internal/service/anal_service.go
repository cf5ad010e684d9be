package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/pkg/pdf"
)

const AnalFilename = "anal.pdf"

// AnalService builds the proceedings volume of an event: the uploaded cover,
// then the stored summary and merged papers when they exist.
type AnalService struct {
	fileHandler *FileHandlerService
	eventRepo   EventRepository
	log         *zap.Logger
}

func NewAnalService(fileHandler *FileHandlerService, eventRepo EventRepository, log *zap.Logger) *AnalService {
	return &AnalService{
		fileHandler: fileHandler,
		eventRepo:   eventRepo,
		log:         log.Named("anal_service"),
	}
}

func (s *AnalService) CreateAnalPDF(ctx context.Context, eventID uint, cover Upload) (*PutObjectResponse, error) {
	if !pdf.IsPDF(cover.Content) {
		return nil, apperror.UnsupportedMediaType("The file must be a pdf file")
	}

	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}

	parts, err := s.storedParts(ctx, event)
	if err != nil {
		return nil, apperror.Internal(err, "An error occurred while processing the file")
	}

	docs := [][]byte{cover.Content}
	for _, part := range parts {
		if part != nil {
			docs = append(docs, part)
		}
	}

	anal, err := pdf.Merge(docs)
	if err != nil {
		return nil, apperror.Processing(err, "An error occurred while processing the file")
	}

	put, err := s.fileHandler.PutObject(ctx, anal, event.S3FolderName, artifactFilename(AnalFilename))
	if err != nil {
		return nil, apperror.Internal(err, "An error occurred while processing the file")
	}

	s.log.Info("anal created",
		zap.Uint("event_id", eventID),
		zap.Int("parts", len(docs)),
		zap.String("key", put.KeyFilename))
	return put, nil
}

// storedParts downloads summary and merged papers concurrently, in that order.
func (s *AnalService) storedParts(ctx context.Context, event *models.Event) ([][]byte, error) {
	keys := []*string{event.SummaryFilename, event.MergedPapersFilename}
	parts := make([][]byte, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		if key == nil || *key == "" {
			continue
		}
		i, key := i, *key
		g.Go(func() error {
			data, err := s.fileHandler.GetObject(gctx, key)
			if err != nil {
				return fmt.Errorf("get %s: %w", key, err)
			}
			parts[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}
