package service

import (
	"context"
	"time"

	"github.com/sefazor/eventpapers-backend/internal/models"
)

// EventRepository is implemented by repository.EventRepository.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	FindByName(ctx context.Context, name string) ([]models.Event, error)
	FindByInitialDate(ctx context.Context, date time.Time) ([]models.Event, error)
	FindByFinalDate(ctx context.Context, date time.Time) ([]models.Event, error)
	List(ctx context.Context, offset, limit int) ([]models.Event, int64, error)
	UpdateFilename(ctx context.Context, id uint, column, key string) (*models.Event, error)
	RecordMergedPapers(ctx context.Context, id uint, key string, papers []models.Paper) (*models.Event, error)
}

// PaperRepository is implemented by repository.PaperRepository.
type PaperRepository interface {
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
	GetByEventID(ctx context.Context, eventID uint) ([]models.Paper, error)
	GetByPdfID(ctx context.Context, eventID uint, pdfID string) (*models.Paper, error)
	List(ctx context.Context, offset, limit int) ([]models.Paper, int64, error)
	Update(ctx context.Context, paper *models.Paper) error
}

// Upload is a multipart file already read into memory.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}
