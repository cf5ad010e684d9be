package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/internal/repository"
	"github.com/sefazor/eventpapers-backend/pkg/utils"
)

const eventsFolder = "events"

type EventService struct {
	eventRepo EventRepository
	publicURL string
	log       *zap.Logger
}

func NewEventService(eventRepo EventRepository, publicURL string, log *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		publicURL: publicURL,
		log:       log.Named("event_service"),
	}
}

func (s *EventService) toResponses(events []models.Event) []models.EventResponse {
	out := make([]models.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, models.NewEventResponse(&events[i], s.publicURL))
	}
	return out
}

func (s *EventService) toResponse(event *models.Event) *models.EventResponse {
	resp := models.NewEventResponse(event, s.publicURL)
	return &resp
}

func parseDate(field, raw string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, apperror.Validation("%s must be a date in YYYY-MM-DD format", field)
	}
	return date, nil
}

func (s *EventService) GetEventsByName(ctx context.Context, name string) ([]models.EventResponse, error) {
	events, err := s.eventRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find events by name: %w", err)
	}
	return s.toResponses(events), nil
}

func (s *EventService) GetEventsByInitialDate(ctx context.Context, initialDate string) ([]models.EventResponse, error) {
	date, err := parseDate("initial_date", initialDate)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.FindByInitialDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("find events by initial date: %w", err)
	}
	return s.toResponses(events), nil
}

func (s *EventService) GetEventsByFinalDate(ctx context.Context, finalDate string) ([]models.EventResponse, error) {
	date, err := parseDate("final_date", finalDate)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.FindByFinalDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("find events by final date: %w", err)
	}
	return s.toResponses(events), nil
}

func (s *EventService) CreateEvent(ctx context.Context, req models.EventDTO) (*models.EventResponse, error) {
	initialDate, err := parseDate("initial_date", req.InitialDate)
	if err != nil {
		return nil, err
	}
	finalDate, err := parseDate("final_date", req.FinalDate)
	if err != nil {
		return nil, err
	}
	if finalDate.Before(initialDate) {
		return nil, apperror.Validation("final_date must not be before initial_date")
	}

	event := &models.Event{
		Name:         req.Name,
		InitialDate:  initialDate,
		FinalDate:    finalDate,
		S3FolderName: folderName(req.Name),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info("event created", zap.Uint("event_id", event.ID), zap.String("folder", event.S3FolderName))
	return s.toResponse(event), nil
}

// folderName is unique per event even when names collide.
func folderName(name string) string {
	slug := utils.Slugify(name)
	if slug == "" {
		slug = "event"
	}
	return fmt.Sprintf("%s/%s-%s", eventsFolder, slug, uuid.NewString()[:8])
}

func (s *EventService) GetEvents(ctx context.Context, page models.Page) (*models.EventsPaginatedResponse, error) {
	events, total, err := s.eventRepo.List(ctx, page.Offset(), page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &models.EventsPaginatedResponse{
		Items:      s.toResponses(events),
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(total),
	}, nil
}

// GetEvent returns the stored event or a NotFound error.
func (s *EventService) GetEvent(ctx context.Context, eventID uint) (*models.Event, error) {
	return getEvent(ctx, s.eventRepo, eventID)
}

func getEvent(ctx context.Context, repo EventRepository, eventID uint) (*models.Event, error) {
	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Event with id %d not found", eventID)
		}
		return nil, fmt.Errorf("get event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *EventService) updateFilename(ctx context.Context, eventID uint, column, key string) (*models.EventResponse, error) {
	event, err := s.eventRepo.UpdateFilename(ctx, eventID, column, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Event with id %d not found", eventID)
		}
		return nil, fmt.Errorf("update %s of event %d: %w", column, eventID, err)
	}
	s.log.Info("artifact recorded", zap.Uint("event_id", eventID), zap.String("column", column), zap.String("key", key))
	return s.toResponse(event), nil
}

func (s *EventService) UpdateSummaryFilename(ctx context.Context, eventID uint, key string) (*models.EventResponse, error) {
	return s.updateFilename(ctx, eventID, repository.ColumnSummaryFilename, key)
}

func (s *EventService) UpdateAnalFilename(ctx context.Context, eventID uint, key string) (*models.EventResponse, error) {
	return s.updateFilename(ctx, eventID, repository.ColumnAnalFilename, key)
}

// UpdateMergedPapersFilename records the merged key together with the papers
// found while merging.
func (s *EventService) UpdateMergedPapersFilename(ctx context.Context, eventID uint, key string, papers []models.Paper) (*models.EventResponse, error) {
	event, err := s.eventRepo.RecordMergedPapers(ctx, eventID, key, papers)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound("Event with id %d not found", eventID)
		case errors.Is(err, repository.ErrAlreadyMerged):
			return nil, apperror.BadRequest("Papers already merged for this event")
		}
		return nil, fmt.Errorf("record merged papers of event %d: %w", eventID, err)
	}
	s.log.Info("merged papers recorded",
		zap.Uint("event_id", eventID),
		zap.String("key", key),
		zap.Int("papers", len(papers)))
	return s.toResponse(event), nil
}
