package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/metrics"
	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/internal/service"
	"github.com/sefazor/eventpapers-backend/pkg/utils"
)

const (
	artifactSummary      = "summary"
	artifactMergedPapers = "merged_papers"
	artifactAnal         = "anal"
)

type EventService interface {
	GetEventsByName(ctx context.Context, name string) ([]models.EventResponse, error)
	GetEventsByInitialDate(ctx context.Context, initialDate string) ([]models.EventResponse, error)
	GetEventsByFinalDate(ctx context.Context, finalDate string) ([]models.EventResponse, error)
	CreateEvent(ctx context.Context, req models.EventDTO) (*models.EventResponse, error)
	GetEvents(ctx context.Context, page models.Page) (*models.EventsPaginatedResponse, error)
	UpdateSummaryFilename(ctx context.Context, eventID uint, key string) (*models.EventResponse, error)
	UpdateMergedPapersFilename(ctx context.Context, eventID uint, key string, papers []models.Paper) (*models.EventResponse, error)
	UpdateAnalFilename(ctx context.Context, eventID uint, key string) (*models.EventResponse, error)
}

type SummaryService interface {
	CreateSummaryPDF(ctx context.Context, eventID uint) (*service.SummaryPDFResponse, error)
}

type FileHandlerService interface {
	PutObject(ctx context.Context, data []byte, folder, filename string) (*service.PutObjectResponse, error)
	DeleteObject(ctx context.Context, key string) error
}

type MergedPapersService interface {
	MergePDFFiles(ctx context.Context, eventID uint, file service.Upload) (*service.MergedPapersResponse, error)
}

type AnalService interface {
	CreateAnalPDF(ctx context.Context, eventID uint, cover service.Upload) (*service.PutObjectResponse, error)
}

type EventHandler struct {
	eventService        EventService
	summaryService      SummaryService
	fileHandlerService  FileHandlerService
	mergedPapersService MergedPapersService
	analService         AnalService
	metrics             *metrics.Artifacts
	validator           *utils.Validator
	log                 *zap.Logger
}

func NewEventHandler(
	eventService EventService,
	summaryService SummaryService,
	fileHandlerService FileHandlerService,
	mergedPapersService MergedPapersService,
	analService AnalService,
	artifactMetrics *metrics.Artifacts,
	validator *utils.Validator,
	log *zap.Logger,
) *EventHandler {
	return &EventHandler{
		eventService:        eventService,
		summaryService:      summaryService,
		fileHandlerService:  fileHandlerService,
		mergedPapersService: mergedPapersService,
		analService:         analService,
		metrics:             artifactMetrics,
		validator:           validator,
		log:                 log.Named("event_handler"),
	}
}

func (h *EventHandler) Register(router fiber.Router) {
	events := router.Group("/events")
	events.Get("/name", h.GetEventsByName)
	events.Get("/dateinitial", h.GetEventsByInitialDate)
	events.Get("/datefinal", h.GetEventsByFinalDate)
	events.Post("/", h.CreateEvent)
	events.Get("/", h.GetEvents)
	events.Patch("/:event_id/summary", h.UpdateSummaryFilename)
	events.Patch("/:event_id/merged-papers", h.UpdateMergedPapersFilename)
	events.Patch("/:event_id/anal", h.UpdateAnalFilename)
}

type eventQuery func(ctx context.Context, value string) ([]models.EventResponse, error)

func (h *EventHandler) queryEvents(c *fiber.Ctx, param string, query eventQuery) error {
	value, err := requiredQuery(c, param)
	if err != nil {
		return writeError(c, h.log, err)
	}

	events, err := query(c.UserContext(), value)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if len(events) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Event not found"))
	}
	return c.JSON(events)
}

func (h *EventHandler) GetEventsByName(c *fiber.Ctx) error {
	return h.queryEvents(c, "name", h.eventService.GetEventsByName)
}

func (h *EventHandler) GetEventsByInitialDate(c *fiber.Ctx) error {
	return h.queryEvents(c, "initial_date", h.eventService.GetEventsByInitialDate)
}

func (h *EventHandler) GetEventsByFinalDate(c *fiber.Ctx) error {
	return h.queryEvents(c, "final_date", h.eventService.GetEventsByFinalDate)
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.EventDTO
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	event, err := h.eventService.CreateEvent(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) GetEvents(c *fiber.Ctx) error {
	page, err := pageQuery(c, h.validator)
	if err != nil {
		return writeError(c, h.log, err)
	}

	events, err := h.eventService.GetEvents(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(events)
}

func (h *EventHandler) UpdateSummaryFilename(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	ctx := c.UserContext()

	summary, err := h.summaryService.CreateSummaryPDF(ctx, eventID)
	if err != nil {
		return h.artifactFailed(c, artifactSummary, err)
	}

	stored, err := h.fileHandlerService.PutObject(ctx, summary.SummaryPDF, summary.SummaryPDFFolder, summary.SummaryPDFFilename)
	if err != nil {
		return h.artifactFailed(c, artifactSummary, apperror.Internal(err, "An error occurred while storing the summary"))
	}

	event, err := h.eventService.UpdateSummaryFilename(ctx, eventID, stored.KeyFilename)
	if err != nil {
		h.compensate(ctx, artifactSummary, stored)
		return h.artifactFailed(c, artifactSummary, err)
	}

	h.metrics.Run(artifactSummary, metrics.OutcomeSuccess)
	return c.JSON(event)
}

func (h *EventHandler) UpdateMergedPapersFilename(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	file, err := readUpload(c, "file")
	if err != nil {
		return writeError(c, h.log, err)
	}
	ctx := c.UserContext()

	merged, err := h.mergedPapersService.MergePDFFiles(ctx, eventID, file)
	if err != nil {
		return h.artifactFailed(c, artifactMergedPapers, err)
	}

	event, err := h.eventService.UpdateMergedPapersFilename(ctx, eventID, merged.KeyFilename, merged.Papers)
	if err != nil {
		h.compensate(ctx, artifactMergedPapers, &merged.PutObjectResponse)
		return h.artifactFailed(c, artifactMergedPapers, err)
	}

	h.metrics.Run(artifactMergedPapers, metrics.OutcomeSuccess)
	return c.JSON(event)
}

func (h *EventHandler) UpdateAnalFilename(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	cover, err := readUpload(c, "cover")
	if err != nil {
		return writeError(c, h.log, err)
	}
	ctx := c.UserContext()

	anal, err := h.analService.CreateAnalPDF(ctx, eventID, cover)
	if err != nil {
		return h.artifactFailed(c, artifactAnal, err)
	}

	event, err := h.eventService.UpdateAnalFilename(ctx, eventID, anal.KeyFilename)
	if err != nil {
		h.compensate(ctx, artifactAnal, anal)
		return h.artifactFailed(c, artifactAnal, err)
	}

	h.metrics.Run(artifactAnal, metrics.OutcomeSuccess)
	return c.JSON(event)
}

func (h *EventHandler) artifactFailed(c *fiber.Ctx, artifact string, err error) error {
	h.metrics.Run(artifact, metrics.OutcomeFailure)
	return writeError(c, h.log, err)
}

// compensate removes an object whose key could not be recorded. Every run
// stores under its own key, so the object belongs to this request only.
func (h *EventHandler) compensate(ctx context.Context, artifact string, stored *service.PutObjectResponse) {
	ctx = context.WithoutCancel(ctx)
	if err := h.fileHandlerService.DeleteObject(ctx, stored.KeyFilename); err != nil {
		h.log.Error("orphan artifact left in storage",
			zap.String("artifact", artifact),
			zap.String("key", stored.KeyFilename),
			zap.Error(err))
		return
	}
	h.metrics.Compensated(artifact)
	h.log.Warn("stored artifact removed after record failure",
		zap.String("artifact", artifact),
		zap.String("key", stored.KeyFilename))
}
