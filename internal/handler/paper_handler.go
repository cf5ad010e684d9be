package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/internal/service"
	"github.com/sefazor/eventpapers-backend/pkg/utils"
)

type PaperService interface {
	GetPapers(ctx context.Context, page models.Page) (*models.PapersPaginatedResponse, error)
	BatchUpdatePapers(ctx context.Context, eventID uint, file service.Upload) ([]models.BatchPapersResponse, error)
}

type PaperHandler struct {
	paperService PaperService
	validator    *utils.Validator
	log          *zap.Logger
}

func NewPaperHandler(paperService PaperService, validator *utils.Validator, log *zap.Logger) *PaperHandler {
	return &PaperHandler{
		paperService: paperService,
		validator:    validator,
		log:          log.Named("paper_handler"),
	}
}

func (h *PaperHandler) Register(router fiber.Router) {
	papers := router.Group("/papers")
	papers.Get("/", h.GetPapers)
	papers.Patch("/upload_csv/events/:event_id", h.BatchUpdatePapers)
}

func (h *PaperHandler) GetPapers(c *fiber.Ctx) error {
	page, err := pageQuery(c, h.validator)
	if err != nil {
		return writeError(c, h.log, err)
	}

	papers, err := h.paperService.GetPapers(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(papers)
}

func (h *PaperHandler) BatchUpdatePapers(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	file, err := readUpload(c, "file")
	if err != nil {
		return writeError(c, h.log, err)
	}

	results, err := h.paperService.BatchUpdatePapers(c.UserContext(), eventID, file)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if results == nil {
		results = []models.BatchPapersResponse{}
	}
	return c.Status(fiber.StatusMultiStatus).JSON(results)
}
