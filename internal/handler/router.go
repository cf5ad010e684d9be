package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/config"
	"github.com/sefazor/eventpapers-backend/internal/metrics"
	"github.com/sefazor/eventpapers-backend/internal/middleware"
	"github.com/sefazor/eventpapers-backend/internal/models"
)

type Registrar interface {
	Register(router fiber.Router)
}

// NewApp builds the fiber app with global middleware and the given route groups.
func NewApp(cfg config.ServerConfig, log *zap.Logger, registrars ...Registrar) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "eventpapers",
		BodyLimit:    cfg.BodyLimitMB << 20,
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log.Named("http")))
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodPatch,
		}, ", "),
	}))
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(models.HealthResponse{Status: "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	for _, r := range registrars {
		r.Register(app)
	}

	return app
}
