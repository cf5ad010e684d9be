package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/sefazor/eventpapers-backend/internal/config"
	"github.com/sefazor/eventpapers-backend/internal/handler"
	"github.com/sefazor/eventpapers-backend/internal/metrics"
	"github.com/sefazor/eventpapers-backend/internal/repository"
	"github.com/sefazor/eventpapers-backend/internal/service"
	"github.com/sefazor/eventpapers-backend/pkg/database"
	"github.com/sefazor/eventpapers-backend/pkg/storage"
	"github.com/sefazor/eventpapers-backend/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:          "eventpapers",
		Short:        "Events and papers backend",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(configPath)
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// bootstrap loads config, logger and database shared by every command.
func bootstrap(configPath string) (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.NewDatabase(cfg.Database.URL, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func runMigrate(configPath string) error {
	_, log, db, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := database.RunMigrations(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, log, db, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	objectStorage, err := storage.NewS3Storage(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	paperRepo := repository.NewPaperRepository(db)

	// Services
	fileHandlerService := service.NewFileHandlerService(objectStorage, log)
	eventService := service.NewEventService(eventRepo, cfg.Storage.PublicURL, log)
	summaryService := service.NewSummaryService(paperRepo, eventRepo, log)
	mergedPapersService := service.NewMergedPapersService(fileHandlerService, eventRepo, paperRepo, log)
	analService := service.NewAnalService(fileHandlerService, eventRepo, log)
	paperService := service.NewPaperService(paperRepo, eventRepo, log)

	validator := utils.NewValidator()

	// Handlers
	eventHandler := handler.NewEventHandler(
		eventService,
		summaryService,
		fileHandlerService,
		mergedPapersService,
		analService,
		metrics.NewArtifacts(prometheus.DefaultRegisterer),
		validator,
		log,
	)
	paperHandler := handler.NewPaperHandler(paperService, validator, log)

	app := handler.NewApp(cfg.Server, log, eventHandler, paperHandler)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr()))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
