// Package app wires configuration, storage, clients, and services into the
// shared application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stockpilot/stockpilot/internal/clients/yahoo"
	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/services/analysis"
	"github.com/stockpilot/stockpilot/internal/services/portfolio"
	"github.com/stockpilot/stockpilot/internal/services/scan"
	"github.com/stockpilot/stockpilot/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	FeedClient       interfaces.PriceFeedClient
	AnalysisService  interfaces.AnalysisService
	ScanService      interfaces.ScanService
	PortfolioService interfaces.PortfolioService
	StartupTime      time.Time

	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("SP_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stockpilot.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stockpilot.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	feedClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Feed.BaseURL),
		yahoo.WithRateLimit(config.Feed.RateLimit),
		yahoo.WithTimeout(config.Feed.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	analysisService := analysis.NewService(storageManager, feedClient, config, logger)
	scanService := scan.NewService(storageManager, feedClient, config, logger)
	portfolioService := portfolio.NewService(storageManager, analysisService, logger)

	app := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		FeedClient:       feedClient,
		AnalysisService:  analysisService,
		ScanService:      scanService,
		PortfolioService: portfolioService,
		StartupTime:      time.Now(),
	}

	app.scheduler = NewScheduler(app)

	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.GetVersion()).
		Msg("Application initialized")

	return app, nil
}

// StartScheduler begins the cron-driven morning scan.
func (a *App) StartScheduler() error {
	return a.scheduler.Start()
}

// Close shuts down background jobs and storage.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	return a.Storage.Close()
}
