// Package app holds application components and dependency wiring.
package app

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/common"
	"github.com/ternarybob/macrocal/internal/interfaces"
	"github.com/ternarybob/macrocal/internal/pipeline"
	"github.com/ternarybob/macrocal/internal/services/scheduler"
	"github.com/ternarybob/macrocal/internal/sources"
	badgerstorage "github.com/ternarybob/macrocal/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	DB                  *badgerstorage.BadgerDB
	EventStorage        interfaces.EventStorage
	NotificationStorage interfaces.NotificationStorage

	SyncService *pipeline.Service
	Scheduler   interfaces.SchedulerService
}

// New wires storage, sources, pipeline and scheduler from configuration
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	db, err := badgerstorage.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	eventStorage := badgerstorage.NewEventStorage(db, logger)
	notificationStorage := badgerstorage.NewNotificationStorage(db, logger)

	feedClient := sources.NewFeedClient(config.Feed.BaseURL,
		sources.WithFeedHTTPClient(&http.Client{Timeout: config.Feed.RequestTimeout}),
		sources.WithFeedRateLimit(config.Feed.RateLimit),
		sources.WithFeedLogger(logger),
	)

	// Adapter order defines merge priority: scraped data beats the feed,
	// and both beat synthetic forward placeholders.
	adapters := []interfaces.CalendarSource{
		sources.NewMarketWatchAdapter(config.Calendar, logger),
		sources.NewFeedAdapter(feedClient, config.Feed.Currency, config.Feed.WindowDays, logger),
		sources.NewForwardAdapter(config.Forward, logger),
	}

	orchestrator := pipeline.NewOrchestrator(adapters, logger)
	syncService := pipeline.NewService(orchestrator, eventStorage, notificationStorage, logger)
	schedulerService := scheduler.NewService(syncService, config.Scheduler.Schedule, logger)

	return &App{
		Config:              config,
		Logger:              logger,
		DB:                  db,
		EventStorage:        eventStorage,
		NotificationStorage: notificationStorage,
		SyncService:         syncService,
		Scheduler:           schedulerService,
	}, nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.Scheduler != nil && a.Scheduler.IsRunning() {
		if err := a.Scheduler.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler stop failed during shutdown")
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
