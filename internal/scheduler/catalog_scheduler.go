package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/triorate/triorate-backend/internal/app/service"
	"github.com/triorate/triorate-backend/pkg/logger"
)

// CatalogScheduler periodically re-warms the entity list caches so lists
// stay hot even across quiet periods and cache expiry.
type CatalogScheduler struct {
	cron          *cron.Cron
	entityService *service.EntityService
}

func NewCatalogScheduler(entityService *service.EntityService) *CatalogScheduler {
	return &CatalogScheduler{
		cron:          cron.New(),
		entityService: entityService,
	}
}

// Start warms the caches once, then every 10 minutes.
func (s *CatalogScheduler) Start() error {
	s.entityService.WarmCaches(context.Background())

	_, err := s.cron.AddFunc("*/10 * * * *", func() {
		logger.Info("Re-warming catalog caches")
		s.entityService.WarmCaches(context.Background())
	})
	if err != nil {
		logger.Error("Failed to schedule catalog cache warm", err)
		return err
	}

	s.cron.Start()
	logger.Info("Catalog scheduler started (every 10 minutes)")
	return nil
}

// Stop halts the scheduler.
func (s *CatalogScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Catalog scheduler stopped")
}
