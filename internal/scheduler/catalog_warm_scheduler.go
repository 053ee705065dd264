package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/foodhub-backend/internal/app/service"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const warmTimeout = 10 * time.Minute

// CatalogWarmScheduler 카탈로그 캐시/스냅샷 주기적 갱신 스케줄러
type CatalogWarmScheduler struct {
	cron     *cron.Cron
	schedule string
	warmer   service.CatalogWarmService
}

// NewCatalogWarmScheduler 빈 schedule이면 Start가 아무것도 하지 않는다
func NewCatalogWarmScheduler(warmer service.CatalogWarmService, schedule string) *CatalogWarmScheduler {
	return &CatalogWarmScheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		warmer:   warmer,
	}
}

// Start 스케줄러 시작
func (s *CatalogWarmScheduler) Start() error {
	if s.schedule == "" {
		logger.Info("Catalog warm scheduler disabled", nil)
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for catalog warm-up", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog warm scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *CatalogWarmScheduler) run() {
	logger.Info("Starting scheduled catalog warm-up", nil)

	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	if _, err := s.warmer.WarmAll(ctx); err != nil {
		logger.Error("Scheduled catalog warm-up failed", err)
	}
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다
func (s *CatalogWarmScheduler) Stop() {
	logger.Info("Stopping catalog warm scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Catalog warm scheduler stopped", nil)
}
