package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trading-alerts/config"
	"trading-alerts/internal/allocation"
	"trading-alerts/internal/model"
	"trading-alerts/internal/repository"
	"trading-alerts/pkg/cache"
	"trading-alerts/pkg/keylock"
	"trading-alerts/pkg/logger"
)

type AllocationService interface {
	Segments(ctx context.Context, system model.TradingSystem) (*allocation.Summary, error)
}

type allocationService struct {
	log       *logger.Logger
	cache     cache.Cache
	locks     *keylock.KeyLock
	ttl       time.Duration
	poolRepo  repository.LiquidityPoolRepository
	alertRepo repository.AlertRepository
}

func NewAllocationService(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache, locks *keylock.KeyLock, repo *repository.Repository) *allocationService {
	return &allocationService{
		log:       log,
		cache:     inmemoryCache,
		locks:     locks,
		ttl:       cfg.Cache.ProjectionTTL,
		poolRepo:  repo.PoolRepo,
		alertRepo: repo.AlertRepo,
	}
}

func segmentsCacheKey(system model.TradingSystem) string {
	return "allocation:segments:" + string(system)
}

// Segments returns the pie projection of system's pool. A system without a
// pool yet projects as an empty pool.
//
// Misses are computed under the same per-system lock ledger writes hold, so a
// write cannot commit and invalidate between the read and the cache fill.
func (s *allocationService) Segments(ctx context.Context, system model.TradingSystem) (*allocation.Summary, error) {
	key := segmentsCacheKey(system)
	if summary, ok := cache.GetFromCache[*allocation.Summary](s.cache, key); ok {
		return summary, nil
	}

	unlock := s.locks.Lock(string(system))
	defer unlock()
	if summary, ok := cache.GetFromCache[*allocation.Summary](s.cache, key); ok {
		return summary, nil
	}

	pool, err := s.poolRepo.Load(ctx, system)
	if errors.Is(err, repository.ErrNotFound) {
		pool = &model.LiquidityPool{System: system}
	} else if err != nil {
		s.log.ErrorContext(ctx, "Failed to load liquidity pool", logger.ErrorField(err), logger.StringField("system", string(system)))
		return nil, fmt.Errorf("failed to load liquidity pool: %w", err)
	}

	alerts, err := s.alertRepo.Get(ctx, model.GetAlertParam{
		System: &system,
		Status: []model.AlertStatus{model.AlertActive},
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load active alerts", logger.ErrorField(err), logger.StringField("system", string(system)))
		return nil, fmt.Errorf("failed to load active alerts: %w", err)
	}

	summary := allocation.Summarize(pool, alerts)
	s.cache.Set(key, &summary, s.ttl)
	return &summary, nil
}
