package service

import (
	"time"

	"trading-alerts/config"
	"trading-alerts/internal/repository"
	"trading-alerts/pkg/cache"
	"trading-alerts/pkg/keylock"
	"trading-alerts/pkg/logger"
)

type Service struct {
	LedgerService     LedgerService
	AllocationService AllocationService
	StatusService     StatusService
	SchedulerService  SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	loc *time.Location,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	locks *keylock.KeyLock,
) (*Service, error) {
	ledgerService, err := NewLedgerService(cfg, log, inmemoryCache, locks, repo)
	if err != nil {
		return nil, err
	}
	allocationService := NewAllocationService(cfg, log, inmemoryCache, locks, repo)
	statusService := NewStatusService(log, loc, repo)
	schedulerService := NewSchedulerService(cfg, log, loc, allocationService, repo.SnapshotRepo)

	return &Service{
		LedgerService:     ledgerService,
		AllocationService: allocationService,
		StatusService:     statusService,
		SchedulerService:  schedulerService,
	}, nil
}
