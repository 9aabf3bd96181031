package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trading-alerts/config"
	"trading-alerts/internal/model"
	"trading-alerts/internal/repository"
	"trading-alerts/pkg/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
)

// SchedulerService stores a PoolSnapshot of every trading system on the
// configured cron schedule.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	TakeSnapshots(ctx context.Context) error
}

type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	cron         *cron.Cron
	cronParser   cron.Parser
	allocation   AllocationService
	snapshotRepo repository.PoolSnapshotRepository
	now          func() time.Time
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	loc *time.Location,
	allocation AllocationService,
	snapshotRepo repository.PoolSnapshotRepository,
) *schedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:          cfg,
		log:          log,
		cron:         cron.New(cron.WithLocation(loc), cron.WithParser(parser)),
		cronParser:   parser,
		allocation:   allocation,
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	spec := s.cfg.Scheduler.SnapshotCron
	if spec == "" {
		s.log.InfoContext(ctx, "Pool snapshots disabled")
		return nil
	}
	if _, err := s.cronParser.Parse(spec); err != nil {
		return fmt.Errorf("failed to parse cron expression %q: %w", spec, err)
	}

	_, err := s.cron.AddFunc(spec, func() {
		if err := s.TakeSnapshots(ctx); err != nil {
			s.log.ErrorContext(ctx, "Pool snapshot run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pool snapshots: %w", err)
	}

	s.cron.Start()
	s.log.InfoContext(ctx, "Pool snapshot scheduler started", logger.StringField("cron", spec))
	return nil
}

// Stop waits for a running snapshot to finish.
func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Pool snapshot scheduler stopped")
}

func (s *schedulerService) TakeSnapshots(ctx context.Context) error {
	var errs []error
	for _, system := range model.TradingSystems() {
		if ctx.Err() != nil {
			s.log.WarnContext(ctx, "Snapshot run cancelled", logger.ErrorField(ctx.Err()))
			return ctx.Err()
		}
		if err := s.snapshot(ctx, system); err != nil {
			s.log.ErrorContext(ctx, "Failed to snapshot pool", logger.ErrorField(err), logger.StringField("system", string(system)))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *schedulerService) snapshot(ctx context.Context, system model.TradingSystem) error {
	summary, err := s.allocation.Segments(ctx, system)
	if err != nil {
		return err
	}
	segments, err := json.Marshal(summary.Segments)
	if err != nil {
		return fmt.Errorf("failed to encode segments: %w", err)
	}

	snapshot := &model.PoolSnapshot{
		System:         system,
		TotalLiquidity: summary.TotalLiquidity,
		Allocated:      summary.Allocated,
		Segments:       datatypes.JSON(segments),
		TakenAt:        s.now(),
	}
	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to store snapshot of %s: %w", system, err)
	}

	s.log.InfoContext(ctx, "Pool snapshot stored",
		logger.StringField("system", string(system)),
		logger.DecimalField("total_liquidity", summary.TotalLiquidity),
		logger.IntField("segments", len(summary.Segments)),
	)
	return nil
}
