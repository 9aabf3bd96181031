package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trading-alerts/config"
	"trading-alerts/internal/allocation"
	"trading-alerts/internal/model"
	"trading-alerts/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) Segments(ctx context.Context, system model.TradingSystem) (*allocation.Summary, error) {
	args := m.Called(ctx, system)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Summary), args.Error(1)
}

func newScheduler(spec string) (*schedulerService, *MockAllocationService, *MockPoolSnapshotRepository) {
	alloc := new(MockAllocationService)
	snapshots := new(MockPoolSnapshotRepository)
	cfg := &config.Config{Scheduler: config.Scheduler{SnapshotCron: spec}}
	s := NewSchedulerService(cfg, logger.NewNop(), time.UTC, alloc, snapshots)
	s.now = func() time.Time { return fixedNow }
	return s, alloc, snapshots
}

func summaryOf(system model.TradingSystem, total string) *allocation.Summary {
	pool := &model.LiquidityPool{System: system, TotalLiquidity: d(total)}
	s := allocation.Summarize(pool, nil)
	return &s
}

func TestSchedulerService_TakeSnapshots(t *testing.T) {
	s, alloc, snapshots := newScheduler("0 18 * * 1-5")
	alloc.On("Segments", mock.Anything, model.TraderCall).Return(summaryOf(model.TraderCall, "1000"), nil)
	alloc.On("Segments", mock.Anything, model.SmartMoney).Return(summaryOf(model.SmartMoney, "2000"), nil)

	var stored []*model.PoolSnapshot
	snapshots.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = append(stored, args.Get(1).(*model.PoolSnapshot))
	}).Return(nil)

	require.NoError(t, s.TakeSnapshots(context.Background()))
	require.Len(t, stored, 2)
	assert.Equal(t, model.TraderCall, stored[0].System)
	assertDecimal(t, "1000", stored[0].TotalLiquidity)
	assert.Equal(t, fixedNow, stored[1].TakenAt)
	assert.Contains(t, string(stored[1].Segments), allocation.AvailableSymbol)
}

func TestSchedulerService_TakeSnapshots_ContinuesAfterFailure(t *testing.T) {
	s, alloc, snapshots := newScheduler("0 18 * * 1-5")
	alloc.On("Segments", mock.Anything, model.TraderCall).Return(nil, errors.New("db down"))
	alloc.On("Segments", mock.Anything, model.SmartMoney).Return(summaryOf(model.SmartMoney, "2000"), nil)
	snapshots.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := s.TakeSnapshots(context.Background())
	assert.Error(t, err)
	snapshots.AssertNumberOfCalls(t, "Create", 1)
}

func TestSchedulerService_Start(t *testing.T) {
	s, _, _ := newScheduler("not a cron")
	assert.Error(t, s.Start(context.Background()))

	s, _, _ = newScheduler("")
	assert.NoError(t, s.Start(context.Background()))

	s, _, _ = newScheduler("@every 1h")
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
