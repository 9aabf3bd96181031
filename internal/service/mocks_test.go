package service

import (
	"context"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeUnitOfWork runs fn without a transaction.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Run(_ context.Context, fn func(opts ...utils.DBOption) error) error {
	return fn()
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Get(ctx context.Context, param model.GetAlertParam, opts ...utils.DBOption) ([]model.Alert, error) {
	args := m.Called(ctx, param)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *model.Alert, opts ...utils.DBOption) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) Get(ctx context.Context, param model.GetOperationParam, opts ...utils.DBOption) ([]model.Operation, error) {
	args := m.Called(ctx, param)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Operation), args.Error(1)
}

func (m *MockOperationRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Operation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Operation), args.Error(1)
}

type MockLiquidityPoolRepository struct {
	mock.Mock
}

func (m *MockLiquidityPoolRepository) GetOrCreate(ctx context.Context, system model.TradingSystem, initial decimal.Decimal, opts ...utils.DBOption) (*model.LiquidityPool, error) {
	args := m.Called(ctx, system, initial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LiquidityPool), args.Error(1)
}

func (m *MockLiquidityPoolRepository) Load(ctx context.Context, system model.TradingSystem, opts ...utils.DBOption) (*model.LiquidityPool, error) {
	args := m.Called(ctx, system)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LiquidityPool), args.Error(1)
}

func (m *MockLiquidityPoolRepository) SaveState(ctx context.Context, pool *model.LiquidityPool, opts ...utils.DBOption) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockLiquidityPoolRepository) AddHistory(ctx context.Context, history *model.DistributionHistory, opts ...utils.DBOption) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockLiquidityPoolRepository) ListHistory(ctx context.Context, system model.TradingSystem, opts ...utils.DBOption) ([]model.DistributionHistory, error) {
	args := m.Called(ctx, system)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DistributionHistory), args.Error(1)
}

type MockLedgerEventRepository struct {
	mock.Mock
}

func (m *MockLedgerEventRepository) Create(ctx context.Context, events []model.LedgerEvent, opts ...utils.DBOption) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockLedgerEventRepository) List(ctx context.Context, system model.TradingSystem, limit int, opts ...utils.DBOption) ([]model.LedgerEvent, error) {
	args := m.Called(ctx, system, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LedgerEvent), args.Error(1)
}

type MockPoolSnapshotRepository struct {
	mock.Mock
}

func (m *MockPoolSnapshotRepository) Create(ctx context.Context, snapshot *model.PoolSnapshot, opts ...utils.DBOption) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func eventTypes(events []model.LedgerEvent) []model.LedgerEventType {
	types := make([]model.LedgerEventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}
