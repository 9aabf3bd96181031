package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trading-alerts/config"
	"trading-alerts/internal/dto"
	"trading-alerts/internal/ledger"
	"trading-alerts/internal/model"
	"trading-alerts/internal/repository"
	"trading-alerts/pkg/cache"
	"trading-alerts/pkg/keylock"
	"trading-alerts/pkg/logger"
	"trading-alerts/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type LedgerService interface {
	GetPool(ctx context.Context, system model.TradingSystem) (*dto.PoolResponse, error)
	SetCapital(ctx context.Context, system model.TradingSystem, req dto.SetCapitalRequest) (*dto.PoolResponse, error)
	Allocate(ctx context.Context, system model.TradingSystem, req dto.AllocateRequest) (*model.Distribution, error)
	MarkPrice(ctx context.Context, system model.TradingSystem, symbol string, req dto.MarkPriceRequest) (*model.Distribution, error)
	PartialSell(ctx context.Context, system model.TradingSystem, symbol string, req dto.PartialSaleRequest) (*dto.PartialSaleResponse, error)
	Close(ctx context.Context, system model.TradingSystem, alertID uint, req dto.CloseRequest) (*dto.CloseResponse, error)
	History(ctx context.Context, system model.TradingSystem) ([]model.DistributionHistory, error)
	Events(ctx context.Context, system model.TradingSystem, limit int) ([]model.LedgerEvent, error)
}

type ledgerService struct {
	log       *logger.Logger
	cache     cache.Cache
	locks     *keylock.KeyLock
	uow       repository.UnitOfWork
	poolRepo  repository.LiquidityPoolRepository
	alertRepo repository.AlertRepository
	eventRepo repository.LedgerEventRepository
	initial   map[model.TradingSystem]decimal.Decimal
	now       func() time.Time
}

func NewLedgerService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	locks *keylock.KeyLock,
	repo *repository.Repository,
) (*ledgerService, error) {
	initial := make(map[model.TradingSystem]decimal.Decimal, 2)
	for system, raw := range map[model.TradingSystem]string{
		model.TraderCall: cfg.Ledger.InitialLiquidity.TraderCall,
		model.SmartMoney: cfg.Ledger.InitialLiquidity.SmartMoney,
	} {
		if raw == "" {
			raw = "0"
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid initial liquidity for %s: %w", system, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("invalid initial liquidity for %s: %s is negative", system, amount)
		}
		initial[system] = amount
	}

	return &ledgerService{
		log:       log,
		cache:     inmemoryCache,
		locks:     locks,
		uow:       repo.UnitOfWork,
		poolRepo:  repo.PoolRepo,
		alertRepo: repo.AlertRepo,
		eventRepo: repo.LedgerEventRepo,
		initial:   initial,
		now:       time.Now,
	}, nil
}

func poolResponse(pool *model.LiquidityPool) *dto.PoolResponse {
	distributions := pool.Distributions
	if distributions == nil {
		distributions = []model.Distribution{}
	}
	return &dto.PoolResponse{
		System:         pool.System,
		TotalLiquidity: pool.TotalLiquidity,
		Allocated:      ledger.TotalAllocated(pool),
		Available:      ledger.Available(pool),
		Version:        pool.Version,
		Distributions:  distributions,
	}
}

func (s *ledgerService) GetPool(ctx context.Context, system model.TradingSystem) (*dto.PoolResponse, error) {
	pool, err := s.poolRepo.GetOrCreate(ctx, system, s.initial[system])
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load liquidity pool", logger.ErrorField(err), logger.StringField("system", string(system)))
		return nil, fmt.Errorf("failed to load liquidity pool: %w", err)
	}
	return poolResponse(pool), nil
}

// mutate runs fn against a locked, freshly loaded pool inside one transaction
// and persists the pool, fn's events and the version bump together.
func (s *ledgerService) mutate(ctx context.Context, system model.TradingSystem, fn func(pool *model.LiquidityPool, opts []utils.DBOption) ([]model.LedgerEvent, error)) (*model.LiquidityPool, error) {
	unlock := s.locks.Lock(string(system))
	defer unlock()

	var saved *model.LiquidityPool
	err := s.uow.Run(ctx, func(opts ...utils.DBOption) error {
		pool, err := s.poolRepo.GetOrCreate(ctx, system, s.initial[system], append(opts, utils.WithForUpdate())...)
		if err != nil {
			return fmt.Errorf("failed to load liquidity pool: %w", err)
		}

		events, err := fn(pool, opts)
		if err != nil {
			return err
		}

		if err := s.poolRepo.SaveState(ctx, pool, opts...); err != nil {
			return err
		}
		if err := s.eventRepo.Create(ctx, events, opts...); err != nil {
			return fmt.Errorf("failed to record ledger events: %w", err)
		}
		saved = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(segmentsCacheKey(system))
	return saved, nil
}

func (s *ledgerService) event(system model.TradingSystem, eventType model.LedgerEventType, symbol string, alertID *uint, payload interface{}) model.LedgerEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	return model.LedgerEvent{
		ID:        uuid.NewString(),
		System:    system,
		Type:      eventType,
		Symbol:    symbol,
		AlertID:   alertID,
		Payload:   datatypes.JSON(raw),
		CreatedAt: s.now(),
	}
}

func (s *ledgerService) logFailure(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, logger.ErrorField(err))
	if kind := ledger.Kind(err); kind != "" {
		s.log.WarnContext(ctx, msg, append(fields, logger.StringField("kind", kind))...)
		return
	}
	s.log.ErrorContext(ctx, msg, fields...)
}

func (s *ledgerService) SetCapital(ctx context.Context, system model.TradingSystem, req dto.SetCapitalRequest) (*dto.PoolResponse, error) {
	pool, err := s.mutate(ctx, system, func(pool *model.LiquidityPool, _ []utils.DBOption) ([]model.LedgerEvent, error) {
		previous := pool.TotalLiquidity
		if err := ledger.SetTotalLiquidity(pool, req.TotalLiquidity); err != nil {
			return nil, err
		}
		return []model.LedgerEvent{s.event(system, model.EventCapitalSet, "", nil, map[string]interface{}{
			"previous": previous,
			"current":  pool.TotalLiquidity,
		})}, nil
	})
	if err != nil {
		s.logFailure(ctx, "Failed to set total liquidity", err, logger.StringField("system", string(system)))
		return nil, err
	}

	s.log.InfoContext(ctx, "Total liquidity updated",
		logger.StringField("system", string(system)),
		logger.DecimalField("total_liquidity", pool.TotalLiquidity),
	)
	return poolResponse(pool), nil
}

// prune drops distributions whose alert is no longer active so a leftover
// entry cannot block its symbol.
func (s *ledgerService) prune(ctx context.Context, pool *model.LiquidityPool, opts []utils.DBOption) ([]model.LedgerEvent, error) {
	if len(pool.Distributions) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(pool.Distributions))
	for _, d := range pool.Distributions {
		ids = append(ids, d.AlertID)
	}
	alerts, err := s.alertRepo.Get(ctx, model.GetAlertParam{IDs: ids}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution alerts: %w", err)
	}
	active := make(map[uint]bool, len(alerts))
	for _, a := range alerts {
		active[a.ID] = a.Status == model.AlertActive
	}

	var events []model.LedgerEvent
	for _, d := range ledger.Prune(pool, func(alertID uint) bool { return active[alertID] }) {
		alertID := d.AlertID
		events = append(events, s.event(pool.System, model.EventPruned, d.Symbol, &alertID, map[string]interface{}{
			"allocated_amount": d.AllocatedAmount,
		}))
		s.log.InfoContext(ctx, "Pruned distribution of inactive alert",
			logger.StringField("system", string(pool.System)),
			logger.StringField("symbol", d.Symbol),
			logger.UintField("alert_id", alertID),
		)
	}
	return events, nil
}

func (s *ledgerService) Allocate(ctx context.Context, system model.TradingSystem, req dto.AllocateRequest) (*model.Distribution, error) {
	var allocated model.Distribution
	pool, err := s.mutate(ctx, system, func(pool *model.LiquidityPool, opts []utils.DBOption) ([]model.LedgerEvent, error) {
		alert, err := s.alertRepo.GetByID(ctx, req.AlertID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load alert %d: %w", req.AlertID, err)
		}

		events, err := s.prune(ctx, pool, opts)
		if err != nil {
			return nil, err
		}

		allocated, err = ledger.Allocate(pool, alert, req.Percentage, req.EntryPrice)
		if err != nil {
			return nil, err
		}
		return append(events, s.event(system, model.EventAllocated, allocated.Symbol, &alert.ID, map[string]interface{}{
			"percentage":       req.Percentage,
			"entry_price":      req.EntryPrice,
			"allocated_amount": allocated.AllocatedAmount,
		})), nil
	})
	if err != nil {
		s.logFailure(ctx, "Failed to allocate liquidity", err,
			logger.StringField("system", string(system)),
			logger.UintField("alert_id", req.AlertID),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "Liquidity allocated",
		logger.StringField("system", string(system)),
		logger.StringField("symbol", allocated.Symbol),
		logger.UintField("alert_id", req.AlertID),
		logger.DecimalField("allocated_amount", allocated.AllocatedAmount),
	)
	// SaveState assigned the ID on the pool's copy.
	if stored, ok := ledger.Find(pool, allocated.Symbol); ok {
		allocated = stored
	}
	return &allocated, nil
}

func (s *ledgerService) MarkPrice(ctx context.Context, system model.TradingSystem, symbol string, req dto.MarkPriceRequest) (*model.Distribution, error) {
	var marked model.Distribution
	_, err := s.mutate(ctx, system, func(pool *model.LiquidityPool, _ []utils.DBOption) ([]model.LedgerEvent, error) {
		var err error
		marked, err = ledger.MarkPrice(pool, symbol, req.CurrentPrice)
		if err != nil {
			return nil, err
		}
		alertID := marked.AlertID
		return []model.LedgerEvent{s.event(system, model.EventPriceMarked, marked.Symbol, &alertID, map[string]interface{}{
			"current_price": marked.CurrentPrice,
			"profit_loss":   marked.ProfitLoss,
		})}, nil
	})
	if err != nil {
		s.logFailure(ctx, "Failed to mark price", err,
			logger.StringField("system", string(system)),
			logger.StringField("symbol", symbol),
		)
		return nil, err
	}

	s.log.DebugContext(ctx, "Price marked",
		logger.StringField("system", string(system)),
		logger.StringField("symbol", marked.Symbol),
		logger.DecimalField("current_price", marked.CurrentPrice),
	)
	return &marked, nil
}

func (s *ledgerService) PartialSell(ctx context.Context, system model.TradingSystem, symbol string, req dto.PartialSaleRequest) (*dto.PartialSaleResponse, error) {
	var result ledger.PartialSaleResult
	_, err := s.mutate(ctx, system, func(pool *model.LiquidityPool, opts []utils.DBOption) ([]model.LedgerEvent, error) {
		alert, err := s.alertRepo.GetByID(ctx, req.AlertID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load alert %d: %w", req.AlertID, err)
		}
		if ledger.NormalizeSymbol(alert.Symbol) != ledger.NormalizeSymbol(symbol) {
			return nil, fmt.Errorf("%w: alert %d is for %s, not %s", ledger.ErrAlertMismatch, alert.ID, alert.Symbol, symbol)
		}

		result, err = ledger.PartialSell(pool, alert, req.Percentage, req.PriceRange, s.now())
		if err != nil {
			return nil, err
		}
		if err := s.alertRepo.Save(ctx, alert, opts...); err != nil {
			return nil, fmt.Errorf("failed to save alert %d: %w", alert.ID, err)
		}

		events := []model.LedgerEvent{s.event(system, model.EventPartialSold, ledger.NormalizeSymbol(symbol), &alert.ID, map[string]interface{}{
			"percentage":         req.Percentage,
			"sale_price":         result.SalePrice,
			"released_liquidity": result.ReleasedLiquidity,
			"realized_profit":    result.RealizedProfit,
		})}
		if result.Closed {
			if err := s.poolRepo.AddHistory(ctx, result.History, opts...); err != nil {
				return nil, fmt.Errorf("failed to record distribution history: %w", err)
			}
			events = append(events, s.event(system, model.EventClosed, result.History.Symbol, &alert.ID, map[string]interface{}{
				"reason":               result.History.Reason,
				"realized_profit_loss": result.History.RealizedProfitLoss,
			}))
		}
		return events, nil
	})
	if err != nil {
		s.logFailure(ctx, "Failed to apply partial sale", err,
			logger.StringField("system", string(system)),
			logger.StringField("symbol", symbol),
			logger.UintField("alert_id", req.AlertID),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "Partial sale applied",
		logger.StringField("system", string(system)),
		logger.StringField("symbol", ledger.NormalizeSymbol(symbol)),
		logger.UintField("alert_id", req.AlertID),
		logger.DecimalField("released_liquidity", result.ReleasedLiquidity),
		logger.DecimalField("participation", result.NewParticipationPercentage),
		zap.Bool("closed", result.Closed),
	)
	return &dto.PartialSaleResponse{
		ReleasedLiquidity:          result.ReleasedLiquidity,
		RealizedProfit:             result.RealizedProfit,
		NewParticipationPercentage: result.NewParticipationPercentage,
		SalePrice:                  result.SalePrice,
		Closed:                     result.Closed,
		History:                    result.History,
	}, nil
}

func (s *ledgerService) Close(ctx context.Context, system model.TradingSystem, alertID uint, req dto.CloseRequest) (*dto.CloseResponse, error) {
	var summary ledger.ClosedSummary
	_, err := s.mutate(ctx, system, func(pool *model.LiquidityPool, opts []utils.DBOption) ([]model.LedgerEvent, error) {
		alert, err := s.alertRepo.GetByID(ctx, alertID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load alert %d: %w", alertID, err)
		}

		summary, err = ledger.Close(pool, alert, req.FinalPrice, req.Reason, s.now())
		if err != nil {
			return nil, err
		}
		if err := s.alertRepo.Save(ctx, alert, opts...); err != nil {
			return nil, fmt.Errorf("failed to save alert %d: %w", alert.ID, err)
		}
		history := summary.History
		if err := s.poolRepo.AddHistory(ctx, &history, opts...); err != nil {
			return nil, fmt.Errorf("failed to record distribution history: %w", err)
		}
		return []model.LedgerEvent{s.event(system, model.EventClosed, summary.Symbol, &alert.ID, map[string]interface{}{
			"final_price":          summary.FinalPrice,
			"reason":               summary.Reason,
			"released_liquidity":   summary.ReleasedLiquidity,
			"realized_profit_loss": summary.TotalRealizedProfitLoss,
		})}, nil
	})
	if err != nil {
		s.logFailure(ctx, "Failed to close alert", err,
			logger.StringField("system", string(system)),
			logger.UintField("alert_id", alertID),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "Alert closed",
		logger.StringField("system", string(system)),
		logger.StringField("symbol", summary.Symbol),
		logger.UintField("alert_id", alertID),
		logger.StringField("reason", summary.Reason),
		logger.DecimalField("realized_profit_loss", summary.TotalRealizedProfitLoss),
	)
	return &dto.CloseResponse{
		AlertID:                 summary.AlertID,
		Symbol:                  summary.Symbol,
		FinalPrice:              summary.FinalPrice,
		Reason:                  summary.Reason,
		ReleasedLiquidity:       summary.ReleasedLiquidity,
		RealizedProfit:          summary.RealizedProfit,
		TotalRealizedProfitLoss: summary.TotalRealizedProfitLoss,
	}, nil
}

func (s *ledgerService) History(ctx context.Context, system model.TradingSystem) ([]model.DistributionHistory, error) {
	histories, err := s.poolRepo.ListHistory(ctx, system)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list distribution history", logger.ErrorField(err), logger.StringField("system", string(system)))
		return nil, fmt.Errorf("failed to list distribution history: %w", err)
	}
	return histories, nil
}

const maxEventsLimit = 500

// Events returns the newest audit events of system, at most maxEventsLimit.
func (s *ledgerService) Events(ctx context.Context, system model.TradingSystem, limit int) ([]model.LedgerEvent, error) {
	if limit <= 0 || limit > maxEventsLimit {
		limit = maxEventsLimit
	}
	events, err := s.eventRepo.List(ctx, system, limit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list ledger events", logger.ErrorField(err), logger.StringField("system", string(system)))
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}
	return events, nil
}
