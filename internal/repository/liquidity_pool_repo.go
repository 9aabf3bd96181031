package repository

import (
	"context"
	"fmt"
	"time"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LiquidityPoolRepository interface {
	// GetOrCreate returns the pool of system, creating it with initial
	// liquidity when it does not exist yet.
	GetOrCreate(ctx context.Context, system model.TradingSystem, initial decimal.Decimal, opts ...utils.DBOption) (*model.LiquidityPool, error)
	Load(ctx context.Context, system model.TradingSystem, opts ...utils.DBOption) (*model.LiquidityPool, error)
	// SaveState persists the pool and its distributions if the stored version
	// still matches pool.Version, then bumps it.
	SaveState(ctx context.Context, pool *model.LiquidityPool, opts ...utils.DBOption) error
	AddHistory(ctx context.Context, history *model.DistributionHistory, opts ...utils.DBOption) error
	ListHistory(ctx context.Context, system model.TradingSystem, opts ...utils.DBOption) ([]model.DistributionHistory, error)
}

type liquidityPoolRepository struct {
	db *gorm.DB
}

func NewLiquidityPoolRepository(db *gorm.DB) LiquidityPoolRepository {
	return &liquidityPoolRepository{
		db: db,
	}
}

func (r *liquidityPoolRepository) GetOrCreate(ctx context.Context, system model.TradingSystem, initial decimal.Decimal, opts ...utils.DBOption) (*model.LiquidityPool, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	pool := model.LiquidityPool{System: system, TotalLiquidity: initial}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&pool).Error; err != nil {
		return nil, fmt.Errorf("create pool %s: %w", system, err)
	}
	return r.Load(ctx, system, opts...)
}

func (r *liquidityPoolRepository) Load(ctx context.Context, system model.TradingSystem, opts ...utils.DBOption) (*model.LiquidityPool, error) {
	var pool model.LiquidityPool
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	err := db.Preload("Distributions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Where("system = ?", system).First(&pool).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &pool, nil
}

func (r *liquidityPoolRepository) SaveState(ctx context.Context, pool *model.LiquidityPool, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	res := db.Model(&model.LiquidityPool{}).
		Where("id = ? AND version = ?", pool.ID, pool.Version).
		Updates(map[string]interface{}{
			"total_liquidity": pool.TotalLiquidity,
			"version":         gorm.Expr("version + 1"),
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update pool %s: %w", pool.System, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s at version %d", ErrStaleVersion, pool.System, pool.Version)
	}

	var stored []uint
	if err := db.Model(&model.Distribution{}).Where("pool_id = ?", pool.ID).Pluck("id", &stored).Error; err != nil {
		return fmt.Errorf("list distributions of %s: %w", pool.System, err)
	}

	kept := make(map[uint]bool, len(pool.Distributions))
	for _, d := range pool.Distributions {
		if d.ID != 0 {
			kept[d.ID] = true
		}
	}

	// Removed rows go first: a new distribution may reuse the symbol of a
	// pruned one and (pool_id, symbol) is unique.
	var removed []uint
	for _, id := range stored {
		if !kept[id] {
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		if err := db.Delete(&model.Distribution{}, removed).Error; err != nil {
			return fmt.Errorf("delete distributions of %s: %w", pool.System, err)
		}
	}

	for i := range pool.Distributions {
		d := &pool.Distributions[i]
		d.PoolID = pool.ID
		if d.ID == 0 {
			if err := db.Create(d).Error; err != nil {
				return fmt.Errorf("create distribution %s: %w", d.Symbol, err)
			}
		} else if err := db.Save(d).Error; err != nil {
			return fmt.Errorf("update distribution %s: %w", d.Symbol, err)
		}
	}

	pool.Version++
	return nil
}

func (r *liquidityPoolRepository) AddHistory(ctx context.Context, history *model.DistributionHistory, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(history).Error
}

func (r *liquidityPoolRepository) ListHistory(ctx context.Context, system model.TradingSystem, opts ...utils.DBOption) ([]model.DistributionHistory, error) {
	var histories []model.DistributionHistory
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("system = ?", system).
		Order("closed_at DESC, id DESC").
		Find(&histories).Error
	return histories, err
}
