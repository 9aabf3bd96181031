package repository

import (
	"context"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"

	"gorm.io/gorm"
)

type LedgerEventRepository interface {
	Create(ctx context.Context, events []model.LedgerEvent, opts ...utils.DBOption) error
	List(ctx context.Context, system model.TradingSystem, limit int, opts ...utils.DBOption) ([]model.LedgerEvent, error)
}

type ledgerEventRepository struct {
	db *gorm.DB
}

func NewLedgerEventRepository(db *gorm.DB) LedgerEventRepository {
	return &ledgerEventRepository{
		db: db,
	}
}

func (r *ledgerEventRepository) Create(ctx context.Context, events []model.LedgerEvent, opts ...utils.DBOption) error {
	if len(events) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(&events).Error
}

func (r *ledgerEventRepository) List(ctx context.Context, system model.TradingSystem, limit int, opts ...utils.DBOption) ([]model.LedgerEvent, error) {
	var events []model.LedgerEvent
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Where("system = ?", system).Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&events).Error
	return events, err
}
