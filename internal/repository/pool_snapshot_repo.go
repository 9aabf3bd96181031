package repository

import (
	"context"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"

	"gorm.io/gorm"
)

type PoolSnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.PoolSnapshot, opts ...utils.DBOption) error
}

type poolSnapshotRepository struct {
	db *gorm.DB
}

func NewPoolSnapshotRepository(db *gorm.DB) PoolSnapshotRepository {
	return &poolSnapshotRepository{
		db: db,
	}
}

func (r *poolSnapshotRepository) Create(ctx context.Context, snapshot *model.PoolSnapshot, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(snapshot).Error
}
