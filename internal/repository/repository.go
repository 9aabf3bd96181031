package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleVersion means the pool changed between load and save.
	ErrStaleVersion = errors.New("liquidity pool was modified concurrently")
)

type Repository struct {
	AlertRepo       AlertRepository
	OperationRepo   OperationRepository
	PoolRepo        LiquidityPoolRepository
	LedgerEventRepo LedgerEventRepository
	SnapshotRepo    PoolSnapshotRepository
	UnitOfWork      UnitOfWork
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		AlertRepo:       NewAlertRepository(db),
		OperationRepo:   NewOperationRepository(db),
		PoolRepo:        NewLiquidityPoolRepository(db),
		LedgerEventRepo: NewLedgerEventRepository(db),
		SnapshotRepo:    NewPoolSnapshotRepository(db),
		UnitOfWork:      NewUnitOfWork(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
