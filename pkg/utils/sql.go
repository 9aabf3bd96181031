package utils

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DBOption func(*gorm.DB) *gorm.DB

func ApplyOptions(db *gorm.DB, opts ...DBOption) *gorm.DB {
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

// WithTx routes the query through an open transaction.
func WithTx(tx *gorm.DB) DBOption {
	return func(_ *gorm.DB) *gorm.DB {
		return tx
	}
}

func WithPreload(column string, args ...interface{}) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(column, args...)
	}
}

// WithForUpdate takes a row lock (SELECT ... FOR UPDATE).
func WithForUpdate() DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
