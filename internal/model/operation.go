package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the trade event shown in the accounting views. Status is a
// manual override; nil means the display status is derived from the alert.
type Operation struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	System                TradingSystem    `gorm:"not null" json:"system"`
	Ticker                string           `gorm:"not null" json:"ticker"`
	OperationType         OperationType    `gorm:"not null" json:"operation_type"`
	Price                 *decimal.Decimal `gorm:"type:numeric" json:"price"`
	PriceRange            *PriceRange      `gorm:"type:jsonb" json:"price_range"`
	IsPriceConfirmed      bool             `gorm:"not null" json:"is_price_confirmed"`
	Status                *OperationStatus `json:"status"`
	PortfolioPercentage   *decimal.Decimal `gorm:"type:numeric" json:"portfolio_percentage"`
	PartialSalePercentage *decimal.Decimal `gorm:"type:numeric" json:"partial_sale_percentage"`
	AlertID               *uint            `json:"alert_id"`
	Alert                 *Alert           `gorm:"foreignKey:AlertID;references:ID" json:"alert,omitempty"`
	Date                  *time.Time       `json:"date"`
	Notes                 string           `json:"notes"`
	CreatedAt             time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Operation) TableName() string {
	return "operations"
}

type GetOperationParam struct {
	IDs      []uint
	System   *TradingSystem
	AlertIDs []uint
}
