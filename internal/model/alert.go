package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Alert struct {
	ID                      uint             `gorm:"primaryKey" json:"id"`
	System                  TradingSystem    `gorm:"not null" json:"system"`
	Symbol                  string           `gorm:"not null" json:"symbol"`
	Action                  Action           `gorm:"not null" json:"action"`
	Status                  AlertStatus      `gorm:"not null" json:"status"`
	EntryPrice              *decimal.Decimal `gorm:"type:numeric" json:"entry_price"`
	EntryPriceRange         *PriceRange      `gorm:"type:jsonb" json:"entry_price_range"`
	StopLoss                decimal.Decimal  `gorm:"type:numeric;not null" json:"stop_loss"`
	TakeProfit              decimal.Decimal  `gorm:"type:numeric;not null" json:"take_profit"`
	Date                    *time.Time       `json:"date"`
	FinalPriceSetAt         *time.Time       `json:"final_price_set_at"`
	DescartadaAt            *time.Time       `json:"descartada_at"`
	AvailableForPurchase    bool             `gorm:"not null" json:"available_for_purchase"`
	ParticipationPercentage decimal.Decimal  `gorm:"type:numeric;not null" json:"participation_percentage"`
	RealizedProfitLoss      decimal.Decimal  `gorm:"type:numeric;not null;default:0" json:"realized_profit_loss"`
	CloseReason             string           `json:"close_reason,omitempty"`
	ClosedAt                *time.Time       `json:"closed_at"`
	PartialSales            []PartialSale    `gorm:"foreignKey:AlertID;references:ID" json:"partial_sales"`
	CreatedAt               time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Alert) TableName() string {
	return "alerts"
}

// PartialSale is one liquidation tranche. Percentage is relative to the
// original 100% position, not to what remains.
type PartialSale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AlertID       uint            `gorm:"not null" json:"alert_id"`
	Percentage    decimal.Decimal `gorm:"type:numeric;not null" json:"percentage"`
	PriceRange    PriceRange      `gorm:"type:jsonb;not null" json:"price_range"`
	Executed      bool            `gorm:"not null" json:"executed"`
	ExecutedAt    *time.Time      `json:"executed_at"`
	EmailImageURL *string         `json:"email_image_url"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PartialSale) TableName() string {
	return "alert_partial_sales"
}

type GetAlertParam struct {
	IDs    []uint
	System *TradingSystem
	Status []AlertStatus
}
