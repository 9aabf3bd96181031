package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LiquidityPool is the capital base of one trading system. Distributions are
// kept in insertion order and hold at most one entry per symbol.
type LiquidityPool struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	System         TradingSystem   `gorm:"not null;uniqueIndex" json:"system"`
	TotalLiquidity decimal.Decimal `gorm:"type:numeric;not null" json:"total_liquidity"`
	Version        int64           `gorm:"not null;default:0" json:"version"`
	Distributions  []Distribution  `gorm:"foreignKey:PoolID;references:ID" json:"distributions"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LiquidityPool) TableName() string {
	return "liquidity_pools"
}

type Distribution struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	PoolID               uint            `gorm:"not null" json:"pool_id"`
	AlertID              uint            `gorm:"not null" json:"alert_id"`
	Symbol               string          `gorm:"not null" json:"symbol"`
	Action               Action          `gorm:"not null" json:"action"`
	AllocatedAmount      decimal.Decimal `gorm:"type:numeric;not null" json:"allocated_amount"`
	Shares               decimal.Decimal `gorm:"type:numeric;not null" json:"shares"`
	EntryPrice           decimal.Decimal `gorm:"type:numeric;not null" json:"entry_price"`
	CurrentPrice         decimal.Decimal `gorm:"type:numeric;not null" json:"current_price"`
	ProfitLoss           decimal.Decimal `gorm:"type:numeric;not null" json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `gorm:"type:numeric;not null" json:"profit_loss_percentage"`
	RealizedProfitLoss   decimal.Decimal `gorm:"type:numeric;not null" json:"realized_profit_loss"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Distribution) TableName() string {
	return "distributions"
}

// DistributionHistory keeps the realized result of a fully liquidated distribution.
type DistributionHistory struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	System             TradingSystem   `gorm:"not null" json:"system"`
	AlertID            uint            `gorm:"not null" json:"alert_id"`
	Symbol             string          `gorm:"not null" json:"symbol"`
	EntryPrice         decimal.Decimal `gorm:"type:numeric;not null" json:"entry_price"`
	ExitPrice          decimal.Decimal `gorm:"type:numeric;not null" json:"exit_price"`
	RealizedProfitLoss decimal.Decimal `gorm:"type:numeric;not null" json:"realized_profit_loss"`
	Reason             string          `gorm:"not null" json:"reason"`
	ClosedAt           time.Time       `gorm:"not null" json:"closed_at"`
}

func (DistributionHistory) TableName() string {
	return "distribution_histories"
}

type LedgerEventType string

const (
	EventCapitalSet  LedgerEventType = "CAPITAL_SET"
	EventAllocated   LedgerEventType = "ALLOCATED"
	EventPriceMarked LedgerEventType = "PRICE_MARKED"
	EventPartialSold LedgerEventType = "PARTIAL_SOLD"
	EventClosed      LedgerEventType = "CLOSED"
	EventPruned      LedgerEventType = "PRUNED"
)

// LedgerEvent is the append-only audit trail of applied ledger commands.
type LedgerEvent struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	System    TradingSystem   `gorm:"not null" json:"system"`
	Type      LedgerEventType `gorm:"not null" json:"type"`
	Symbol    string          `json:"symbol"`
	AlertID   *uint           `json:"alert_id"`
	Payload   datatypes.JSON  `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}

type PoolSnapshot struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	System         TradingSystem   `gorm:"not null" json:"system"`
	TotalLiquidity decimal.Decimal `gorm:"type:numeric;not null" json:"total_liquidity"`
	Allocated      decimal.Decimal `gorm:"type:numeric;not null" json:"allocated"`
	Segments       datatypes.JSON  `gorm:"type:jsonb" json:"segments"`
	TakenAt        time.Time       `gorm:"not null" json:"taken_at"`
}

func (PoolSnapshot) TableName() string {
	return "pool_snapshots"
}
