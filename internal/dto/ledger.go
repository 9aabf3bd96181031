package dto

import (
	"trading-alerts/internal/model"

	"github.com/shopspring/decimal"
)

type SetCapitalRequest struct {
	TotalLiquidity decimal.Decimal `json:"total_liquidity"`
}

type AllocateRequest struct {
	AlertID    uint            `json:"alert_id" validate:"required"`
	Percentage decimal.Decimal `json:"percentage"`
	EntryPrice decimal.Decimal `json:"entry_price"`
}

type MarkPriceRequest struct {
	CurrentPrice decimal.Decimal `json:"current_price"`
}

type PartialSaleRequest struct {
	AlertID    uint             `json:"alert_id" validate:"required"`
	Percentage decimal.Decimal  `json:"percentage"`
	PriceRange model.PriceRange `json:"price_range"`
}

type CloseRequest struct {
	FinalPrice decimal.Decimal `json:"final_price"`
	Reason     string          `json:"reason" validate:"omitempty,max=64"`
}

type PoolResponse struct {
	System         model.TradingSystem  `json:"system"`
	TotalLiquidity decimal.Decimal      `json:"total_liquidity"`
	Allocated      decimal.Decimal      `json:"allocated"`
	Available      decimal.Decimal      `json:"available"`
	Version        int64                `json:"version"`
	Distributions  []model.Distribution `json:"distributions"`
}

type PartialSaleResponse struct {
	ReleasedLiquidity          decimal.Decimal            `json:"released_liquidity"`
	RealizedProfit             decimal.Decimal            `json:"realized_profit"`
	NewParticipationPercentage decimal.Decimal            `json:"new_participation_percentage"`
	SalePrice                  decimal.Decimal            `json:"sale_price"`
	Closed                     bool                       `json:"closed"`
	History                    *model.DistributionHistory `json:"history,omitempty"`
}

type CloseResponse struct {
	AlertID                 uint            `json:"alert_id"`
	Symbol                  string          `json:"symbol"`
	FinalPrice              decimal.Decimal `json:"final_price"`
	Reason                  string          `json:"reason"`
	ReleasedLiquidity       decimal.Decimal `json:"released_liquidity"`
	RealizedProfit          decimal.Decimal `json:"realized_profit"`
	TotalRealizedProfitLoss decimal.Decimal `json:"total_realized_profit_loss"`
}

type OperationStatusResponse struct {
	model.Operation
	DisplayStatus string `json:"display_status"`
}

type AlertStatusResponse struct {
	AlertID       uint   `json:"alert_id"`
	OperationID   *uint  `json:"operation_id,omitempty"`
	DisplayStatus string `json:"display_status"`
}
