// Package ledger tracks how a trading system's liquidity pool is allocated
// across alerts, applies partial sales and closes, and keeps realized and
// unrealized P&L. Every command validates first and mutates last, so a
// returned error always leaves the pool and the alert untouched.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"trading-alerts/internal/model"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// PercentEpsilon absorbs rounding when comparing percentages.
	PercentEpsilon = decimal.New(1, -6)
	// ParticipationEpsilon is the remaining participation below which an
	// alert counts as fully liquidated.
	ParticipationEpsilon = decimal.New(1, -2)
)

const (
	ReasonFullyLiquidated = "FULLY_LIQUIDATED"
)

type PartialSaleResult struct {
	ReleasedLiquidity          decimal.Decimal
	RealizedProfit             decimal.Decimal
	NewParticipationPercentage decimal.Decimal
	SalePrice                  decimal.Decimal
	Sale                       model.PartialSale
	// Closed is set when the sale liquidated the whole position; History then
	// carries the realized result of the removed distribution.
	Closed  bool
	History *model.DistributionHistory
}

type ClosedSummary struct {
	AlertID                 uint
	Symbol                  string
	FinalPrice              decimal.Decimal
	Reason                  string
	ReleasedLiquidity       decimal.Decimal
	RealizedProfit          decimal.Decimal
	TotalRealizedProfitLoss decimal.Decimal
	History                 model.DistributionHistory
}

// NormalizeSymbol is the key format of pool distributions.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// TotalAllocated sums the allocated amount of every distribution.
func TotalAllocated(pool *model.LiquidityPool) decimal.Decimal {
	total := decimal.Zero
	for _, d := range pool.Distributions {
		total = total.Add(d.AllocatedAmount)
	}
	return total
}

// Available is the unallocated remainder of the pool, never negative.
func Available(pool *model.LiquidityPool) decimal.Decimal {
	available := pool.TotalLiquidity.Sub(TotalAllocated(pool))
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

func indexOf(pool *model.LiquidityPool, symbol string) int {
	symbol = NormalizeSymbol(symbol)
	for i := range pool.Distributions {
		if NormalizeSymbol(pool.Distributions[i].Symbol) == symbol {
			return i
		}
	}
	return -1
}

// Find returns the open distribution for symbol.
func Find(pool *model.LiquidityPool, symbol string) (model.Distribution, bool) {
	i := indexOf(pool, symbol)
	if i < 0 {
		return model.Distribution{}, false
	}
	return pool.Distributions[i], true
}

func remove(pool *model.LiquidityPool, i int) {
	pool.Distributions = append(pool.Distributions[:i:i], pool.Distributions[i+1:]...)
}

func checkAlert(pool *model.LiquidityPool, alert *model.Alert) error {
	if alert == nil {
		return fmt.Errorf("%w: alert is required", ErrAlertMismatch)
	}
	if pool.System != "" && alert.System != "" && pool.System != alert.System {
		return fmt.Errorf("%w: alert %d belongs to %s, pool is %s", ErrAlertMismatch, alert.ID, alert.System, pool.System)
	}
	if alert.Status != model.AlertActive {
		return fmt.Errorf("%w: alert %d is %s", ErrAlreadyClosed, alert.ID, alert.Status)
	}
	return nil
}

// direction is +1 for long positions and -1 for shorts.
func direction(action model.Action) decimal.Decimal {
	if action == model.ActionSell {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

func unrealized(d model.Distribution) (decimal.Decimal, decimal.Decimal) {
	if d.EntryPrice.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	move := d.CurrentPrice.Sub(d.EntryPrice).Mul(direction(d.Action))
	return d.Shares.Mul(move), move.Div(d.EntryPrice).Mul(hundred)
}

// SetTotalLiquidity replaces the capital base. It cannot drop below what is
// already allocated.
func SetTotalLiquidity(pool *model.LiquidityPool, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: total liquidity %s is negative", ErrInvalidAmount, amount)
	}
	allocated := TotalAllocated(pool)
	if amount.LessThan(allocated) {
		return fmt.Errorf("%w: total liquidity %s is below allocated %s", ErrInsufficientLiquidity, amount, allocated)
	}
	pool.TotalLiquidity = amount
	return nil
}

// Allocate assigns percentage% of the pool's capital base to alert.
func Allocate(pool *model.LiquidityPool, alert *model.Alert, percentage, entryPrice decimal.Decimal) (model.Distribution, error) {
	if err := checkAlert(pool, alert); err != nil {
		return model.Distribution{}, err
	}
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return model.Distribution{}, fmt.Errorf("%w: %s is outside [0, 100]", ErrInvalidPercentage, percentage)
	}
	if !entryPrice.IsPositive() {
		return model.Distribution{}, fmt.Errorf("%w: entry price %s", ErrInvalidPrice, entryPrice)
	}
	symbol := NormalizeSymbol(alert.Symbol)
	if symbol == "" {
		return model.Distribution{}, fmt.Errorf("%w: alert %d has no symbol", ErrAlertMismatch, alert.ID)
	}
	if existing, ok := Find(pool, symbol); ok {
		return model.Distribution{}, fmt.Errorf("%w: %s is held by alert %d", ErrSymbolAllocated, symbol, existing.AlertID)
	}

	amount := pool.TotalLiquidity.Mul(percentage).Div(hundred)
	allocated := TotalAllocated(pool)
	if allocated.Add(amount).GreaterThan(pool.TotalLiquidity) {
		return model.Distribution{}, fmt.Errorf("%w: need %s, available %s", ErrInsufficientLiquidity, amount, Available(pool))
	}

	action := alert.Action
	if action == "" {
		action = model.ActionBuy
	}
	d := model.Distribution{
		PoolID:               pool.ID,
		AlertID:              alert.ID,
		Symbol:               symbol,
		Action:               action,
		AllocatedAmount:      amount,
		Shares:               amount.Div(entryPrice),
		EntryPrice:           entryPrice,
		CurrentPrice:         entryPrice,
		ProfitLoss:           decimal.Zero,
		ProfitLossPercentage: decimal.Zero,
		RealizedProfitLoss:   decimal.Zero,
	}
	pool.Distributions = append(pool.Distributions, d)
	return d, nil
}

// MarkPrice stores the current price of symbol and recomputes unrealized P&L.
// Marking the same price twice yields the same distribution.
func MarkPrice(pool *model.LiquidityPool, symbol string, currentPrice decimal.Decimal) (model.Distribution, error) {
	if !currentPrice.IsPositive() {
		return model.Distribution{}, fmt.Errorf("%w: current price %s", ErrInvalidPrice, currentPrice)
	}
	i := indexOf(pool, symbol)
	if i < 0 {
		return model.Distribution{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, NormalizeSymbol(symbol))
	}
	d := &pool.Distributions[i]
	d.CurrentPrice = currentPrice
	d.ProfitLoss, d.ProfitLossPercentage = unrealized(*d)
	return *d, nil
}

// PartialSell liquidates percentageOfOriginal points of the alert's original
// position at the midpoint of sellRange.
func PartialSell(pool *model.LiquidityPool, alert *model.Alert, percentageOfOriginal decimal.Decimal, sellRange model.PriceRange, now time.Time) (PartialSaleResult, error) {
	if !sellRange.Min.IsPositive() || !sellRange.Max.IsPositive() || !sellRange.Min.LessThan(sellRange.Max) {
		return PartialSaleResult{}, fmt.Errorf("%w: [%s, %s]", ErrInvalidRange, sellRange.Min, sellRange.Max)
	}
	return sell(pool, alert, percentageOfOriginal, sellRange, now, ReasonFullyLiquidated, false)
}

// Close liquidates everything the alert still holds at finalPrice and always
// removes its distribution.
func Close(pool *model.LiquidityPool, alert *model.Alert, finalPrice decimal.Decimal, reason string, now time.Time) (ClosedSummary, error) {
	if !finalPrice.IsPositive() {
		return ClosedSummary{}, fmt.Errorf("%w: final price %s", ErrInvalidPrice, finalPrice)
	}
	if alert == nil {
		return ClosedSummary{}, fmt.Errorf("%w: alert is required", ErrAlertMismatch)
	}
	if reason == "" {
		reason = "MANUAL"
	}
	res, err := sell(pool, alert, alert.ParticipationPercentage, model.PriceRange{Min: finalPrice, Max: finalPrice}, now, reason, true)
	if err != nil {
		return ClosedSummary{}, err
	}
	return ClosedSummary{
		AlertID:                 alert.ID,
		Symbol:                  res.History.Symbol,
		FinalPrice:              finalPrice,
		Reason:                  reason,
		ReleasedLiquidity:       res.ReleasedLiquidity,
		RealizedProfit:          res.RealizedProfit,
		TotalRealizedProfitLoss: res.History.RealizedProfitLoss,
		History:                 *res.History,
	}, nil
}

func sell(pool *model.LiquidityPool, alert *model.Alert, pct decimal.Decimal, rng model.PriceRange, now time.Time, reason string, closing bool) (PartialSaleResult, error) {
	if err := checkAlert(pool, alert); err != nil {
		return PartialSaleResult{}, err
	}
	i := indexOf(pool, alert.Symbol)
	if i < 0 {
		return PartialSaleResult{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, NormalizeSymbol(alert.Symbol))
	}
	d := pool.Distributions[i]
	if d.AlertID != alert.ID {
		return PartialSaleResult{}, fmt.Errorf("%w: %s is held by alert %d, not %d", ErrAlertMismatch, d.Symbol, d.AlertID, alert.ID)
	}

	before := alert.ParticipationPercentage
	if !closing {
		if !pct.IsPositive() || pct.GreaterThan(hundred) {
			return PartialSaleResult{}, fmt.Errorf("%w: %s is outside (0, 100]", ErrInvalidPercentage, pct)
		}
		if pct.GreaterThan(before.Add(PercentEpsilon)) {
			return PartialSaleResult{}, fmt.Errorf("%w: selling %s with %s remaining", ErrOverSell, pct, before)
		}
	}
	if pct.GreaterThan(before) {
		pct = before
	}

	remaining := before.Sub(pct)
	full := closing || remaining.LessThan(ParticipationEpsilon)

	released := d.AllocatedAmount
	if !full && before.IsPositive() {
		released = d.AllocatedAmount.Mul(pct).Div(before)
	}
	price := rng.Midpoint()
	realized := decimal.Zero
	soldShares := d.Shares
	if d.EntryPrice.IsPositive() {
		realized = released.Div(d.EntryPrice).Mul(price.Sub(d.EntryPrice)).Mul(direction(d.Action))
		if !full {
			soldShares = released.Div(d.EntryPrice)
		}
	}

	executedAt := now
	sale := model.PartialSale{
		AlertID:    alert.ID,
		Percentage: pct,
		PriceRange: rng,
		Executed:   true,
		ExecutedAt: &executedAt,
	}
	res := PartialSaleResult{
		ReleasedLiquidity: released,
		RealizedProfit:    realized,
		SalePrice:         price,
		Sale:              sale,
		Closed:            full,
	}

	// Validation is done; from here on the command cannot fail.
	d.AllocatedAmount = d.AllocatedAmount.Sub(released)
	d.Shares = d.Shares.Sub(soldShares)
	d.RealizedProfitLoss = d.RealizedProfitLoss.Add(realized)
	d.ProfitLoss, d.ProfitLossPercentage = unrealized(d)
	pool.Distributions[i] = d

	if pct.IsPositive() {
		alert.PartialSales = append(alert.PartialSales, sale)
	}

	if !full {
		alert.ParticipationPercentage = remaining
		res.NewParticipationPercentage = remaining
		return res, nil
	}

	remove(pool, i)
	alert.ParticipationPercentage = decimal.Zero
	alert.Status = model.AlertClosed
	alert.AvailableForPurchase = false
	alert.CloseReason = reason
	alert.ClosedAt = &executedAt
	alert.RealizedProfitLoss = alert.RealizedProfitLoss.Add(d.RealizedProfitLoss)

	res.NewParticipationPercentage = decimal.Zero
	res.History = &model.DistributionHistory{
		System:             pool.System,
		AlertID:            alert.ID,
		Symbol:             d.Symbol,
		EntryPrice:         d.EntryPrice,
		ExitPrice:          price,
		RealizedProfitLoss: d.RealizedProfitLoss,
		Reason:             reason,
		ClosedAt:           executedAt,
	}
	return res, nil
}

// Prune drops distributions whose alert is no longer active and returns them.
// Their capital goes back to the unallocated remainder.
func Prune(pool *model.LiquidityPool, isActive func(alertID uint) bool) []model.Distribution {
	var kept, pruned []model.Distribution
	for _, d := range pool.Distributions {
		if isActive(d.AlertID) {
			kept = append(kept, d)
			continue
		}
		pruned = append(pruned, d)
	}
	if len(pruned) > 0 {
		pool.Distributions = kept
	}
	return pruned
}
