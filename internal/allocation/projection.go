// Package allocation projects a liquidity pool into pie chart segments.
package allocation

import (
	"trading-alerts/internal/ledger"
	"trading-alerts/internal/model"

	"github.com/shopspring/decimal"
)

const (
	AvailableSymbol = "LIQUIDEZ"
	AvailableColor  = "#9CA3AF"
)

var (
	hundred    = decimal.NewFromInt(100)
	fullCircle = decimal.NewFromInt(360)

	palette = []string{
		"#2563EB", "#16A34A", "#F59E0B", "#DC2626", "#7C3AED",
		"#0891B2", "#DB2777", "#65A30D", "#EA580C", "#4F46E5",
	}
)

type Segment struct {
	Symbol          string          `json:"symbol"`
	AlertID         uint            `json:"alert_id,omitempty"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	SizePercent     decimal.Decimal `json:"size_percent"`
	StartAngle      decimal.Decimal `json:"start_angle"`
	EndAngle        decimal.Decimal `json:"end_angle"`
	Color           string          `json:"color"`
	Available       bool            `json:"available"`
}

// Project lays out one segment per distribution whose alert is in
// activeAlerts, in pool order, followed by the available-liquidity segment.
// It never fails: with nothing to size against every segment is zero.
func Project(pool *model.LiquidityPool, activeAlerts []model.Alert) []Segment {
	active := make(map[uint]bool, len(activeAlerts))
	for _, a := range activeAlerts {
		if a.Status == model.AlertActive {
			active[a.ID] = true
		}
	}

	var included []model.Distribution
	allocated := decimal.Zero
	if pool != nil {
		for _, d := range pool.Distributions {
			if !active[d.AlertID] {
				continue
			}
			included = append(included, d)
			allocated = allocated.Add(d.AllocatedAmount)
		}
	}

	totalBase := allocated
	if pool != nil && pool.TotalLiquidity.IsPositive() {
		totalBase = pool.TotalLiquidity
	}

	available := totalBase.Sub(allocated)
	if available.IsNegative() {
		available = decimal.Zero
	}

	segments := make([]Segment, 0, len(included)+1)
	angle := decimal.Zero
	sized := decimal.Zero
	add := func(seg Segment) {
		switch {
		case !totalBase.IsPositive():
			seg.SizePercent = decimal.Zero
		case seg.Available:
			// The remainder closes the circle exactly whatever the division rounding.
			seg.SizePercent = decimal.Max(hundred.Sub(sized), decimal.Zero)
		default:
			seg.SizePercent = seg.AllocatedAmount.Div(totalBase).Mul(hundred)
		}
		sized = sized.Add(seg.SizePercent)
		seg.StartAngle = angle
		angle = angle.Add(seg.SizePercent.Div(hundred).Mul(fullCircle))
		seg.EndAngle = angle
		segments = append(segments, seg)
	}

	for i, d := range included {
		add(Segment{
			Symbol:          d.Symbol,
			AlertID:         d.AlertID,
			AllocatedAmount: d.AllocatedAmount,
			Color:           palette[i%len(palette)],
		})
	}
	add(Segment{
		Symbol:          AvailableSymbol,
		AllocatedAmount: available,
		Color:           AvailableColor,
		Available:       true,
	})

	last := &segments[len(segments)-1]
	if totalBase.IsPositive() && allocated.LessThanOrEqual(totalBase) {
		last.EndAngle = fullCircle
	}
	return segments
}

// Summary is a compact read model of a pool for dashboards.
type Summary struct {
	System         model.TradingSystem `json:"system"`
	TotalLiquidity decimal.Decimal     `json:"total_liquidity"`
	Allocated      decimal.Decimal     `json:"allocated"`
	Available      decimal.Decimal     `json:"available"`
	Segments       []Segment           `json:"segments"`
}

func Summarize(pool *model.LiquidityPool, activeAlerts []model.Alert) Summary {
	return Summary{
		System:         pool.System,
		TotalLiquidity: pool.TotalLiquidity,
		Allocated:      ledger.TotalAllocated(pool),
		Available:      ledger.Available(pool),
		Segments:       Project(pool, activeAlerts),
	}
}
