package allocation

import (
	"encoding/json"
	"testing"

	"trading-alerts/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func pool(total string, allocations ...model.Distribution) *model.LiquidityPool {
	return &model.LiquidityPool{System: model.TraderCall, TotalLiquidity: d(total), Distributions: allocations}
}

func dist(alertID uint, symbol, amount string) model.Distribution {
	return model.Distribution{AlertID: alertID, Symbol: symbol, AllocatedAmount: d(amount)}
}

func active(ids ...uint) []model.Alert {
	var alerts []model.Alert
	for _, id := range ids {
		alerts = append(alerts, model.Alert{ID: id, Status: model.AlertActive})
	}
	return alerts
}

func TestProject_TwoAllocations(t *testing.T) {
	p := pool("5000", dist(1, "AAPL", "1000"), dist(2, "MSFT", "1000"))

	segments := Project(p, active(1, 2))
	require.Len(t, segments, 3)

	assert.Equal(t, "AAPL", segments[0].Symbol)
	assertDecimal(t, "20", segments[0].SizePercent)
	assertDecimal(t, "0", segments[0].StartAngle)
	assertDecimal(t, "72", segments[0].EndAngle)

	assert.Equal(t, "MSFT", segments[1].Symbol)
	assertDecimal(t, "20", segments[1].SizePercent)
	assertDecimal(t, "72", segments[1].StartAngle)
	assertDecimal(t, "144", segments[1].EndAngle)

	assert.True(t, segments[2].Available)
	assert.Equal(t, AvailableSymbol, segments[2].Symbol)
	assertDecimal(t, "3000", segments[2].AllocatedAmount)
	assertDecimal(t, "60", segments[2].SizePercent)
	assertDecimal(t, "144", segments[2].StartAngle)
	assertDecimal(t, "360", segments[2].EndAngle)

	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.SizePercent)
	}
	assertDecimal(t, "100", total)
}

func TestProject_ExcludesInactiveAlerts(t *testing.T) {
	p := pool("5000", dist(1, "AAPL", "1000"), dist(2, "MSFT", "1000"))
	alerts := []model.Alert{
		{ID: 1, Status: model.AlertActive},
		{ID: 2, Status: model.AlertClosed},
	}

	segments := Project(p, alerts)
	require.Len(t, segments, 2)
	assert.Equal(t, "AAPL", segments[0].Symbol)
	assertDecimal(t, "4000", segments[1].AllocatedAmount)
	assertDecimal(t, "80", segments[1].SizePercent)
}

func TestProject_AvailableSegmentAlwaysPresent(t *testing.T) {
	p := pool("2000", dist(1, "AAPL", "1000"), dist(2, "MSFT", "1000"))

	segments := Project(p, active(1, 2))
	require.Len(t, segments, 3)
	assert.True(t, segments[2].Available)
	assertDecimal(t, "0", segments[2].AllocatedAmount)
	assertDecimal(t, "0", segments[2].SizePercent)
	assertDecimal(t, "360", segments[2].EndAngle)
}

func TestProject_UncapitalizedPoolFallsBackToAllocatedSum(t *testing.T) {
	p := pool("0", dist(1, "AAPL", "300"), dist(2, "MSFT", "100"))

	segments := Project(p, active(1, 2))
	require.Len(t, segments, 3)
	assertDecimal(t, "75", segments[0].SizePercent)
	assertDecimal(t, "25", segments[1].SizePercent)
	assertDecimal(t, "0", segments[2].SizePercent)
	assertDecimal(t, "360", segments[2].EndAngle)
}

func TestProject_ZeroBase(t *testing.T) {
	segments := Project(pool("0"), nil)
	require.Len(t, segments, 1)
	assertDecimal(t, "0", segments[0].SizePercent)
	assertDecimal(t, "0", segments[0].EndAngle)

	segments = Project(nil, nil)
	require.Len(t, segments, 1)
	assert.True(t, segments[0].Available)
}

func TestProject_Deterministic(t *testing.T) {
	p := pool("9000", dist(1, "AAPL", "1000"), dist(2, "MSFT", "2000"), dist(3, "TSLA", "1500"))
	alerts := active(3, 1, 2)

	first, err := json.Marshal(Project(p, alerts))
	require.NoError(t, err)
	second, err := json.Marshal(Project(p, alerts))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	segments := Project(p, alerts)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA", AvailableSymbol},
		[]string{segments[0].Symbol, segments[1].Symbol, segments[2].Symbol, segments[3].Symbol})
	assert.NotEqual(t, segments[0].Color, segments[1].Color)
}

func TestSummarize(t *testing.T) {
	p := pool("5000", dist(1, "AAPL", "1000"))
	s := Summarize(p, active(1))

	assert.Equal(t, model.TraderCall, s.System)
	assertDecimal(t, "1000", s.Allocated)
	assertDecimal(t, "4000", s.Available)
	assert.Len(t, s.Segments, 2)
}

func TestProject_ThirdsSumToExactlyHundred(t *testing.T) {
	p := pool("3000", dist(1, "AAPL", "1000"), dist(2, "MSFT", "1000"))

	segments := Project(p, active(1, 2))
	require.Len(t, segments, 3)

	total := decimal.Zero
	for _, s := range segments {
		assert.True(t, s.SizePercent.GreaterThan(d("33.33")), "%s got %s", s.Symbol, s.SizePercent)
		total = total.Add(s.SizePercent)
	}
	assertDecimal(t, "100", total)
	assertDecimal(t, "360", segments[2].EndAngle)
	assert.True(t, segments[1].EndAngle.Equal(segments[2].StartAngle))
}
