package status

import (
	"testing"
	"time"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := utils.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	return loc
}

func priceRange(min, max int64) *model.PriceRange {
	return &model.PriceRange{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

func opStatus(s model.OperationStatus) *model.OperationStatus {
	return &s
}

func TestResolver_Resolve(t *testing.T) {
	loc := mustLocation(t)
	now := time.Date(2026, 10, 18, 14, 30, 0, 0, loc)
	today := time.Date(2026, 10, 18, 9, 0, 0, 0, loc)
	threeDaysAgo := now.AddDate(0, 0, -3)
	// 23:30 on the 17th local is already the 18th in UTC.
	lateYesterday := time.Date(2026, 10, 17, 23, 30, 0, 0, loc)

	activeToday := func() *model.Alert {
		return &model.Alert{Status: model.AlertActive, Date: &today}
	}

	tests := []struct {
		name  string
		op    *model.Operation
		alert *model.Alert
		want  DisplayStatus
	}{
		{
			name:  "unconfirmed range on active alert created today",
			op:    &model.Operation{PriceRange: priceRange(140, 160), IsPriceConfirmed: false},
			alert: activeToday(),
			want:  AConfirmar,
		},
		{
			name: "discarded three days ago with the same unconfirmed range",
			op:   &model.Operation{PriceRange: priceRange(140, 160)},
			alert: &model.Alert{
				Status: model.AlertDescartada, Date: &threeDaysAgo, DescartadaAt: &threeDaysAgo,
			},
			want: Rechazada,
		},
		{
			name:  "discarded three days ago without a range",
			op:    &model.Operation{},
			alert: &model.Alert{Status: model.AlertDescartada, DescartadaAt: &threeDaysAgo},
			want:  Rechazada,
		},
		{
			name:  "discarded today",
			op:    &model.Operation{},
			alert: &model.Alert{Status: model.AlertDescartada, DescartadaAt: &today},
			want:  Ejecutada,
		},
		{
			name:  "discarded without timestamp",
			op:    &model.Operation{},
			alert: &model.Alert{Status: model.AlertDescartada},
			want:  Rechazada,
		},
		{
			name:  "completed override wins over everything",
			op:    &model.Operation{Status: opStatus(model.OperationCompleted), PriceRange: priceRange(1, 2)},
			alert: activeToday(),
			want:  Completado,
		},
		{
			name:  "cancelled override shows as desestimada",
			op:    &model.Operation{Status: opStatus(model.OperationCancelled)},
			alert: activeToday(),
			want:  Desestimada,
		},
		{
			name: "cancelled override without alert is still desestimada",
			op:   &model.Operation{Status: opStatus(model.OperationCancelled)},
			want: Desestimada,
		},
		{
			name:  "pending override",
			op:    &model.Operation{Status: opStatus(model.OperationPending)},
			alert: &model.Alert{Status: model.AlertClosed},
			want:  Pendiente,
		},
		{
			name:  "active override falls through to the range rule",
			op:    &model.Operation{Status: opStatus(model.OperationActive), PriceRange: priceRange(140, 160)},
			alert: &model.Alert{Status: model.AlertClosed},
			want:  AConfirmar,
		},
		{
			name:  "active override falls through to alert rules",
			op:    &model.Operation{Status: opStatus(model.OperationActive)},
			alert: &model.Alert{Status: model.AlertClosed},
			want:  Ejecutada,
		},
		{
			name:  "confirmed range is not pending",
			op:    &model.Operation{PriceRange: priceRange(140, 160), IsPriceConfirmed: true},
			alert: activeToday(),
			want:  Ejecutada,
		},
		{
			name:  "malformed range is ignored",
			op:    &model.Operation{PriceRange: priceRange(160, 140)},
			alert: activeToday(),
			want:  Ejecutada,
		},
		{
			name: "no alert and no range",
			op:   &model.Operation{},
			want: Ejecutada,
		},
		{
			name: "no alert with unconfirmed range",
			op:   &model.Operation{PriceRange: priceRange(10, 12)},
			want: AConfirmar,
		},
		{
			name:  "stopped alert",
			op:    &model.Operation{},
			alert: &model.Alert{Status: model.AlertStopped},
			want:  Ejecutada,
		},
		{
			name:  "active alert from a previous day",
			alert: &model.Alert{Status: model.AlertActive, Date: &threeDaysAgo, EntryPriceRange: priceRange(1, 2)},
			want:  Ejecutada,
		},
		{
			name:  "active alert from today already confirmed",
			alert: &model.Alert{Status: model.AlertActive, Date: &today, EntryPriceRange: priceRange(1, 2), FinalPriceSetAt: &now},
			want:  Ejecutada,
		},
		{
			name:  "active alert from today with its own unconfirmed range",
			alert: &model.Alert{Status: model.AlertActive, Date: &today, EntryPriceRange: priceRange(1, 2)},
			want:  AConfirmar,
		},
		{
			name:  "active alert from today with a fixed entry",
			alert: &model.Alert{Status: model.AlertActive, Date: &today},
			want:  Ejecutada,
		},
		{
			name:  "date falls back to created at",
			alert: &model.Alert{Status: model.AlertActive, CreatedAt: today, EntryPriceRange: priceRange(1, 2)},
			want:  AConfirmar,
		},
		{
			name:  "missing dates count as not today",
			alert: &model.Alert{Status: model.AlertActive, EntryPriceRange: priceRange(1, 2)},
			want:  Ejecutada,
		},
		{
			name:  "today is evaluated in the canonical zone",
			alert: &model.Alert{Status: model.AlertActive, Date: &lateYesterday, EntryPriceRange: priceRange(1, 2)},
			want:  Ejecutada,
		},
		{
			name:  "linked alert on the operation is used",
			op:    &model.Operation{Alert: &model.Alert{Status: model.AlertDescartada, DescartadaAt: &threeDaysAgo}},
			want:  Rechazada,
		},
		{
			name: "nothing at all",
			want: Ejecutada,
		},
	}

	r := NewResolver(loc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.op, tt.alert, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, r.Resolve(tt.op, tt.alert, now), "resolve must be deterministic")
		})
	}
}

func TestResolver_NeverPendingWithoutRange(t *testing.T) {
	loc := mustLocation(t)
	now := time.Date(2026, 10, 18, 14, 30, 0, 0, loc)
	r := NewResolver(loc)

	for _, st := range []model.AlertStatus{model.AlertActive, model.AlertClosed, model.AlertStopped, model.AlertDescartada} {
		alert := &model.Alert{Status: st, Date: &now, DescartadaAt: &now}
		assert.NotEqual(t, AConfirmar, r.Resolve(&model.Operation{}, alert, now), st)

		alert.EntryPriceRange = priceRange(140, 160)
		assert.NotEqual(t, AConfirmar, r.Resolve(&model.Operation{}, alert, now), "%s with entry band", st)
		assert.NotEqual(t, AConfirmar, r.Resolve(&model.Operation{Alert: alert}, nil, now), "%s linked with entry band", st)
	}
}

func TestResolver_AlertBandOnlyWithoutOperation(t *testing.T) {
	loc := mustLocation(t)
	now := time.Date(2026, 10, 18, 14, 30, 0, 0, loc)
	alert := &model.Alert{Status: model.AlertActive, Date: &now, EntryPriceRange: priceRange(140, 160)}
	r := NewResolver(loc)

	assert.Equal(t, AConfirmar, r.Resolve(nil, alert, now))
	assert.Equal(t, Ejecutada, r.Resolve(&model.Operation{}, alert, now))
	assert.Equal(t, AConfirmar, r.Resolve(&model.Operation{PriceRange: priceRange(140, 160)}, alert, now))
}

func TestNewResolver_DefaultsToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NewResolver(nil).Location)
}
