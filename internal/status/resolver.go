// Package status derives the display status of an operation and its alert.
package status

import (
	"time"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"
)

type DisplayStatus string

const (
	Ejecutada  DisplayStatus = "Ejecutada"
	Rechazada  DisplayStatus = "Rechazada"
	AConfirmar DisplayStatus = "A confirmar"
	Completado DisplayStatus = "Completado"
	Cancelado  DisplayStatus = "Cancelado"
	Pendiente  DisplayStatus = "Pendiente"
	// Desestimada is what users see for a CANCELLED override.
	Desestimada DisplayStatus = "Desestimada"
)

// Resolver is pure: the same operation, alert and now always give the same
// status. "Today" is evaluated in Location.
type Resolver struct {
	Location *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{Location: loc}
}

// Resolve never fails. When alert is nil the operation's linked alert is used.
func (r *Resolver) Resolve(op *model.Operation, alert *model.Alert, now time.Time) DisplayStatus {
	if alert == nil && op != nil {
		alert = op.Alert
	}

	if op != nil && op.Status != nil {
		switch *op.Status {
		case model.OperationCompleted:
			return Completado
		case model.OperationCancelled:
			return Desestimada
		case model.OperationPending:
			return Pendiente
		}
	}

	if hasUnconfirmedRange(op, alert) {
		return AConfirmar
	}

	if alert == nil {
		if op != nil && op.Status != nil {
			switch *op.Status {
			case model.OperationCompleted:
				return Completado
			case model.OperationCancelled:
				return Cancelado
			case model.OperationPending:
				return Pendiente
			}
		}
		return Ejecutada
	}

	switch alert.Status {
	case model.AlertClosed, model.AlertStopped:
		return Ejecutada
	case model.AlertActive:
		if !r.isFromToday(alert, now) {
			return Ejecutada
		}
		if alert.FinalPriceSetAt != nil {
			return Ejecutada
		}
	case model.AlertDescartada:
		if alert.DescartadaAt != nil && utils.IsSameDay(*alert.DescartadaAt, now, r.Location) {
			return Ejecutada
		}
		return Rechazada
	}

	// Without an operation the alert's own entry band stands in for it. A
	// present operation without a band never shows as pending.
	if op == nil && alert.EntryPriceRange != nil && alert.EntryPriceRange.Valid() && alert.FinalPriceSetAt == nil {
		return AConfirmar
	}
	return Ejecutada
}

// hasUnconfirmedRange is true when the operation carries a valid price band
// that was never confirmed. A discarded alert's band will never be confirmed,
// so it no longer counts as pending.
func hasUnconfirmedRange(op *model.Operation, alert *model.Alert) bool {
	if op == nil || op.PriceRange == nil || !op.PriceRange.Valid() || op.IsPriceConfirmed {
		return false
	}
	if alert != nil && alert.Status == model.AlertDescartada {
		return false
	}
	return true
}

func (r *Resolver) isFromToday(alert *model.Alert, now time.Time) bool {
	var alertDate time.Time
	switch {
	case alert.Date != nil && !alert.Date.IsZero():
		alertDate = *alert.Date
	case !alert.CreatedAt.IsZero():
		alertDate = alert.CreatedAt
	default:
		return false
	}
	return utils.IsSameDay(alertDate, now, r.Location)
}
