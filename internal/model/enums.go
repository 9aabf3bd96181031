package model

import (
	"fmt"
	"strings"
)

type TradingSystem string

const (
	TraderCall TradingSystem = "TRADER_CALL"
	SmartMoney TradingSystem = "SMART_MONEY"
)

func (s TradingSystem) Valid() bool {
	return s == TraderCall || s == SmartMoney
}

func TradingSystems() []TradingSystem {
	return []TradingSystem{TraderCall, SmartMoney}
}

// ParseTradingSystem accepts "TRADER_CALL" as well as URL forms such as
// "trader-call".
func ParseTradingSystem(s string) (TradingSystem, error) {
	system := TradingSystem(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !system.Valid() {
		return "", fmt.Errorf("unknown trading system %q", s)
	}
	return system, nil
}

type AlertStatus string

const (
	AlertActive     AlertStatus = "ACTIVE"
	AlertClosed     AlertStatus = "CLOSED"
	AlertStopped    AlertStatus = "STOPPED"
	AlertDescartada AlertStatus = "DESCARTADA"
)

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

type OperationType string

const (
	OperationCompra OperationType = "COMPRA"
	OperationVenta  OperationType = "VENTA"
)

type OperationStatus string

const (
	OperationActive    OperationStatus = "ACTIVE"
	OperationCompleted OperationStatus = "COMPLETED"
	OperationCancelled OperationStatus = "CANCELLED"
	OperationPending   OperationStatus = "PENDING"
)
