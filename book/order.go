// Package book holds the order and position domain types shared by the
// capital ledger and the stop manager. The types are plain snapshots;
// mutation goes through the ledger's Book so its invariants hold.
package book

import (
	"fmt"

	"github.com/matteolongo/swing-screener-sub002/risk"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	OrderPending OrderStatus = iota
	OrderFilled
	OrderCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case OrderPending:
		return "pending"
	case OrderFilled:
		return "filled"
	case OrderCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
}

// OrderKind distinguishes purchases from exits. Only entry orders
// reserve capital.
type OrderKind int

const (
	KindEntry OrderKind = iota
	KindStop
	KindTakeProfit
)

func (k OrderKind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindStop:
		return "stop"
	case KindTakeProfit:
		return "take_profit"
	default:
		return fmt.Sprintf("OrderKind(%d)", int(k))
	}
}

// Order is a single broker order. LimitPrice/StopPrice of 0 mean unset.
type Order struct {
	ID         string      `json:"id"`
	Ticker     string      `json:"ticker"`
	Status     OrderStatus `json:"status"`
	Kind       OrderKind   `json:"kind"`
	Quantity   int         `json:"quantity"`
	LimitPrice float64     `json:"limit_price,omitempty"`
	StopPrice  float64     `json:"stop_price,omitempty"`
	PositionID string      `json:"position_id,omitempty"`
}

// Validate rejects malformed orders before they reach the book.
func (o Order) Validate() error {
	if o.Ticker == "" {
		return fmt.Errorf("%w: order ticker is required", risk.ErrInvalidInput)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: order quantity %d must be positive", risk.ErrInvalidInput, o.Quantity)
	}
	if o.LimitPrice < 0 || o.StopPrice < 0 {
		return fmt.Errorf("%w: order prices must not be negative", risk.ErrInvalidInput)
	}
	if o.Kind == KindEntry && o.LimitPrice <= 0 {
		return fmt.Errorf("%w: entry order requires a positive limit price", risk.ErrInvalidInput)
	}
	return nil
}

// RequiredCapital is the capital this order would reserve if admitted.
// Exits reserve nothing.
func (o Order) RequiredCapital() float64 {
	if o.Kind != KindEntry {
		return 0
	}
	return risk.RequiredCapital(o.LimitPrice, o.Quantity)
}
