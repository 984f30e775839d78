package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is the immutable record produced from a cart at checkout.
type Order struct {
	ID     string          `json:"id" validate:"required"`
	Items  []CartItem      `json:"items" validate:"dive"`
	Total  decimal.Decimal `json:"total"`
	Date   time.Time       `json:"date" validate:"required"`
	Status OrderStatus     `json:"status" validate:"oneof=pending completed cancelled"`
}

func (o Order) Completed() bool {
	return o.Status == OrderStatusCompleted
}
