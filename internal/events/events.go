package events

import (
	"context"
	"time"

	"cafe-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

const TypeOrderConfirmed = "order.confirmed"

// Publisher delivers domain events to whatever is listening downstream.
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, msg OrderConfirmed) error
}

type OrderLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Size      domain.Size     `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderConfirmed is the message body published after an order is stored.
type OrderConfirmed struct {
	Type    string          `json:"type"`
	OrderID string          `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
	Date    time.Time       `json:"date"`
	Lines   []OrderLine     `json:"lines"`
}

func NewOrderConfirmed(o domain.Order) OrderConfirmed {
	lines := make([]OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, OrderLine{
			ProductID: item.ID,
			Name:      item.Name,
			Size:      item.Size,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return OrderConfirmed{
		Type:    TypeOrderConfirmed,
		OrderID: o.ID,
		Total:   o.Total,
		Date:    o.Date,
		Lines:   lines,
	}
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderConfirmed(context.Context, OrderConfirmed) error { return nil }
