package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"cafe-backoffice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() domain.Order {
	mini := decimal.NewFromInt(29)
	return domain.Order{
		ID: "ord-1",
		Items: []domain.CartItem{
			{Product: domain.Product{ID: "1", Name: "Honey Butter Waffle", MiniPrice: &mini, RegularPrice: decimal.NewFromInt(49)}, Quantity: 2, Size: domain.SizeMini},
			{Product: domain.Product{ID: "9", Name: "Red Velvet Waffle", RegularPrice: decimal.NewFromInt(99)}, Quantity: 1},
		},
		Total:  decimal.NewFromInt(157),
		Date:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Status: domain.OrderStatusCompleted,
	}
}

func TestNewOrderConfirmed(t *testing.T) {
	msg := NewOrderConfirmed(sampleOrder())

	assert.Equal(t, TypeOrderConfirmed, msg.Type)
	assert.Equal(t, "ord-1", msg.OrderID)
	require.Len(t, msg.Lines, 2)
	assert.Equal(t, "58", msg.Lines[0].LineTotal.String())
	assert.Equal(t, domain.SizeMini, msg.Lines[0].Size)
	assert.Equal(t, "99", msg.Lines[1].LineTotal.String())

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"total":"157"`)
	assert.Contains(t, string(body), `"type":"order.confirmed"`)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.PublishOrderConfirmed(context.Background(), NewOrderConfirmed(sampleOrder())))
}

func TestAMQPPublisher_Integration(t *testing.T) {
	url := os.Getenv("TEST_RABBITMQ_URL")
	if url == "" {
		t.Skip("TEST_RABBITMQ_URL not set")
	}
	pool, err := NewChannelPool(url, "cafe_orders_test", 2, nil)
	if err != nil {
		t.Skipf("rabbitmq unavailable: %v", err)
	}
	defer pool.Close()

	pub := NewAMQPPublisher(pool, nil)
	require.NoError(t, pub.PublishOrderConfirmed(context.Background(), NewOrderConfirmed(sampleOrder())))

	ch, err := pool.Get()
	require.NoError(t, err)
	defer pool.Put(ch)
	delivery, ok, err := ch.Get("cafe_orders_test", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TypeOrderConfirmed, delivery.Type)
	assert.Equal(t, "ord-1", delivery.MessageId)
}
