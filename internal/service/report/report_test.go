package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafe-backoffice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05.000", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func order(id string, total int64, status domain.OrderStatus, date time.Time, items ...domain.CartItem) domain.Order {
	return domain.Order{ID: id, Total: decimal.NewFromInt(total), Status: status, Date: date, Items: items}
}

func TestAggregateCountsOnlyCompletedSales(t *testing.T) {
	orders := []domain.Order{
		order("a", 100, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000")),
		order("b", 50, domain.OrderStatusPending, at("2025-01-01T11:00:00.000")),
	}
	s := Aggregate(orders)
	assert.Equal(t, "100", s.TotalSales.String())
	assert.Equal(t, 2, s.OrderCount)
	assert.Equal(t, 1, s.CompletedCount)
	assert.Equal(t, "100", s.AverageOrderValue.String())
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	assert.True(t, s.TotalSales.IsZero())
	assert.True(t, s.AverageOrderValue.IsZero())
	assert.Zero(t, s.OrderCount)

	s = Aggregate([]domain.Order{order("c", 30, domain.OrderStatusCancelled, at("2025-01-01T10:00:00.000"))})
	assert.Equal(t, 1, s.OrderCount)
	assert.True(t, s.AverageOrderValue.IsZero())
}

func TestAggregateAverageIsExact(t *testing.T) {
	s := Aggregate([]domain.Order{
		order("a", 10, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000")),
		order("b", 15, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000")),
	})
	assert.Equal(t, "12.5", s.AverageOrderValue.String())
}

func TestFilterByRangeWidensEndOfDay(t *testing.T) {
	orders := []domain.Order{
		order("before", 1, domain.OrderStatusCompleted, at("2024-12-31T23:59:59.999")),
		order("start", 1, domain.OrderStatusCompleted, at("2025-01-01T00:00:00.000")),
		order("last", 1, domain.OrderStatusCompleted, at("2025-01-01T23:59:59.000")),
		order("after", 1, domain.OrderStatusCompleted, at("2025-01-02T00:00:00.001")),
	}
	day := at("2025-01-01T15:00:00.000")
	got := FilterByRange(orders, ptr(day), ptr(day), time.UTC)

	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"start", "last"}, ids)
}

func TestFilterByRangeKeepsSuppliedCalendarDate(t *testing.T) {
	orders := []domain.Order{
		order("in", 1, domain.OrderStatusCompleted, at("2025-01-01T23:59:59.000")),
		order("out", 1, domain.OrderStatusCompleted, at("2025-01-02T00:00:00.001")),
	}
	start := at("2025-01-01T00:00:00.000")
	// 22:00 at -05:00 is already 2025-01-02 in UTC; the bound stays on 2025-01-01.
	end, err := time.Parse(time.RFC3339, "2025-01-01T22:00:00-05:00")
	require.NoError(t, err)

	got := FilterByRange(orders, ptr(start), ptr(end), time.UTC)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].ID)
}

func TestFilterByRangeMissingBoundKeepsAll(t *testing.T) {
	orders := []domain.Order{
		order("a", 1, domain.OrderStatusCompleted, at("2020-01-01T00:00:00.000")),
		order("b", 1, domain.OrderStatusCompleted, at("2030-01-01T00:00:00.000")),
	}
	day := at("2025-01-01T00:00:00.000")
	assert.Len(t, FilterByRange(orders, nil, nil, time.UTC), 2)
	assert.Len(t, FilterByRange(orders, ptr(day), nil, time.UTC), 2)
	assert.Len(t, FilterByRange(orders, nil, ptr(day), time.UTC), 2)
}

func TestFilterByRangeUsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// 2025-01-01 20:00 UTC is already 2025-01-02 in Kolkata.
	orders := []domain.Order{order("late", 1, domain.OrderStatusCompleted, at("2025-01-01T20:00:00.000"))}
	day := time.Date(2025, 1, 1, 12, 0, 0, 0, kolkata)

	assert.Empty(t, FilterByRange(orders, ptr(day), ptr(day), kolkata))
	assert.Len(t, FilterByRange(orders, ptr(day), ptr(day), time.UTC), 1)
}

func sampleItems() []domain.CartItem {
	mini := decimal.NewFromInt(29)
	return []domain.CartItem{
		{Product: domain.Product{ID: "1", Name: "Honey Butter Waffle", Category: "WAFFLES", MiniPrice: &mini, RegularPrice: decimal.NewFromInt(49)}, Quantity: 2, Size: domain.SizeMini},
		{Product: domain.Product{ID: "9", Name: "Red Velvet Waffle", Category: "PREMIUM SPECIALS", RegularPrice: decimal.NewFromInt(99)}, Quantity: 1, Size: domain.SizeMini},
		{Product: domain.Product{ID: "1", Name: "Honey Butter Waffle", Category: "WAFFLES", MiniPrice: &mini, RegularPrice: decimal.NewFromInt(49)}, Quantity: 1, Size: domain.SizeRegular},
	}
}

func TestLineItemsAppliesPriceRuleAndRestarts(t *testing.T) {
	o := order("a", 206, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000"), sampleItems()...)
	seq := LineItems(o)

	var first []string
	for li := range seq {
		first = append(first, li.Name+"/"+string(li.Size)+"="+li.LineTotal.String())
	}
	assert.Equal(t, []string{
		"Honey Butter Waffle/mini=58",
		"Red Velvet Waffle/mini=99",
		"Honey Butter Waffle/regular=49",
	}, first)

	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 3, count)

	for li := range seq {
		assert.Equal(t, "1", li.ProductID)
		break
	}
	assert.Len(t, Breakdown(o), 3)
}

func TestByCategory(t *testing.T) {
	orders := []domain.Order{
		order("a", 206, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000"), sampleItems()...),
		order("b", 99, domain.OrderStatusPending, at("2025-01-01T11:00:00.000"), sampleItems()[1]),
	}
	cats, prods := ByCategory(orders)

	require.Len(t, cats, 2)
	assert.Equal(t, "WAFFLES", cats[0].Category)
	assert.Equal(t, 3, cats[0].Quantity)
	assert.Equal(t, "107", cats[0].Sales.String())
	assert.Equal(t, "99", cats[1].Sales.String())

	require.Len(t, prods, 2)
	assert.Equal(t, "1", prods[0].ProductID)
	assert.Equal(t, 3, prods[0].Quantity)
}

func TestRecentNewestFirst(t *testing.T) {
	var orders []domain.Order
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		orders = append(orders, order(id, 1, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000")))
	}
	got := Recent(orders, 5)
	require.Len(t, got, 5)
	assert.Equal(t, "7", got[0].ID)
	assert.Equal(t, "3", got[4].ID)
	assert.Len(t, Recent(orders[:2], 5), 2)
}

type stubOrders struct {
	orders []domain.Order
	err    error
}

func (s stubOrders) List(context.Context) ([]domain.Order, error) { return s.orders, s.err }

func TestServiceReport(t *testing.T) {
	svc := New(stubOrders{orders: []domain.Order{
		order("a", 206, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000"), sampleItems()...),
		order("b", 50, domain.OrderStatusCompleted, at("2025-01-03T10:00:00.000")),
	}}, nil)

	day := at("2025-01-01T00:00:00.000")
	r, err := svc.Report(context.Background(), ptr(day), ptr(day))
	require.NoError(t, err)
	assert.Equal(t, 1, r.OrderCount)
	assert.Equal(t, "206", r.TotalSales.String())
	require.Len(t, r.Orders, 1)
	assert.Len(t, r.Orders[0].Lines, 3)

	all, err := svc.Report(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, all.OrderCount)
	assert.Equal(t, "128", all.AverageOrderValue.String())
}

func TestServiceDashboard(t *testing.T) {
	svc := New(stubOrders{orders: []domain.Order{
		order("a", 206, domain.OrderStatusCompleted, at("2025-01-01T10:00:00.000"), sampleItems()...),
	}}, time.UTC)
	d, err := svc.Dashboard(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, d.CompletedCount)
	assert.Len(t, d.Categories, 2)
	assert.Len(t, d.Recent, 1)
}

func TestServicePropagatesStoreError(t *testing.T) {
	remote := domain.Remote("get", "orders", errors.New("timeout"))
	svc := New(stubOrders{err: remote}, nil)
	_, err := svc.Report(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrRemote)
}
