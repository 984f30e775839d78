package report

import (
	"iter"
	"time"

	"cafe-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary is the aggregate view over a set of orders. Only completed orders
// contribute to sales.
type Summary struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	OrderCount        int             `json:"orderCount"`
	CompletedCount    int             `json:"completedCount"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Size      domain.Size     `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// FilterByRange keeps orders dated within [start 00:00:00.000, end 23:59:59.999]
// in loc. Only the calendar date of each bound is used; its clock time and
// offset are ignored. When either bound is nil every order is kept. Input
// order is preserved.
func FilterByRange(orders []domain.Order, start, end *time.Time, loc *time.Location) []domain.Order {
	if start == nil || end == nil {
		return orders
	}
	if loc == nil {
		loc = time.UTC
	}
	from := startOfDay(*start, loc)
	to := startOfDay(*end, loc).AddDate(0, 0, 1).Add(-time.Millisecond)

	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Date.Before(from) || o.Date.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Aggregate sums completed orders. The average divides by the completed count
// and is zero when nothing completed.
func Aggregate(orders []domain.Order) Summary {
	s := Summary{TotalSales: decimal.Zero, AverageOrderValue: decimal.Zero, OrderCount: len(orders)}
	for _, o := range orders {
		if !o.Completed() {
			continue
		}
		s.CompletedCount++
		s.TotalSales = s.TotalSales.Add(o.Total)
	}
	if s.CompletedCount > 0 {
		s.AverageOrderValue = s.TotalSales.Div(decimal.NewFromInt(int64(s.CompletedCount)))
	}
	return s
}

// LineItems yields the order's items in snapshot order. The sequence can be
// ranged over more than once.
func LineItems(o domain.Order) iter.Seq[LineItem] {
	return func(yield func(LineItem) bool) {
		for _, item := range o.Items {
			li := LineItem{
				ProductID: item.ID,
				Name:      item.Name,
				Category:  item.Category,
				Size:      item.Size,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice(),
				LineTotal: item.LineTotal(),
			}
			if !yield(li) {
				return
			}
		}
	}
}

func Breakdown(o domain.Order) []LineItem {
	out := make([]LineItem, 0, len(o.Items))
	for li := range LineItems(o) {
		out = append(out, li)
	}
	return out
}

type CategorySales struct {
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Sales    decimal.Decimal `json:"sales"`
}

type ProductSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Sales     decimal.Decimal `json:"sales"`
}

// ByCategory totals completed line items per category and per product, in
// order of first appearance.
func ByCategory(orders []domain.Order) ([]CategorySales, []ProductSales) {
	catIdx := make(map[string]int)
	prodIdx := make(map[string]int)
	var cats []CategorySales
	var prods []ProductSales
	for _, o := range orders {
		if !o.Completed() {
			continue
		}
		for li := range LineItems(o) {
			i, ok := catIdx[li.Category]
			if !ok {
				i = len(cats)
				catIdx[li.Category] = i
				cats = append(cats, CategorySales{Category: li.Category, Sales: decimal.Zero})
			}
			cats[i].Quantity += li.Quantity
			cats[i].Sales = cats[i].Sales.Add(li.LineTotal)

			j, ok := prodIdx[li.ProductID]
			if !ok {
				j = len(prods)
				prodIdx[li.ProductID] = j
				prods = append(prods, ProductSales{ProductID: li.ProductID, Name: li.Name, Sales: decimal.Zero})
			}
			prods[j].Quantity += li.Quantity
			prods[j].Sales = prods[j].Sales.Add(li.LineTotal)
		}
	}
	return cats, prods
}

// Recent returns up to n orders, newest first.
func Recent(orders []domain.Order, n int) []domain.Order {
	if n > len(orders) {
		n = len(orders)
	}
	out := make([]domain.Order, 0, n)
	for i := len(orders) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, orders[i])
	}
	return out
}
