package report

import (
	"context"
	"time"

	"cafe-backoffice/internal/domain"
)

type orderLister interface {
	List(ctx context.Context) ([]domain.Order, error)
}

// Service reads the order history and computes reports over a date range.
type Service struct {
	orders orderLister
	loc    *time.Location
}

func New(orders orderLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{orders: orders, loc: loc}
}

type OrderBreakdown struct {
	domain.Order
	Lines []LineItem `json:"lines"`
}

type SalesReport struct {
	Summary
	Orders []OrderBreakdown `json:"orders"`
}

type Dashboard struct {
	Summary
	Categories []CategorySales `json:"categories"`
	Products   []ProductSales  `json:"products"`
	Recent     []domain.Order  `json:"recent"`
}

const recentOrders = 5

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Report(ctx context.Context, start, end *time.Time) (*SalesReport, error) {
	orders, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := &SalesReport{Summary: Aggregate(orders), Orders: make([]OrderBreakdown, 0, len(orders))}
	for _, o := range orders {
		out.Orders = append(out.Orders, OrderBreakdown{Order: o, Lines: Breakdown(o)})
	}
	return out, nil
}

func (s *Service) Dashboard(ctx context.Context, start, end *time.Time) (*Dashboard, error) {
	orders, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}
	cats, prods := ByCategory(orders)
	return &Dashboard{
		Summary:    Aggregate(orders),
		Categories: cats,
		Products:   prods,
		Recent:     Recent(orders, recentOrders),
	}, nil
}

func (s *Service) load(ctx context.Context, start, end *time.Time) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByRange(orders, start, end, s.loc), nil
}
