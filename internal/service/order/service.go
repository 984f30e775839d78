package order

import (
	"context"
	"errors"
	"io"
	"log"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/events"
	"cafe-backoffice/internal/identity"
	orderrepo "cafe-backoffice/internal/repository/order"
)

// Service turns carts into orders and reads the order history.
type Service struct {
	repo      orderrepo.Repository
	ids       identity.Provider
	publisher events.Publisher
	logger    *log.Logger
}

func New(repo orderrepo.Repository, ids identity.Provider, publisher events.Publisher, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, ids: ids, publisher: publisher, logger: logger}
}

// Confirm records the cart's contents as a completed order and then empties
// the cart. The cart is only cleared after the order has been stored; on any
// failure it is returned unchanged.
func (s *Service) Confirm(ctx context.Context, cart *domain.Cart) (*domain.Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	id, err := s.ids.NewID()
	if err != nil {
		return nil, domain.Remote("new id", "", err)
	}
	o := domain.Order{
		ID:     id,
		Items:  cart.Snapshot(),
		Total:  cart.Total(),
		Date:   s.ids.Now(),
		Status: domain.OrderStatusCompleted,
	}
	if err := s.repo.Append(ctx, o); err != nil {
		s.logger.Printf("order service: confirm cart=%s error=%v", cart.ID, err)
		if errors.Is(err, domain.ErrAlreadyExists) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, domain.Remote("append order", o.ID, err)
	}
	cart.Clear()

	if err := s.publisher.PublishOrderConfirmed(ctx, events.NewOrderConfirmed(o)); err != nil {
		s.logger.Printf("order service: publish order=%s error=%v", o.ID, err)
	}
	return &o, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}
