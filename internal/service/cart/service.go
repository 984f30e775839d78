package cart

import (
	"context"
	"fmt"
	"sync"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/identity"
)

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type entry struct {
	mu   sync.Mutex
	cart domain.Cart
}

// Service keeps the open carts of this process. Carts are not persisted;
// only the orders produced from them are.
type Service struct {
	mu       sync.RWMutex
	carts    map[string]*entry
	products productRepo
	ids      identity.Provider
}

func New(products productRepo, ids identity.Provider) *Service {
	return &Service{
		carts:    make(map[string]*entry),
		products: products,
		ids:      ids,
	}
}

func (s *Service) Create(_ context.Context) (*domain.Cart, error) {
	id, err := s.ids.NewID()
	if err != nil {
		return nil, domain.Remote("new id", "", err)
	}
	e := &entry{cart: domain.Cart{ID: id, Items: []domain.CartItem{}, CreatedAt: s.ids.Now()}}
	s.mu.Lock()
	s.carts[id] = e
	s.mu.Unlock()
	return clone(&e.cart), nil
}

func (s *Service) Get(_ context.Context, id string) (*domain.Cart, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return clone(&e.cart), nil
}

// AddItem resolves productID through the catalogue and adds one unit of it.
func (s *Service) AddItem(ctx context.Context, id, productID string, size domain.Size) (*domain.Cart, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: size %q", domain.ErrInvalidInput, size)
	}
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.AddItem(*p, size)
	return clone(&e.cart), nil
}

// UpdateQuantity applies delta to the (productID, size) entry. A missing entry
// leaves the cart as it was.
func (s *Service) UpdateQuantity(_ context.Context, id, productID string, size domain.Size, delta int) (*domain.Cart, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.UpdateQuantity(productID, size, delta)
	return clone(&e.cart), nil
}

func (s *Service) RemoveItem(_ context.Context, id, productID string, size domain.Size) (*domain.Cart, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.RemoveItem(productID, size)
	return clone(&e.cart), nil
}

func (s *Service) Discard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.carts, id)
	return nil
}

// With runs fn against the live cart while holding its lock. Checkout uses it
// so the cart cannot change between the order snapshot and the clear.
func (s *Service) With(_ context.Context, id string, fn func(c *domain.Cart) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.cart)
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func clone(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = c.Snapshot()
	return &out
}
