package order

import (
	"context"
	"io"
	"log"
	"sync"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/kvstore"
)

type kvRepo struct {
	// mu serialises Append's load and save within the process.
	mu     sync.Mutex
	coll   *kvstore.Collection[domain.Order]
	logger *log.Logger
}

// NewKV returns a Repository over the orders document. Appends through one
// repository are serialised; separate processes writing the same document
// still race and the last write wins.
func NewKV(store kvstore.Store, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &kvRepo{coll: kvstore.NewCollection[domain.Order](store, kvstore.KeyOrders), logger: logger}
}

func (r *kvRepo) List(ctx context.Context) ([]domain.Order, error) {
	orders, _, err := r.coll.Load(ctx)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	return orders, nil
}

func (r *kvRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, _, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *kvRepo) Append(ctx context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, _, err := r.coll.Load(ctx)
	if err != nil {
		r.logger.Printf("order repo: append id=%s load error=%v", o.ID, err)
		return err
	}
	for _, existing := range orders {
		if existing.ID == o.ID {
			return domain.ErrAlreadyExists
		}
	}
	if err := r.coll.Save(ctx, append(orders, o)); err != nil {
		r.logger.Printf("order repo: append id=%s save error=%v", o.ID, err)
		return err
	}
	r.logger.Printf("order repo: appended id=%s total=%s count=%d", o.ID, o.Total, len(orders)+1)
	return nil
}
