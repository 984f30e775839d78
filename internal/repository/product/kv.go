package product

import (
	"context"
	"io"
	"log"
	"sync"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/kvstore"
)

type kvRepo struct {
	mu     sync.Mutex
	coll   *kvstore.Collection[domain.Product]
	logger *log.Logger
}

// NewKV returns a Repository that keeps the catalogue in the products document.
func NewKV(store kvstore.Store, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &kvRepo{coll: kvstore.NewCollection[domain.Product](store, kvstore.KeyProducts), logger: logger}
}

func (r *kvRepo) List(ctx context.Context) ([]domain.Product, error) {
	products, _, err := r.coll.Load(ctx)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(products))
	return products, nil
}

func (r *kvRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	products, _, err := r.coll.Load(ctx)
	if err != nil {
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return &p, nil
		}
	}
	r.logger.Printf("product repo: get id=%s not found", id)
	return nil, domain.ErrNotFound
}

func (r *kvRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products, _, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, product)
	}
	if err := r.coll.Save(ctx, products); err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", product.ID, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q replaced=%t", product.ID, product.Name, replaced)
	out := product
	return &out, nil
}

func (r *kvRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	products, _, err := r.coll.Load(ctx)
	if err != nil {
		return err
	}
	next := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(products) {
		return domain.ErrNotFound
	}
	if err := r.coll.Save(ctx, next); err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

func (r *kvRepo) ReplaceAll(ctx context.Context, products []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.coll.Save(ctx, products); err != nil {
		r.logger.Printf("product repo: replace count=%d error=%v", len(products), err)
		return err
	}
	return nil
}

func (r *kvRepo) Exists(ctx context.Context) (bool, error) {
	_, ok, err := r.coll.Load(ctx)
	return ok, err
}
