package product

import (
	"context"

	"cafe-backoffice/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, products []domain.Product) error
	Exists(ctx context.Context) (bool, error)
}
