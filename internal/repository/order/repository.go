package order

import (
	"context"

	"cafe-backoffice/internal/domain"
)

// Repository is the append-only order collection.
type Repository interface {
	List(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Append(ctx context.Context, o domain.Order) error
}
