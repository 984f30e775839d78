package user

import (
	"context"

	"cafe-backoffice/internal/domain"
)

// Repository persists back-office users and their roles.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
