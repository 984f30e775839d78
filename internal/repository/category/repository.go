package category

import "context"

// Repository stores category names that exist independently of products.
type Repository interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, names []string) error
}
