package category

import (
	"context"

	"cafe-backoffice/internal/kvstore"
)

type kvRepo struct {
	coll *kvstore.Collection[string]
}

func NewKV(store kvstore.Store) Repository {
	return &kvRepo{coll: kvstore.NewCollection[string](store, kvstore.KeyCategories)}
}

func (r *kvRepo) List(ctx context.Context) ([]string, error) {
	names, _, err := r.coll.Load(ctx)
	return names, err
}

func (r *kvRepo) Save(ctx context.Context, names []string) error {
	return r.coll.Save(ctx, names)
}
