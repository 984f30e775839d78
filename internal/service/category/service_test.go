package category

import (
	"context"
	"errors"
	"testing"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/kvstore"
	categoryrepo "cafe-backoffice/internal/repository/category"
	productrepo "cafe-backoffice/internal/repository/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, productrepo.Repository, categoryrepo.Repository) {
	t.Helper()
	store := kvstore.NewMemory()
	products := productrepo.NewKV(store, nil)
	cats := categoryrepo.NewKV(store)
	require.NoError(t, products.ReplaceAll(context.Background(), []domain.Product{
		{ID: "1", Name: "Honey Butter Waffle", Category: "WAFFLES", RegularPrice: decimal.NewFromInt(49)},
		{ID: "2", Name: "Peanut Butter Waffle", Category: "WAFFLES", RegularPrice: decimal.NewFromInt(69)},
		{ID: "3", Name: "Red Velvet Waffle", Category: "PREMIUM SPECIALS", RegularPrice: decimal.NewFromInt(99)},
	}))
	require.NoError(t, cats.Save(context.Background(), []string{"DRINKS"}))
	return New(cats, products), products, cats
}

func TestListUnionWithCounts(t *testing.T) {
	svc, _, _ := setup(t)
	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{Name: "DRINKS", ProductCount: 0},
		{Name: "WAFFLES", ProductCount: 2},
		{Name: "PREMIUM SPECIALS", ProductCount: 1},
	}, got)
}

func TestCreate(t *testing.T) {
	svc, _, cats := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Create(ctx, "WAFFLES")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	c, err := svc.Create(ctx, " SHAKES ")
	require.NoError(t, err)
	assert.Equal(t, "SHAKES", c.Name)
	names, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"DRINKS", "SHAKES"}, names)
}

func TestRenameRewritesProducts(t *testing.T) {
	svc, products, _ := setup(t)
	ctx := context.Background()

	c, err := svc.Rename(ctx, "WAFFLES", "CLASSIC WAFFLES")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ProductCount)

	all, err := products.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CLASSIC WAFFLES", all[0].Category)
	assert.Equal(t, "CLASSIC WAFFLES", all[1].Category)
	assert.Equal(t, "PREMIUM SPECIALS", all[2].Category)
}

func TestRenameStoredOnly(t *testing.T) {
	svc, _, cats := setup(t)
	ctx := context.Background()
	_, err := svc.Rename(ctx, "DRINKS", "BEVERAGES")
	require.NoError(t, err)
	names, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BEVERAGES"}, names)
}

func TestRenameErrors(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Rename(ctx, "MISSING", "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Rename(ctx, "WAFFLES", "PREMIUM SPECIALS")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	_, err = svc.Rename(ctx, "WAFFLES", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteBlockedWhileInUse(t *testing.T) {
	svc, _, cats := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "WAFFLES"), domain.ErrCategoryInUse)
	assert.ErrorIs(t, svc.Delete(ctx, "MISSING"), domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "DRINKS"))
	names, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

type failingProducts struct {
	productrepo.Repository
	err error
}

func (f failingProducts) ReplaceAll(context.Context, []domain.Product) error {
	return f.err
}

func TestRenameRestoresStoredListWhenProductWriteFails(t *testing.T) {
	ctx := context.Background()
	_, products, cats := setup(t)
	require.NoError(t, cats.Save(ctx, []string{"DRINKS", "WAFFLES"}))
	svc := New(cats, failingProducts{Repository: products, err: domain.Remote("set", "products", errors.New("timeout"))})

	_, err := svc.Rename(ctx, "WAFFLES", "BELGIAN WAFFLES")
	assert.ErrorIs(t, err, domain.ErrRemote)

	names, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"DRINKS", "WAFFLES"}, names)

	got, err := products.List(ctx)
	require.NoError(t, err)
	for _, p := range got {
		assert.NotEqual(t, "BELGIAN WAFFLES", p.Category)
	}
}
