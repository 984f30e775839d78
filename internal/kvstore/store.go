package kvstore

import "context"

// Well-known document keys.
const (
	KeyProducts   = "products"
	KeyOrders     = "orders"
	KeyCategories = "categories"
)

// Store holds whole JSON documents by key. A read returns the complete,
// authoritative document; a write replaces it (last write wins).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, blob []byte) error
}
