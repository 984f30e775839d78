package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"cafe-backoffice/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// decimals are compared as floats; only sign checks are declared on them
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate runs the struct tags of a domain record.
func Validate(record interface{}) error {
	return validate.Struct(record)
}

// Collection reads and writes a JSON array document of T, validating every
// record on the way in and on the way out.
type Collection[T any] struct {
	store Store
	key   string
}

func NewCollection[T any](store Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored records and whether the document exists.
func (c *Collection[T]) Load(ctx context.Context) ([]T, bool, error) {
	blob, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, false, domain.Remote("get", c.key, err)
	}
	if !ok || len(blob) == 0 {
		return []T{}, ok, nil
	}
	items, err := c.Decode(blob)
	if err != nil {
		return nil, true, err
	}
	return items, true, nil
}

// Decode parses and validates a document without touching the store.
func (c *Collection[T]) Decode(blob []byte) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, &domain.MalformedRecordError{Key: c.key, Index: -1, Err: err}
	}
	items := make([]T, 0, len(raw))
	for i, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, &domain.MalformedRecordError{Key: c.key, Index: i, Err: err}
		}
		if err := validateRecord(item); err != nil {
			return nil, &domain.MalformedRecordError{Key: c.key, Index: i, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

// Save replaces the stored document with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	for i, item := range items {
		if err := validateRecord(item); err != nil {
			return fmt.Errorf("%s record %d: %w: %v", c.key, i, domain.ErrInvalidInput, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, blob); err != nil {
		return domain.Remote("set", c.key, err)
	}
	return nil
}

func validateRecord(item interface{}) error {
	err := validate.Struct(item)
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// non-struct element types (plain strings) carry no tags
		return nil
	}
	return err
}
