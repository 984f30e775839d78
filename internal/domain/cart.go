package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a product snapshot plus the selected quantity and size tier.
type CartItem struct {
	Product
	Quantity int  `json:"quantity" validate:"min=1"`
	Size     Size `json:"size,omitempty" validate:"omitempty,oneof=mini regular"`
}

// UnitPrice applies the price resolution rule to the item's own size.
func (i CartItem) UnitPrice() decimal.Decimal {
	return i.Product.UnitPrice(i.Size)
}

// LineTotal is the resolved unit price multiplied by quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i CartItem) matches(productID string, size Size) bool {
	return i.ID == productID && i.Size == size
}

// Cart is a mutable working set of items awaiting checkout. Every mutation
// replaces the backing slice, so snapshots returned by Items stay stable.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

// AddItem increments the (product, size) entry or appends a new one with quantity 1.
func (c *Cart) AddItem(p Product, size Size) {
	next := make([]CartItem, 0, len(c.Items)+1)
	found := false
	for _, item := range c.Items {
		if item.matches(p.ID, size) {
			item.Quantity++
			found = true
		}
		next = append(next, item)
	}
	if !found {
		next = append(next, CartItem{Product: p, Quantity: 1, Size: size})
	}
	c.Items = next
}

// UpdateQuantity adds delta to the matching entry and drops it when the result
// is not positive. It reports whether an entry was found.
func (c *Cart) UpdateQuantity(productID string, size Size, delta int) bool {
	next := make([]CartItem, 0, len(c.Items))
	found := false
	for _, item := range c.Items {
		if item.matches(productID, size) {
			found = true
			item.Quantity += delta
			if item.Quantity <= 0 {
				continue
			}
		}
		next = append(next, item)
	}
	c.Items = next
	return found
}

// RemoveItem deletes the matching entry. It reports whether anything was removed.
func (c *Cart) RemoveItem(productID string, size Size) bool {
	next := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.matches(productID, size) {
			continue
		}
		next = append(next, item)
	}
	removed := len(next) != len(c.Items)
	c.Items = next
	return removed
}

// Total sums the line totals; an empty cart totals zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns a copy of the items that later mutations cannot reach.
func (c *Cart) Snapshot() []CartItem {
	out := make([]CartItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}
