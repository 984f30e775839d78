package domain

import "github.com/shopspring/decimal"

// Size selects which of a product's price tiers applies to a cart line.
type Size string

const (
	SizeNone    Size = ""
	SizeMini    Size = "mini"
	SizeRegular Size = "regular"
)

// Valid reports whether s is one of the known size tags (absent included).
func (s Size) Valid() bool {
	switch s {
	case SizeNone, SizeMini, SizeRegular:
		return true
	}
	return false
}

type Product struct {
	ID           string           `json:"id" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	Category     string           `json:"category"`
	MiniPrice    *decimal.Decimal `json:"miniPrice,omitempty" validate:"omitempty,gte=0"`
	RegularPrice decimal.Decimal  `json:"regularPrice" validate:"gte=0"`
	Image        string           `json:"image,omitempty"`
	Description  string           `json:"description,omitempty"`
}

// UnitPrice resolves the effective price of p for the given size. A mini line
// falls back to the regular price when the product has no mini tier.
func (p Product) UnitPrice(size Size) decimal.Decimal {
	if size == SizeMini && p.MiniPrice != nil {
		return *p.MiniPrice
	}
	return p.RegularPrice
}

// HasMini reports whether the product is sold in the mini tier.
func (p Product) HasMini() bool {
	return p.MiniPrice != nil
}
