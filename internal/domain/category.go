package domain

// Category is a named grouping of products. Products reference it by name.
type Category struct {
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}
