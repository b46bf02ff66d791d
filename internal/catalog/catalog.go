package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// Product is the catalog collaborator's shape as seen by the cart. The cart
// consults it only at add time and never re-queries it for lines already in
// the cart.
type Product struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	Image     string   `json:"image"`
	Variants  []string `json:"variants,omitempty"`
	InStock   bool     `json:"in_stock"`
}

// EffectivePrice is the sale price when one is set, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// HasVariant reports whether key is one of the product's declared variants.
func (p Product) HasVariant(key string) bool {
	for _, v := range p.Variants {
		if v == key {
			return true
		}
	}
	return false
}

// Provider is the read-side contract to the catalog. Consumers define this
// interface; the real catalog lives outside this core.
type Provider interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}
