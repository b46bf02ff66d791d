package catalog

import "context"

// StaticProvider serves a fixed product list. Used by the demo binary and
// tests in place of the real catalog service.
type StaticProvider struct {
	products map[string]Product
}

func NewStaticProvider(products []Product) *StaticProvider {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &StaticProvider{products: byID}
}

func (s *StaticProvider) GetProduct(_ context.Context, id string) (*Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// DemoProducts is the seed set for demo runs.
func DemoProducts() []Product {
	sale := func(v float64) *float64 { return &v }
	return []Product{
		{ID: "prod-1001", Name: "Classic Crewneck Tee", Price: 24.99, Image: "/img/tee.jpg", Variants: []string{"S", "M", "L", "XL"}, InStock: true},
		{ID: "prod-1002", Name: "Slim Fit Jeans", Price: 89.99, SalePrice: sale(69.99), Image: "/img/jeans.jpg", Variants: []string{"30", "32", "34", "36"}, InStock: true},
		{ID: "prod-1003", Name: "Leather Weekender Bag", Price: 249.00, Image: "/img/bag.jpg", InStock: true},
		{ID: "prod-1004", Name: "Wireless Earbuds", Price: 129.99, SalePrice: sale(99.99), Image: "/img/earbuds.jpg", InStock: true},
		{ID: "prod-1005", Name: "Canvas Sneakers", Price: 59.99, Image: "/img/sneakers.jpg", Variants: []string{"7", "8", "9", "10", "11"}, InStock: true},
	}
}
