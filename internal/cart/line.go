package cart

import "math"

// TaxRate is the flat rate applied to every cart subtotal.
const TaxRate = 0.08

// Line is one aggregated product+variant entry. Identity is
// (ProductID, VariantKey); at most one line per identity exists in a cart.
type Line struct {
	ProductID   string  `json:"product_id"`
	VariantKey  string  `json:"variant_key,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	DisplayName string  `json:"display_name"`
	ImageRef    string  `json:"image_ref"`
}

func (l Line) sameIdentity(productID, variantKey string) bool {
	return l.ProductID == productID && l.VariantKey == variantKey
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SubtotalOf sums unitPrice×quantity over lines.
func SubtotalOf(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// TaxOf is the rounded flat-rate tax on a subtotal.
func TaxOf(subtotal float64) float64 {
	return Round2(subtotal * TaxRate)
}
