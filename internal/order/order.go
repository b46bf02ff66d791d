package order

import (
	"fmt"
	"time"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/cart"
)

// ShippingInfo is the delivery address collected at checkout. All fields are
// required except Country, which defaults.
type ShippingInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

const DefaultCountry = "US"

// CardInput is the transient payment capture entered during checkout. The
// PAN and CVV exist only until Create masks them; they are never persisted.
type CardInput struct {
	CardholderName string
	PAN            string
	ExpiryMonth    string
	ExpiryYear     string
	CVV            string
}

// PaymentInfo is the only payment shape ever written to the store.
type PaymentInfo struct {
	CardholderName string `json:"cardholder_name"`
	Last4          string `json:"last4"`
	ExpiryMonth    string `json:"expiry_month"`
	ExpiryYear     string `json:"expiry_year"`
	Brand          Brand  `json:"brand,omitempty"`
}

// Order is the immutable record created at checkout completion. Only
// TrackingNumber and EstimatedDelivery are ever written after creation, once,
// when status derivation first needs them.
type Order struct {
	ID                string       `json:"id"`
	CreatedAt         time.Time    `json:"created_at"`
	Lines             []cart.Line  `json:"lines"`
	Subtotal          float64      `json:"subtotal"`
	Tax               float64      `json:"tax"`
	Total             float64      `json:"total"`
	Shipping          ShippingInfo `json:"shipping"`
	Payment           PaymentInfo  `json:"payment"`
	TrackingNumber    string       `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time   `json:"estimated_delivery,omitempty"`
}

func orderKey(id string) string {
	return fmt.Sprintf("order:%s", id)
}

// View is an order as returned to readers: the persisted record plus the
// status derived at read time. Status is never stored.
type View struct {
	Order
	Status Status `json:"status"`
}
