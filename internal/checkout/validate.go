package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

// validateShipping returns a field→message map; empty means valid.
func validateShipping(s order.ShippingInfo) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(s.FullName) == "" {
		fields["full_name"] = "full name is required"
	}
	if strings.TrimSpace(s.Email) == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(s.Email) {
		fields["email"] = "enter a valid email address"
	}
	if strings.TrimSpace(s.Address) == "" {
		fields["address"] = "address is required"
	}
	if strings.TrimSpace(s.City) == "" {
		fields["city"] = "city is required"
	}
	if strings.TrimSpace(s.State) == "" {
		fields["state"] = "state is required"
	}
	if !zipPattern.MatchString(s.ZipCode) {
		fields["zip_code"] = "enter a 5-digit or ZIP+4 code"
	}

	return fields
}

// validatePayment checks the one-time card capture. now supplies the current
// year for the expiry check.
func validatePayment(c order.CardInput, now time.Time) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(c.CardholderName) == "" {
		fields["cardholder_name"] = "cardholder name is required"
	}

	pan := order.NormalizePAN(c.PAN)
	if len(pan) != 16 || !digitsOnly.MatchString(pan) {
		fields["pan"] = "card number must be 16 digits"
	}

	if month, err := strconv.Atoi(c.ExpiryMonth); err != nil || month < 1 || month > 12 || len(c.ExpiryMonth) != 2 {
		fields["expiry_month"] = "month must be 01-12"
	}
	if year, err := strconv.Atoi(c.ExpiryYear); err != nil || len(c.ExpiryYear) != 4 || year < now.Year() {
		fields["expiry_year"] = "enter a valid 4-digit year"
	}

	if !digitsOnly.MatchString(c.CVV) || len(c.CVV) < 3 || len(c.CVV) > 4 {
		fields["cvv"] = "cvv must be 3 or 4 digits"
	}

	return fields
}
