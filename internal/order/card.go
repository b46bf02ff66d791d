package order

import (
	"regexp"
	"strings"
)

// Brand is a card network identified from the PAN prefix.
type Brand string

const (
	BrandVisa       Brand = "VISA"
	BrandMastercard Brand = "MASTERCARD"
	BrandAmex       Brand = "AMEX"
	BrandDiscover   Brand = "DISCOVER"
	BrandUnknown    Brand = ""
)

// brandPrefixes is an ordered prefix table; the first matching row wins.
var brandPrefixes = []struct {
	pattern *regexp.Regexp
	brand   Brand
}{
	{regexp.MustCompile(`^4`), BrandVisa},
	{regexp.MustCompile(`^5[1-5]`), BrandMastercard},
	{regexp.MustCompile(`^3[47]`), BrandAmex},
	{regexp.MustCompile(`^6(?:011|5)`), BrandDiscover},
}

// DetectBrand looks the normalized PAN up in the prefix table.
func DetectBrand(pan string) Brand {
	pan = NormalizePAN(pan)
	for _, row := range brandPrefixes {
		if row.pattern.MatchString(pan) {
			return row.brand
		}
	}
	return BrandUnknown
}

// NormalizePAN strips spaces and dashes from a card number as entered.
func NormalizePAN(pan string) string {
	var b strings.Builder
	b.Grow(len(pan))
	for _, r := range pan {
		if r == ' ' || r == '\t' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// maskCard reduces a validated card input to the persistable shape. The PAN
// and CVV do not survive this call.
func maskCard(in CardInput) PaymentInfo {
	pan := NormalizePAN(in.PAN)
	last4 := pan
	if len(pan) > 4 {
		last4 = pan[len(pan)-4:]
	}
	return PaymentInfo{
		CardholderName: in.CardholderName,
		Last4:          last4,
		ExpiryMonth:    in.ExpiryMonth,
		ExpiryYear:     in.ExpiryYear,
		Brand:          DetectBrand(pan),
	}
}
