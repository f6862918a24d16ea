// Package payment validates checkout payment forms. None of these checks
// authorize anything; they only catch structurally implausible input.
package payment

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"go-temporal-storefront/checkout/types"
)

// Validation reasons, reported in this order.
const (
	ReasonCardNumber = "Invalid card number"
	ReasonCardHolder = "Invalid cardholder name"
	ReasonExpiry     = "Invalid or expired card"
	ReasonCVV        = "Invalid CVV"
)

// Card brands
const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "American Express"
	BrandDiscover   = "Discover"
	BrandUnknown    = "Unknown"
)

const minHolderLength = 3

// Validate runs every field check and returns all failing reasons in
// priority order. An empty result means the form may be settled.
func Validate(form types.PaymentForm, now time.Time) []string {
	var reasons []string
	if !ValidCardNumber(form.CardNumber) {
		reasons = append(reasons, ReasonCardNumber)
	}
	if !validHolder(form.CardHolder) {
		reasons = append(reasons, ReasonCardHolder)
	}
	if !ValidExpiry(form.Expiry, now) {
		reasons = append(reasons, ReasonExpiry)
	}
	if !ValidCVV(form.CVV) {
		reasons = append(reasons, ReasonCVV)
	}
	return reasons
}

// ValidCardNumber applies the Luhn checksum to a 13-19 digit number.
// Whitespace is ignored.
func ValidCardNumber(number string) bool {
	digits := stripSpace(number)
	if len(digits) < 13 || len(digits) > 19 || !allDigits(digits) {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidExpiry parses MM/YY and rejects months before now's month.
// The current month is still valid.
func ValidExpiry(expiry string, now time.Time) bool {
	mm, yy, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok || !expiryField(mm) || !expiryField(yy) {
		return false
	}
	month, _ := strconv.Atoi(mm)
	if month < 1 || month > 12 {
		return false
	}
	year, _ := strconv.Atoi(yy)

	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if year < curYear || (year == curYear && month < curMonth) {
		return false
	}
	return true
}

// expiryField is one or two ASCII digits, nothing else.
func expiryField(s string) bool {
	return len(s) >= 1 && len(s) <= 2 && allDigits(s)
}

// ValidCVV accepts exactly 3 or 4 digits.
func ValidCVV(cvv string) bool {
	return (len(cvv) == 3 || len(cvv) == 4) && allDigits(cvv)
}

func validHolder(name string) bool {
	n := 0
	for _, r := range strings.TrimSpace(name) {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n >= minHolderLength
}

// CardBrand infers the brand from the number prefix. Display only.
func CardBrand(number string) string {
	digits := stripSpace(number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return BrandVisa
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return BrandMastercard
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return BrandAmex
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return BrandDiscover
	}
	return BrandUnknown
}

// LastFour returns the last four characters of the number with whitespace removed.
func LastFour(number string) string {
	digits := stripSpace(number)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
