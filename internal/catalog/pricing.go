package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// EffectivePrice returns the price after the product's percentage discount.
// A zero discount leaves the listed price unchanged. Discounts are validated
// to [0,100] by the catalog before they reach us.
func EffectivePrice(p Product) float64 {
	if p.Discount == 0 {
		return p.Price
	}
	return p.Price - float64(p.Discount)*p.Price/100
}

// FormatPrice renders an amount using the es-AR currency convention:
// "$ 1.000,00" (dot for thousands, comma for decimals).
func FormatPrice(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("%s$ %s,%02d", sign, strings.Join(groups, "."), cents)
}
