// Package discount is the single definition of the store's discount
// codes. Both the cart pricing preview and the checkout endpoint resolve
// against this table; the preview totals are advisory only, the coupon
// created at the payment provider is what actually gets charged.
package discount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// codes maps a normalized discount code to its percent-off value.
var codes = map[string]int{
	"LUCIFER20": 20,
	"WELCOME10": 10,
	"SAVE15":    15,
}

type Discount struct {
	Code       string
	PercentOff int
}

// Resolve normalizes the code (trim, uppercase) and looks it up.
// An unknown code is a normal miss, not an error: the second return
// value reports whether the code exists.
func Resolve(code string) (Discount, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	percent, ok := codes[normalized]
	if !ok {
		return Discount{}, false
	}
	return Discount{Code: normalized, PercentOff: percent}, true
}

// Apply returns the discounted total and the discount amount for the
// given subtotal. The total is rounded half-up to two decimal places and
// the amount is derived from the rounded total, so the displayed
// discount and displayed total never disagree by a cent.
func Apply(subtotal decimal.Decimal, percentOff int) (total, amount decimal.Decimal) {
	factor := decimal.NewFromInt(100 - int64(percentOff)).Div(decimal.NewFromInt(100))
	total = subtotal.Mul(factor).Round(2)
	amount = subtotal.Sub(total)
	return total, amount
}
