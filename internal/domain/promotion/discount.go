package promotion

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals is a price breakdown of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Preview computes the discount and total the promotion would give on the
// subtotal. A nil promotion gives no discount. Amounts are rounded to whole
// dong and the total is floored at zero.
func Preview(subtotal decimal.Decimal, p *Promotion) Totals {
	discount := Discount(subtotal, p)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total.Round(0),
	}
}

// Discount returns the amount the promotion subtracts from subtotal.
// Unsupported promotion types give no discount.
func Discount(subtotal decimal.Decimal, p *Promotion) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch p.Type {
	case TypePercentage:
		amount = subtotal.Mul(p.Value).Div(hundred)
	case TypeFixed:
		amount = p.Value
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(0)
}
