package pricing

import "github.com/pitchside/quote-api/internal/domain"

// Totals holds the aggregation cascade for one quote.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	Total          float64
}

// ComputeTotals aggregates the item list into the fixed cascade: subtotal,
// then discount, then tax on the discounted amount, then grand total
// floored at zero. The percentages are caller-supplied and deliberately not
// clamped to [0,100]; out-of-range values produce mathematically consistent
// results and range validation belongs to the caller.
func ComputeTotals(items []domain.QuoteItem, discountPercent, taxPercent float64) Totals {
	var subtotal float64
	for i := range items {
		subtotal += float64(items[i].Quantity) * items[i].UnitPrice
	}

	discountAmount := subtotal * discountPercent / 100
	afterDiscount := subtotal - discountAmount
	taxAmount := afterDiscount * taxPercent / 100

	total := afterDiscount + taxAmount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		Total:          total,
	}
}
