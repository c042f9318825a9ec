package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/pricing"
)

func items(lines ...[2]float64) []domain.QuoteItem {
	out := make([]domain.QuoteItem, len(lines))
	for i, l := range lines {
		out[i] = domain.QuoteItem{
			Quantity:  int(l[0]),
			UnitPrice: l[1],
			LineTotal: l[0] * l[1],
		}
	}
	return out
}

func TestComputeTotals_Cascade(t *testing.T) {
	// 2*50 + 1*30 = 130 subtotal, 10% discount = 13, tax 20% on 117 =
	// 23.4, total 140.4
	totals := pricing.ComputeTotals(items([2]float64{2, 50}, [2]float64{1, 30}), 10, 20)

	assert.InDelta(t, 130.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 13.0, totals.DiscountAmount, 1e-9)
	assert.InDelta(t, 23.4, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 140.4, totals.Total, 1e-9)
}

func TestComputeTotals_ZeroPercentages(t *testing.T) {
	totals := pricing.ComputeTotals(items([2]float64{2, 50}), 0, 0)

	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 100.0, totals.Total)
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	totals := pricing.ComputeTotals(nil, 10, 25)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Total)
}

func TestComputeTotals_DiscountOverHundredFloorsTotal(t *testing.T) {
	totals := pricing.ComputeTotals(items([2]float64{1, 100}), 150, 0)

	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 150.0, totals.DiscountAmount)
	// after discount is -50; the grand total never goes below zero
	assert.Equal(t, 0.0, totals.Total)
}

func TestComputeTotals_PercentagesNotClamped(t *testing.T) {
	// Negative discount acts as a surcharge; the math stays consistent.
	totals := pricing.ComputeTotals(items([2]float64{1, 100}), -10, 10)

	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, -10.0, totals.DiscountAmount)
	assert.InDelta(t, 11.0, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 121.0, totals.Total, 1e-9)
}

func TestComputeTotals_TaxAppliesAfterDiscount(t *testing.T) {
	withDiscount := pricing.ComputeTotals(items([2]float64{1, 200}), 50, 10)
	assert.InDelta(t, 10.0, withDiscount.TaxAmount, 1e-9) // 10% of 100, not 200
	assert.InDelta(t, 110.0, withDiscount.Total, 1e-9)
}
