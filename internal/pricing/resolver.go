// Package pricing contains the pure pricing functions of the quote engine:
// unit price resolution for a line item and the totals cascade for a quote.
// Nothing in this package touches the store, the clock, or shared state, so
// identical inputs always produce identical outputs.
package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/catalog"
	"github.com/pitchside/quote-api/internal/domain"
)

var (
	// ErrInvalidPrice is returned when a manually entered price is negative
	ErrInvalidPrice = errors.New("unit price must not be negative")

	// ErrInvalidMethod is returned when a method selection is not
	// applicable to the chosen kind/model
	ErrInvalidMethod = errors.New("method not applicable to selected model")
)

// ResolveManualPrice validates a manually entered unit price.
func ResolveManualPrice(price float64) (float64, error) {
	if price < 0 {
		return 0, fmt.Errorf("%w: %.2f", ErrInvalidPrice, price)
	}
	return price, nil
}

// ResolveCatalogPrice computes the unit price of a catalog-mode item:
// the model's tier price for the quantity plus each selected method's price
// multiplied by its count, floored at zero. A selection count of zero means
// the method was toggled on without an explicit count and defaults to one.
// Selections referencing methods not applicable to the model are rejected
// rather than silently dropped.
func ResolveCatalogPrice(tree *catalog.Tree, kindID, modelID uuid.UUID, qty int, selections []domain.MethodSelection) (float64, error) {
	price := tree.ResolveTierPrice(kindID, modelID, qty)

	for _, sel := range selections {
		if sel.Count < 0 {
			return 0, fmt.Errorf("%w: method %s has negative count %d", ErrInvalidMethod, sel.MethodID, sel.Count)
		}
		if !tree.MethodAllowed(kindID, modelID, sel.MethodID) {
			return 0, fmt.Errorf("%w: method %s", ErrInvalidMethod, sel.MethodID)
		}
		methodPrice, _ := tree.MethodPrice(kindID, sel.MethodID)
		count := sel.Count
		if count == 0 {
			count = 1
		}
		price += methodPrice * float64(count)
	}

	if price < 0 {
		price = 0
	}
	return price, nil
}
