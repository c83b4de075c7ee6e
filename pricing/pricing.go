// Package pricing computes order totals. Arithmetic is done in decimal and
// converted to float64 only at the edge.
package pricing

import (
	"github.com/shopspring/decimal"

	"foodrunner-api/apperror"
)

var (
	TaxRate     = decimal.RequireFromString("0.08")
	DeliveryFee = decimal.RequireFromString("2.99")
)

type Line struct {
	Price    float64
	Quantity int
}

type Quote struct {
	LineTotals  []float64
	Subtotal    float64
	Tax         float64
	DeliveryFee float64
	Total       float64
}

// Price quotes an order. The delivery fee is charged once per order.
func Price(lines []Line) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, apperror.InvalidInput("Order must contain at least one item")
	}

	subtotal := decimal.Zero
	totals := make([]float64, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return Quote{}, apperror.InvalidInput("Quantity must be at least 1")
		}
		if l.Price < 0 {
			return Quote{}, apperror.InvalidInput("Price cannot be negative")
		}
		lt := decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
		totals = append(totals, lt.InexactFloat64())
		subtotal = subtotal.Add(lt)
	}

	tax := subtotal.Mul(TaxRate)
	total := subtotal.Add(tax).Add(DeliveryFee)

	return Quote{
		LineTotals:  totals,
		Subtotal:    subtotal.InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		DeliveryFee: DeliveryFee.InexactFloat64(),
		Total:       total.InexactFloat64(),
	}, nil
}
