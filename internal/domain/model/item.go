package model

import "github.com/shopspring/decimal"

// LineItem is one stationery position on an order. Price is a snapshot taken
// at order time; Subtotal is always Price multiplied by Quantity.
type LineItem struct {
	ID            int64
	OrderID       int64
	StationeryRef string
	Description   string
	Quantity      int
	Price         decimal.Decimal
	Subtotal      decimal.Decimal
}

// ItemsTotal sums line item subtotals.
func ItemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
