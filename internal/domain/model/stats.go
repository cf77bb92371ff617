package model

import "github.com/shopspring/decimal"

// OrderStats is the purchasing team's dashboard projection.
type OrderStats struct {
	TotalOrders int64
	ByStatus    map[OrderStatus]int64
	// OrderedAmount sums totalAmount across non-terminal-failed orders
	// (everything except CANCELLED, DECLINED and RETURNED).
	OrderedAmount decimal.Decimal
	// CollectedAmount sums all recorded payments.
	CollectedAmount decimal.Decimal
}
