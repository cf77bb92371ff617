package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records one received installment or the single immediate payment.
type Payment struct {
	ID         int64
	OrderID    int64
	Reference  string
	Amount     decimal.Decimal
	RecordedAt time.Time
}

// InstallmentSchedule derives the per-month charge for a payment plan. The
// first months-1 installments are total/months rounded to cents; the final
// installment absorbs the rounding remainder so the schedule sums exactly
// to total.
func InstallmentSchedule(total decimal.Decimal, months int) (monthly, final decimal.Decimal) {
	if months <= 0 {
		return decimal.Zero, decimal.Zero
	}
	if months == 1 {
		return total, total
	}
	monthly = total.DivRound(decimal.NewFromInt(int64(months)), 2)
	final = total.Sub(monthly.Mul(decimal.NewFromInt(int64(months - 1))))
	return monthly, final
}

// InstallmentAmount returns the expected amount of installment n (1-based)
// under the remainder-absorbing schedule.
func InstallmentAmount(total decimal.Decimal, months, n int) decimal.Decimal {
	monthly, final := InstallmentSchedule(total, months)
	if n >= months {
		return final
	}
	return monthly
}
