package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatTransactionNumber builds a receipt identifier such as SPP/2025/0042.
func FormatTransactionNumber(prefix string, year int, sequence int64) string {
	return fmt.Sprintf("%s/%d/%04d", prefix, year, sequence)
}

// SumDetailAmounts adds up per-month detail amounts.
func SumDetailAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// ExpectedTotal recomputes the payment total from its parts.
// Invariant: total = subtotal - discount + late fee.
func ExpectedTotal(subtotal, discount, lateFee decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(lateFee)
}
