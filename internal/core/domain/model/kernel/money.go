package kernel

import (
	"github.com/shopspring/decimal"
)

// Money represents an exact monetary amount. It wraps decimal arithmetic so
// percentage bands, penalties and prorated refunds never accumulate binary
// floating point drift. Money is an immutable value object; every operation
// returns a new instance.
//
// Amounts may be negative: a price impact of a removed line item is negative
// by design. Financial results exposed to callers are rounded half-up to
// 2 decimal places via Round2.
//
// The zero value is a valid zero amount.
//
// Example:
//
//	price := kernel.MoneyFromFloat(12.00)
//	impact := price.MulInt(2)          // 24.00
//	refund := total.Percent(80).Round2()
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// MoneyFromFloat creates a Money from a float64 amount.
// Intended for boundary input and tests; internal arithmetic stays decimal.
func MoneyFromFloat(value float64) Money {
	return Money{amount: decimal.NewFromFloat(value)}
}

// MoneyFromString parses a decimal string such as "10.50".
func MoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// MoneyFromDecimal wraps an existing decimal value.
// Used by persistence adapters when restoring aggregates.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// Decimal returns the underlying decimal value for persistence.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount as a float64 for read models and payloads.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs()}
}

// MulInt returns the amount multiplied by an integer quantity.
func (m Money) MulInt(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Percent returns the given percentage of the amount, e.g. total.Percent(80)
// is 80% of total. The result is not rounded; callers round at the boundary.
func (m Money) Percent(pct int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100))}
}

// Round2 rounds half-up to 2 decimal places. All monetary results handed to
// callers or persisted on records pass through this.
func (m Money) Round2() Money {
	return Money{amount: m.amount.Round(2)}
}

// IsZero reports whether the amount equals zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// IsEqual reports whether the two amounts are numerically equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the decimal string representation, e.g. "24.5".
func (m Money) String() string {
	return m.amount.String()
}
