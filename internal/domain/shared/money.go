package shared

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept when a rate is prorated over a duration
const MoneyScale = 4

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// Money is an exact fixed-point currency amount. The zero value is zero.
type Money struct {
	amount decimal.Decimal
}

// Zero returns a zero amount
func Zero() Money {
	return Money{}
}

// NewMoney wraps a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// MoneyFromInt creates a whole-unit amount
func MoneyFromInt(units int64) Money {
	return Money{amount: decimal.NewFromInt(units)}
}

// MoneyFromCents creates an amount from hundredths
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// ParseMoney parses a decimal string such as "25.50"
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, NewValidationError("money", fmt.Sprintf("invalid amount %q", s))
	}
	return Money{amount: d}, nil
}

// MustMoney is ParseMoney that panics on invalid input (for fixtures and defaults)
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying decimal
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MulInt returns m * n
func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// ForDuration prorates an hourly amount over d: hours(d) * m. Each charge is
// rounded half away from zero to MoneyScale places, so sub-second precision is lost.
func (m Money) ForDuration(d time.Duration) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(d))).DivRound(nanosPerHour, MoneyScale)}
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Equal compares amounts numerically ("1.50" equals "1.5")
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Cmp returns -1, 0 or 1
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// Float64 is for metric exposition only; never accumulate with it
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders the amount with two decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON encodes the amount as a decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}

// UnmarshalJSON decodes a decimal string or number
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
