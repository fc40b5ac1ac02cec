package moneta

import (
	"fmt"
	"math"

	"github.com/govalues/decimal"
)

// Money represents a monetary amount in a specific currency, bound to the
// [Context] that created it.
// The amount always has exactly as many digits after the decimal point as
// the scale of its currency.
//
// Money is immutable; operations return new values and are safe for
// concurrent use as long as their context is not.
// The zero value is not usable: arithmetic on it panics.
// Use the factory methods of [Context] to create money.
type Money struct {
	ctx   *Context
	curr  Currency
	value decimal.Decimal
}

// newMoney pads d to the scale of currency c.
func newMoney(ctx *Context, c Currency, d decimal.Decimal) (Money, error) {
	if d.Scale() > c.Scale() {
		return Money{}, fmt.Errorf("%w: amount %v has more digits after the decimal point than %v", ErrInvalidInput, d, c.Code())
	}
	if d.Scale() < c.Scale() {
		d = d.Pad(c.Scale())
		if d.Scale() < c.Scale() {
			return Money{}, fmt.Errorf("padding amount: %w", ErrAmountOverflow)
		}
	}
	return Money{ctx: ctx, curr: c, value: d}, nil
}

// context returns the context of m and panics if there is none.
func (m Money) context() *Context {
	if m.ctx == nil {
		panic("moneta: Money was not created by a Context")
	}
	return m.ctx
}

// Decimal returns the amount as a decimal.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// Curr returns the currency of the money.
func (m Money) Curr() Currency {
	return m.curr
}

// Context returns the context that created the money, or nil for the zero value.
func (m Money) Context() *Context {
	return m.ctx
}

// Sign returns:
//
//	-1 if m < 0
//	 0 if m = 0
//	+1 if m > 0
func (m Money) Sign() int {
	return m.value.Sign()
}

// IsZero returns:
//
//	true  if m = 0
//	false otherwise
func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// IsNeg returns:
//
//	true  if m < 0
//	false otherwise
func (m Money) IsNeg() bool {
	return m.value.IsNeg()
}

// IsPos returns:
//
//	true  if m > 0
//	false otherwise
func (m Money) IsPos() bool {
	return m.value.IsPos()
}

// MinorUnits returns the amount in minor units of the currency.
// For example, EUR 1.23 is 123 cents.
// If the result cannot be represented as an int64, then false is returned.
func (m Money) MinorUnits() (units int64, ok bool) {
	u := m.value.Coef()
	if m.value.IsNeg() {
		if u > -math.MinInt64 {
			return 0, false
		}
		return -int64(u), true
	}
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

// Abs returns the absolute value of the money.
func (m Money) Abs() Money {
	return Money{ctx: m.ctx, curr: m.curr, value: m.value.Abs()}
}

// Neg returns the money with the opposite sign.
// Negation is exact and never produces a residue.
func (m Money) Neg() Money {
	return Money{ctx: m.ctx, curr: m.curr, value: m.value.Neg()}
}

// Equal returns true if m and b have numerically equal amounts and equal
// currencies.
// The contexts of m and b are not compared.
func (m Money) Equal(b Money) bool {
	return m.curr.Equal(b.curr) && m.value.Cmp(b.value) == 0
}

// Cmp compares the amounts of m and b numerically and returns:
//
//	-1 if m < b
//	 0 if m = b
//	+1 if m > b
//
// Cmp returns an error if the currencies are not compatible.
func (m Money) Cmp(b Money) (int, error) {
	if err := CheckCompatible(m.curr, b.curr); err != nil {
		return 0, fmt.Errorf("comparing %v and %v: %w", m, b, err)
	}
	return m.value.Cmp(b.value), nil
}

// String implements the [fmt.Stringer] interface and returns a string
// representation of the money: the currency code, a space and the amount
// with as many digits after the decimal point as the scale of the currency.
// The decimal separator is always a dot.
//
//	| Amount   | String        |
//	| -------- | ------------- |
//	| EUR 10   | "EUR 10.00"   |
//	| XXX 10.1 | "XXX 10.1000" |
func (m Money) String() string {
	return m.curr.Code() + " " + m.value.String()
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example    | Description         |
//	| ------ | ---------- | ------------------- |
//	| %s, %v | EUR 5.67   | Currency and amount |
//	| %q     | "EUR 5.67" | Quoted              |
//	| %f     | 5.67       | Amount              |
//	| %c     | EUR        | Currency            |
//
// The '-' format flag can be used with all verbs.
// The precision can be used with %f to pad the amount with trailing zeros;
// a precision below the scale of the currency is ignored.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
func (m Money) Format(state fmt.State, verb rune) {
	var text string
	switch verb {
	case 's', 'S', 'v', 'V':
		text = m.String()
	case 'q', 'Q':
		text = `"` + m.String() + `"`
	case 'c', 'C':
		text = m.curr.Code()
	case 'f', 'F':
		d := m.value
		if p, ok := state.Precision(); ok {
			p = min(max(p, m.curr.Scale()), decimal.MaxScale)
			if p > d.Scale() {
				d = d.Pad(p)
			}
		}
		text = d.String()
	default:
		fmt.Fprintf(state, "%%!%c(moneta.Money=%s)", verb, m.String())
		return
	}
	writePadded(state, text)
}
