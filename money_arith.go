package moneta

import (
	"fmt"

	"github.com/govalues/decimal"
	shopspring "github.com/shopspring/decimal"
)

// AddResidue returns the (possibly rounded) sum of m and b, and the residue
// of rounding.
// The currency of the result is the more specific of the two currencies,
// see [MostSpecific].
// The sum is rounded only when the result currency has fewer digits after
// the decimal point than the other operand.
// The ledger is not updated.
//
// AddResidue returns an error if the currencies are not compatible or the
// sum overflows.
func (m Money) AddResidue(b Money, mode RoundingMode) (Money, decimal.Decimal, error) {
	c, r, err := m.add(b, mode, false)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("computing [%v + %v]: %w", m, b, err)
	}
	return c, r, nil
}

// Add is like [Money.AddResidue] with the rounding mode of the context of m,
// but records a non-zero residue in the ledger.
func (m Money) Add(b Money) (Money, error) {
	ctx := m.context()
	c, r, err := m.AddResidue(b, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpAdd, r, c.curr))
	return c, nil
}

// SubResidue returns the (possibly rounded) difference of m and b, and the
// residue of rounding.
// See [Money.AddResidue] for the currency of the result.
// The ledger is not updated.
//
// SubResidue returns an error if the currencies are not compatible or the
// difference overflows.
func (m Money) SubResidue(b Money, mode RoundingMode) (Money, decimal.Decimal, error) {
	c, r, err := m.add(b, mode, true)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("computing [%v - %v]: %w", m, b, err)
	}
	return c, r, nil
}

// Sub is like [Money.SubResidue] with the rounding mode of the context of m,
// but records a non-zero residue in the ledger.
func (m Money) Sub(b Money) (Money, error) {
	ctx := m.context()
	c, r, err := m.SubResidue(b, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpSub, r, c.curr))
	return c, nil
}

func (m Money) add(b Money, mode RoundingMode, neg bool) (Money, decimal.Decimal, error) {
	ctx := m.context()
	_, more, err := MostSpecific(m.curr, b.curr)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	if err := ctx.checkCurr(more); err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	e := b.value
	if neg {
		e = e.Neg()
	}
	d, err := m.value.Add(e)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	x := ShopspringFromDecimal(m.value).Add(ShopspringFromDecimal(e))
	return m.roundExact(more, d, x, mode)
}

// AddDecResidue returns the sum of m and the number e rounded to the scale
// of the currency of m, and the residue of rounding.
// The ledger is not updated.
func (m Money) AddDecResidue(e decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	c, r, err := m.addDec(e, mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("computing [%v + %v]: %w", m, e, err)
	}
	return c, r, nil
}

// AddDec is like [Money.AddDecResidue] with the rounding mode of the context
// of m, but records a non-zero residue in the ledger.
func (m Money) AddDec(e decimal.Decimal) (Money, error) {
	ctx := m.context()
	c, r, err := m.AddDecResidue(e, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpAdd, r, c.curr))
	return c, nil
}

// SubDecResidue returns the difference of m and the number e rounded to the
// scale of the currency of m, and the residue of rounding.
// The ledger is not updated.
func (m Money) SubDecResidue(e decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	c, r, err := m.addDec(e.Neg(), mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("computing [%v - %v]: %w", m, e, err)
	}
	return c, r, nil
}

// SubDec is like [Money.SubDecResidue] with the rounding mode of the context
// of m, but records a non-zero residue in the ledger.
func (m Money) SubDec(e decimal.Decimal) (Money, error) {
	ctx := m.context()
	c, r, err := m.SubDecResidue(e, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpSub, r, c.curr))
	return c, nil
}

func (m Money) addDec(e decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	m.context()
	d, err := m.value.Add(e)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	x := ShopspringFromDecimal(m.value).Add(ShopspringFromDecimal(e))
	return m.roundExact(m.curr, d, x, mode)
}

// MulResidue returns the product of m and the number e rounded to the scale
// of the currency of m, and the residue of rounding.
// The ledger is not updated.
func (m Money) MulResidue(e decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	c, r, err := m.mul(e, mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("computing [%v * %v]: %w", m, e, err)
	}
	return c, r, nil
}

// Mul is like [Money.MulResidue] with the rounding mode of the context of m,
// but records a non-zero residue in the ledger.
// Unlike every other operation, multiplication by a number can also be
// performed without rounding, see [Money.MulUnrounded].
func (m Money) Mul(e decimal.Decimal) (Money, error) {
	ctx := m.context()
	c, r, err := m.MulResidue(e, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpMul, r, c.curr))
	return c, nil
}

func (m Money) mul(e decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	m.context()
	d, err := m.value.Mul(e)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	x := ShopspringFromDecimal(m.value).Mul(ShopspringFromDecimal(e))
	return m.roundExact(m.curr, d, x, mode)
}

// MulUnrounded returns the exact product of the amount of m and the number
// e as a decimal, without rounding it to the scale of the currency.
// Nothing is recorded in the ledger: the caller decides how to round the
// product, for example with [Context.NewMoney].
//
// MulUnrounded returns an error wrapping [ErrAmountOverflow] if the exact
// product has more than 19 significant digits.
func (m Money) MulUnrounded(e decimal.Decimal) (decimal.Decimal, error) {
	d, err := m.value.Mul(e)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("computing [%v * %v]: %w", m, e, err)
	}
	x := ShopspringFromDecimal(m.value).Mul(ShopspringFromDecimal(e))
	if !ShopspringFromDecimal(d).Equal(x) {
		return decimal.Decimal{}, fmt.Errorf("computing [%v * %v]: %w: product %v does not fit a decimal", m, e, ErrAmountOverflow, x)
	}
	return d, nil
}

// QuoResidue returns the quotient of m and the number e rounded to the scale
// of the currency of m, and the residue of rounding.
// The ledger is not updated.
//
// QuoResidue returns an error if the divisor is not positive.
func (m Money) QuoResidue(e decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	c, r, err := m.quo(e, mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("computing [%v / %v]: %w", m, e, err)
	}
	return c, r, nil
}

// Quo is like [Money.QuoResidue] with the rounding mode of the context of m,
// but records a non-zero residue in the ledger.
func (m Money) Quo(e decimal.Decimal) (Money, error) {
	ctx := m.context()
	c, r, err := m.QuoResidue(e, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpQuo, r, c.curr))
	return c, nil
}

func (m Money) quo(e decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	m.context()
	if !e.IsPos() {
		return Money{}, decimal.Decimal{}, fmt.Errorf("%w: divisor must be positive", ErrInvalidInput)
	}
	d, err := m.value.Quo(e)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	x, y := ShopspringFromDecimal(m.value), ShopspringFromDecimal(e)
	if ShopspringFromDecimal(d).Mul(y).Equal(x) {
		return m.round(m.curr, d, mode)
	}
	return m.roundBig(m.curr, mode.quoBig(x, y, m.ctx.errScale), mode)
}

// Rat returns the ratio of m and b as a decimal, without rounding it.
// The ledger is not updated.
//
// Rat returns an error if the currencies are not compatible or b is zero.
func (m Money) Rat(b Money) (decimal.Decimal, error) {
	d, err := m.rat(b)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("computing [%v / %v]: %w", m, b, err)
	}
	return d, nil
}

func (m Money) rat(b Money) (decimal.Decimal, error) {
	if err := CheckCompatible(m.curr, b.curr); err != nil {
		return decimal.Decimal{}, err
	}
	if b.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: division by zero", ErrInvalidInput)
	}
	return m.value.Quo(b.value)
}

// round applies the two-stage rounding of the context of m to d and returns
// money in currency c.
func (m Money) round(c Currency, d decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	final, residue, err := m.ctx.round(d, c.Scale(), mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	n, err := newMoney(m.ctx, c, final)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	return n, residue, nil
}

// roundExact is like round, but rounds the exact result x when d, the
// same result computed with 19 significant digits, is not exact.
func (m Money) roundExact(c Currency, d decimal.Decimal, x shopspring.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	if ShopspringFromDecimal(d).Equal(x) {
		return m.round(c, d, mode)
	}
	return m.roundBig(c, mode.roundBig(x, m.ctx.errScale), mode)
}

// roundBig is like round for an internal value already rounded to the
// error detection scale.
func (m Money) roundBig(c Currency, internal shopspring.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	final, residue, err := m.ctx.roundBig(internal, c.Scale(), mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	n, err := newMoney(m.ctx, c, final)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	return n, residue, nil
}

// ApplyDec calls fn with the amount of m and rounds the result to the scale
// of the currency of m in a single stage.
// It returns the rounded money and the residue of rounding.
// The ledger is not updated.
func (m Money) ApplyDec(fn func(decimal.Decimal) (decimal.Decimal, error), mode RoundingMode) (Money, decimal.Decimal, error) {
	m.context()
	d, err := fn(m.value)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("applying function to %v: %w", m, err)
	}
	c, r, err := m.roundOnce(d, mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("applying function to %v: %w", m, err)
	}
	return c, r, nil
}

// Apply is like [Money.ApplyDec] but calls fn with the money itself.
func (m Money) Apply(fn func(Money) (decimal.Decimal, error), mode RoundingMode) (Money, decimal.Decimal, error) {
	m.context()
	d, err := fn(m)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("applying function to %v: %w", m, err)
	}
	c, r, err := m.roundOnce(d, mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("applying function to %v: %w", m, err)
	}
	return c, r, nil
}

// MapDec is like [Money.ApplyDec] with the rounding mode of the context of m,
// but records a non-zero residue in the ledger.
func (m Money) MapDec(fn func(decimal.Decimal) (decimal.Decimal, error)) (Money, error) {
	ctx := m.context()
	c, r, err := m.ApplyDec(fn, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpMap, r, c.curr))
	return c, nil
}

// Map is like [Money.Apply] with the rounding mode of the context of m,
// but records a non-zero residue in the ledger.
func (m Money) Map(fn func(Money) (decimal.Decimal, error)) (Money, error) {
	ctx := m.context()
	c, r, err := m.Apply(fn, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpMap, r, c.curr))
	return c, nil
}

// Transform calls fn with m and returns its result as is.
// The function may change the currency, for example to convert money.
// Nothing is rounded or recorded: fn is responsible for creating the result
// with a context and for handling its residues.
func (m Money) Transform(fn func(Money) (Money, error)) (Money, error) {
	m.context()
	c, err := fn(m)
	if err != nil {
		return Money{}, fmt.Errorf("transforming %v: %w", m, err)
	}
	return c, nil
}

// roundOnce rounds d directly to the scale of the currency of m.
func (m Money) roundOnce(d decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	final, err := mode.Round(d, m.curr.Scale())
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	residue, err := d.Sub(final)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	c, err := newMoney(m.ctx, m.curr, final)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	return c, residue, nil
}
