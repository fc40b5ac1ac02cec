package moneta

import (
	"fmt"

	"github.com/govalues/decimal"
	shopspring "github.com/shopspring/decimal"
)

// SplitResidue divides m into n equal parts rounded to the scale of the
// currency of m.
// It returns the parts and the unallocated remainder, so that the sum of
// the parts plus the unallocated remainder is exactly m.
// The ledger is not updated.
//
// SplitResidue returns an error if n is less than 1.
func (m Money) SplitResidue(n int, mode RoundingMode) (parts []Money, unallocated Money, err error) {
	parts, unallocated, err = m.split(n, mode)
	if err != nil {
		return nil, Money{}, fmt.Errorf("splitting %v into %v parts: %w", m, n, err)
	}
	return parts, unallocated, nil
}

// Split is like [Money.SplitResidue] with the rounding mode of the context
// of m, but records a non-zero unallocated remainder in the ledger.
func (m Money) Split(n int) ([]Money, error) {
	ctx := m.context()
	parts, u, err := m.SplitResidue(n, ctx.mode)
	if err != nil {
		return nil, err
	}
	ctx.Record(newUnallocatedError(OpSplit, u))
	return parts, nil
}

func (m Money) split(n int, mode RoundingMode) ([]Money, Money, error) {
	m.context()
	if n < 1 {
		return nil, Money{}, fmt.Errorf("%w: number of parts must be positive", ErrInvalidInput)
	}
	if !mode.valid() {
		return nil, Money{}, fmt.Errorf("%w: unknown rounding mode %v", ErrInvalidConfiguration, uint8(mode))
	}
	count, err := decimal.New(int64(n), 0)
	if err != nil {
		return nil, Money{}, err
	}
	q := mode.quoBig(ShopspringFromDecimal(m.value), shopspring.NewFromInt(int64(n)), m.curr.Scale())
	part, err := decimalFromBig(q, m.curr.Scale())
	if err != nil {
		return nil, Money{}, err
	}
	total, err := part.Mul(count)
	if err != nil {
		return nil, Money{}, err
	}
	p, err := newMoney(m.ctx, m.curr, part)
	if err != nil {
		return nil, Money{}, err
	}
	u, err := m.unallocated(total)
	if err != nil {
		return nil, Money{}, err
	}
	parts := make([]Money, n)
	for i := range parts {
		parts[i] = p
	}
	return parts, u, nil
}

// SplitWeightedResidue divides m into parts proportional to the weights.
// Each part is rounded to the scale of the currency of m, and the parts are
// returned in the order of the weights.
// It returns the parts and the unallocated remainder, so that the sum of
// the parts plus the unallocated remainder is exactly m.
// The ledger is not updated.
//
// SplitWeightedResidue returns an error if there are no weights or any
// weight is not positive.
func (m Money) SplitWeightedResidue(weights []decimal.Decimal, mode RoundingMode) (parts []Money, unallocated Money, err error) {
	parts, unallocated, err = m.splitWeighted(weights, mode)
	if err != nil {
		return nil, Money{}, fmt.Errorf("splitting %v by weights %v: %w", m, weights, err)
	}
	return parts, unallocated, nil
}

// SplitWeighted is like [Money.SplitWeightedResidue] with the rounding mode
// of the context of m, but records a non-zero unallocated remainder in the
// ledger.
func (m Money) SplitWeighted(weights []decimal.Decimal) ([]Money, error) {
	ctx := m.context()
	parts, u, err := m.SplitWeightedResidue(weights, ctx.mode)
	if err != nil {
		return nil, err
	}
	ctx.Record(newUnallocatedError(OpSplit, u))
	return parts, nil
}

func (m Money) splitWeighted(weights []decimal.Decimal, mode RoundingMode) ([]Money, Money, error) {
	m.context()
	if len(weights) == 0 {
		return nil, Money{}, fmt.Errorf("%w: no weights", ErrInvalidInput)
	}
	if !mode.valid() {
		return nil, Money{}, fmt.Errorf("%w: unknown rounding mode %v", ErrInvalidConfiguration, uint8(mode))
	}
	var sum shopspring.Decimal
	for i, w := range weights {
		if !w.IsPos() {
			return nil, Money{}, fmt.Errorf("%w: weight %v at index %v must be positive", ErrInvalidInput, w, i)
		}
		sum = sum.Add(ShopspringFromDecimal(w))
	}
	amount := ShopspringFromDecimal(m.value)
	var total decimal.Decimal
	parts := make([]Money, len(weights))
	for i, w := range weights {
		q := mode.quoBig(amount.Mul(ShopspringFromDecimal(w)), sum, m.curr.Scale())
		d, err := decimalFromBig(q, m.curr.Scale())
		if err != nil {
			return nil, Money{}, err
		}
		total, err = total.Add(d)
		if err != nil {
			return nil, Money{}, err
		}
		parts[i], err = newMoney(m.ctx, m.curr, d)
		if err != nil {
			return nil, Money{}, err
		}
	}
	u, err := m.unallocated(total)
	if err != nil {
		return nil, Money{}, err
	}
	return parts, u, nil
}

// unallocated returns m minus the allocated total as money in the currency
// of m.
func (m Money) unallocated(total decimal.Decimal) (Money, error) {
	d, err := m.value.Sub(total)
	if err != nil {
		return Money{}, err
	}
	return newMoney(m.ctx, m.curr, d)
}

// RoundOffResidue rounds m to a multiple of unit, for example to the
// nearest 0.05 for cash payments.
// It returns the rounded money and the unallocated remainder, both in the
// currency of m, so that their sum is exactly m.
// The ledger is not updated.
//
// RoundOffResidue returns an error if:
//   - the currencies are not compatible;
//   - the unit is not positive;
//   - the unit has more digits after the decimal point than the currency of m.
func (m Money) RoundOffResidue(unit Money, mode RoundingMode) (rounded, unallocated Money, err error) {
	rounded, unallocated, err = m.roundOff(unit, mode)
	if err != nil {
		return Money{}, Money{}, fmt.Errorf("rounding %v to a multiple of %v: %w", m, unit, err)
	}
	return rounded, unallocated, nil
}

// RoundOff is like [Money.RoundOffResidue] with the rounding mode of the
// context of m, but records a non-zero unallocated remainder in the ledger.
func (m Money) RoundOff(unit Money) (Money, error) {
	ctx := m.context()
	rounded, u, err := m.RoundOffResidue(unit, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(newUnallocatedError(OpRoundOff, u))
	return rounded, nil
}

func (m Money) roundOff(unit Money, mode RoundingMode) (Money, Money, error) {
	m.context()
	if err := CheckCompatible(m.curr, unit.curr); err != nil {
		return Money{}, Money{}, err
	}
	if !unit.IsPos() {
		return Money{}, Money{}, fmt.Errorf("%w: round-off unit must be positive", ErrInvalidInput)
	}
	q, err := mode.quoInt(m.value, unit.value)
	if err != nil {
		return Money{}, Money{}, err
	}
	d, err := q.Mul(unit.value)
	if err != nil {
		return Money{}, Money{}, err
	}
	if d.Scale() > m.curr.Scale() {
		d = d.Trim(m.curr.Scale())
		if d.Scale() > m.curr.Scale() {
			return Money{}, Money{}, fmt.Errorf("%w: round-off unit %v is finer than the scale of %v", ErrInvalidInput, unit.value, m.curr.Code())
		}
	}
	rounded, err := newMoney(m.ctx, m.curr, d)
	if err != nil {
		return Money{}, Money{}, err
	}
	u, err := m.unallocated(d)
	if err != nil {
		return Money{}, Money{}, err
	}
	return rounded, u, nil
}
