package moneta

import (
	"fmt"

	"github.com/govalues/decimal"
	shopspring "github.com/shopspring/decimal"
)

// RoundingMode selects how a decimal is rounded to a given number of digits
// after the decimal point.
// The zero value is [HalfToEven].
type RoundingMode uint8

const (
	// HalfToEven rounds to the nearest neighbour, ties to the even one
	// (banker's rounding).
	HalfToEven RoundingMode = iota
	// HalfAwayFromZero rounds to the nearest neighbour, ties away from zero.
	HalfAwayFromZero
	// HalfTowardZero rounds to the nearest neighbour, ties toward zero.
	HalfTowardZero
	// TowardZero truncates.
	TowardZero
	// AwayFromZero rounds up the magnitude.
	AwayFromZero
	// TowardPositiveInf rounds up (ceiling).
	TowardPositiveInf
	// TowardNegativeInf rounds down (floor).
	TowardNegativeInf
)

var modeNames = [...]string{
	HalfToEven:        "half-to-even",
	HalfAwayFromZero:  "half-away-from-zero",
	HalfTowardZero:    "half-toward-zero",
	TowardZero:        "toward-zero",
	AwayFromZero:      "away-from-zero",
	TowardPositiveInf: "toward-positive-infinity",
	TowardNegativeInf: "toward-negative-infinity",
}

func (m RoundingMode) valid() bool {
	return int(m) < len(modeNames)
}

// ParseRoundingMode converts a name such as "half-to-even" or
// "toward-zero" to a rounding mode.
// See also method [RoundingMode.String].
func ParseRoundingMode(s string) (RoundingMode, error) {
	for m, name := range modeNames {
		if name == s {
			return RoundingMode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rounding mode %q", ErrInvalidConfiguration, s)
}

// String implements the [fmt.Stringer] interface.
func (m RoundingMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("RoundingMode(%d)", uint8(m))
	}
	return modeNames[m]
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseRoundingMode].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (m *RoundingMode) UnmarshalText(text []byte) error {
	var err error
	*m, err = ParseRoundingMode(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", HalfToEven, err)
	}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (m RoundingMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("marshaling %v: %w", m, ErrInvalidConfiguration)
	}
	return []byte(m.String()), nil
}

// Round returns d rounded to the given number of digits after the decimal
// point using mode m.
// If d already has at most scale digits after the decimal point, it is
// returned unchanged.
//
// Round returns an error if the mode is unknown, the scale is out of range
// or the rounded value overflows.
func (m RoundingMode) Round(d decimal.Decimal, scale int) (decimal.Decimal, error) {
	if !m.valid() {
		return decimal.Decimal{}, fmt.Errorf("rounding %v: %w: unknown rounding mode %v", d, ErrInvalidConfiguration, uint8(m))
	}
	if scale < 0 || scale > decimal.MaxScale {
		return decimal.Decimal{}, fmt.Errorf("rounding %v: %w: scale %v is out of range", d, ErrInvalidInput, scale)
	}
	if d.Scale() <= scale {
		return d, nil
	}
	switch m {
	case HalfToEven:
		return d.Round(scale), nil
	case TowardZero:
		return d.Trunc(scale), nil
	case TowardPositiveInf:
		return d.Ceil(scale), nil
	case TowardNegativeInf:
		return d.Floor(scale), nil
	}

	t := d.Trunc(scale)
	r, err := d.Sub(t)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rounding %v: %w", d, err)
	}
	if r.IsZero() {
		return t, nil
	}
	ulp, err := decimal.New(1, scale)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rounding %v: %w", d, err)
	}
	away := m == AwayFromZero
	if m == HalfAwayFromZero || m == HalfTowardZero {
		twice, err := r.Abs().Add(r.Abs())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("rounding %v: %w", d, err)
		}
		switch c := twice.Cmp(ulp); {
		case c > 0:
			away = true
		case c == 0:
			away = m == HalfAwayFromZero
		}
	}
	if !away {
		return t, nil
	}
	t, err = t.Add(ulp.CopySign(d))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rounding %v: %w", d, err)
	}
	return t, nil
}

var decOne = decimal.MustNew(1, 0)

// quoInt returns the quotient d / e rounded to an integer using mode m.
// The quotient is exact: rounding is decided from the remainder of the
// integer division, not from a truncated quotient.
func (m RoundingMode) quoInt(d, e decimal.Decimal) (decimal.Decimal, error) {
	if !m.valid() {
		return decimal.Decimal{}, fmt.Errorf("%w: unknown rounding mode %v", ErrInvalidConfiguration, uint8(m))
	}
	q, r, err := d.QuoRem(e)
	if err != nil {
		return decimal.Decimal{}, err
	}
	q = q.Trunc(0)
	if r.IsZero() {
		return q, nil
	}
	neg := d.Sign() != e.Sign()

	var away bool
	switch m {
	case TowardZero:
		away = false
	case AwayFromZero:
		away = true
	case TowardPositiveInf:
		away = !neg
	case TowardNegativeInf:
		away = neg
	default:
		twice, err := r.Abs().Add(r.Abs())
		if err != nil {
			return decimal.Decimal{}, err
		}
		switch c := twice.Cmp(e.Abs()); {
		case c > 0:
			away = true
		case c < 0:
			away = false
		case m == HalfAwayFromZero:
			away = true
		case m == HalfTowardZero:
			away = false
		default:
			away = q.Coef()%2 == 1
		}
	}
	if !away {
		return q, nil
	}
	if neg {
		return q.Sub(decOne)
	}
	return q.Add(decOne)
}

var bigHalf = shopspring.New(5, -1)

// roundBig returns x rounded to the given number of digits after the
// decimal point using mode m.
// Unlike [RoundingMode.Round], it works on exact values of any length.
func (m RoundingMode) roundBig(x shopspring.Decimal, scale int) shopspring.Decimal {
	q := x.Truncate(int32(scale))
	r := x.Sub(q)
	if r.IsZero() {
		return q
	}
	half := r.Abs().Shift(int32(scale)).Cmp(bigHalf)
	return m.awayBig(q, scale, x.IsNegative(), half)
}

// quoBig returns the exact quotient x / y rounded to the given number of
// digits after the decimal point using mode m.
// The divisor y must be positive.
func (m RoundingMode) quoBig(x, y shopspring.Decimal, scale int) shopspring.Decimal {
	q, r := x.QuoRem(y, int32(scale))
	if r.IsZero() {
		return q
	}
	half := r.Abs().Shift(int32(scale)).Add(r.Abs().Shift(int32(scale))).Cmp(y)
	return m.awayBig(q, scale, x.IsNegative(), half)
}

// awayBig decides whether q, truncated toward zero with a non-zero
// remainder, moves one unit in the last place away from zero.
// The sign of half compares the remainder with half of that unit.
func (m RoundingMode) awayBig(q shopspring.Decimal, scale int, neg bool, half int) shopspring.Decimal {
	var away bool
	switch m {
	case TowardZero:
		away = false
	case AwayFromZero:
		away = true
	case TowardPositiveInf:
		away = !neg
	case TowardNegativeInf:
		away = neg
	case HalfAwayFromZero:
		away = half >= 0
	case HalfTowardZero:
		away = half > 0
	default:
		away = half > 0 || half == 0 && q.Shift(int32(scale)).BigInt().Bit(0) == 1
	}
	if !away {
		return q
	}
	ulp := shopspring.New(1, -int32(scale))
	if neg {
		return q.Sub(ulp)
	}
	return q.Add(ulp)
}
