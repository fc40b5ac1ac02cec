package moneta

import (
	"fmt"
	"math"

	"github.com/govalues/decimal"
	shopspring "github.com/shopspring/decimal"
)

// DecimalFromInt64 converts an integer to a decimal.
func DecimalFromInt64(v int64) (decimal.Decimal, error) {
	d, err := decimal.New(v, 0)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w: %w", v, ErrConversion, err)
	}
	return d, nil
}

// DecimalFromFloat64 converts a float to a decimal.
// DecimalFromFloat64 returns an error wrapping [ErrConversion] if the float
// is NaN, infinite or too large to be represented.
func DecimalFromFloat64(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w: special value", f, ErrConversion)
	}
	d, err := decimal.NewFromFloat64(f)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w: %w", f, ErrConversion, err)
	}
	return d, nil
}

// DecimalFromString converts a string such as "-1.23" to a decimal.
func DecimalFromString(s string) (decimal.Decimal, error) {
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %q: %w: %w", s, ErrConversion, err)
	}
	return d, nil
}

// DecimalFromShopspring converts an arbitrary-precision shopspring decimal
// to a decimal.
// DecimalFromShopspring returns an error wrapping [ErrConversion] if the
// value does not fit 19 significant digits without losing integer digits.
func DecimalFromShopspring(s shopspring.Decimal) (decimal.Decimal, error) {
	return DecimalFromString(s.String())
}

// ShopspringFromDecimal converts a decimal to a shopspring decimal.
// The conversion is exact.
func ShopspringFromDecimal(d decimal.Decimal) shopspring.Decimal {
	return shopspring.RequireFromString(d.String())
}

// decimalFromBig converts an exact value with at most scale digits after
// the decimal point, keeping exactly scale digits.
func decimalFromBig(x shopspring.Decimal, scale int) (decimal.Decimal, error) {
	s := x.StringFixed(int32(scale))
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v does not fit a decimal: %w", ErrAmountOverflow, s, err)
	}
	if d.String() != s {
		return decimal.Decimal{}, fmt.Errorf("%w: %v does not fit a decimal", ErrAmountOverflow, s)
	}
	return d, nil
}
