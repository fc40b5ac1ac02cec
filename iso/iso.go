// Package iso resolves ISO 4217 currency codes for [moneta] contexts and
// renders money the way it is written in receipts and reports.
//
// The catalog is the one maintained by [github.com/Rhymond/go-money].
// Currencies returned by [Provider] use the ISO code as their name and the
// catalog grapheme as their symbol.
package iso

import (
	"fmt"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/govalues/decimal"

	"github.com/govalues/moneta"
)

// Provider is a [moneta.CurrencyProvider] for the ISO 4217 currencies.
// Lookups are case-insensitive.
// Provider is safe for concurrent use by multiple goroutines.
type Provider struct{}

// Currency implements the [moneta.CurrencyProvider] interface.
func (Provider) Currency(code string) (moneta.Currency, bool) {
	c := gomoney.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return moneta.Currency{}, false
	}
	curr, err := moneta.NewCurrency(c.Code, c.Code, c.Grapheme, c.Fraction)
	if err != nil {
		return moneta.Currency{}, false
	}
	return curr, true
}

// NewContext is like [moneta.NewContext] but resolves currency codes with
// [Provider] unless another provider is given in opts.
func NewContext(opts ...moneta.Option) (*moneta.Context, error) {
	return moneta.NewContext(append([]moneta.Option{moneta.WithCurrencyProvider(Provider{})}, opts...)...)
}

// Format renders m with the symbol, thousands separator and decimal mark of
// its ISO currency, for example "$1,234.56".
// The amount is rounded half to even if the ISO currency has fewer digits
// after the decimal point than the currency of m.
//
// Format returns an error if the code of the currency of m is not an ISO
// code or the amount does not fit an int64 number of minor units.
func Format(m moneta.Money) (string, error) {
	s, err := format(m)
	if err != nil {
		return "", fmt.Errorf("formatting %v: %w", m, err)
	}
	return s, nil
}

func format(m moneta.Money) (string, error) {
	c := gomoney.GetCurrency(m.Curr().Code())
	if c == nil {
		return "", moneta.ErrCurrencyNotFound
	}
	units, err := minorUnits(m.Decimal(), c.Fraction)
	if err != nil {
		return "", err
	}
	return c.Formatter().Format(units), nil
}

// minorUnits rescales d to the given scale and returns its coefficient
// with the sign of d.
func minorUnits(d decimal.Decimal, scale int) (int64, error) {
	d, err := moneta.HalfToEven.Round(d, scale)
	if err != nil {
		return 0, err
	}
	if d.Scale() < scale {
		d = d.Pad(scale)
		if d.Scale() < scale {
			return 0, moneta.ErrAmountOverflow
		}
	}
	u := d.Coef()
	if d.IsNeg() {
		if u > -math.MinInt64 {
			return 0, moneta.ErrAmountOverflow
		}
		return -int64(u), nil
	}
	if u > math.MaxInt64 {
		return 0, moneta.ErrAmountOverflow
	}
	return int64(u), nil
}
