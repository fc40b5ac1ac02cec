package moneta

import (
	"fmt"
	"strings"

	"github.com/govalues/decimal"
)

// DefaultNeutralScale is the scale of the currency returned by [Undefined].
const DefaultNeutralScale = 4

const undefinedCode = "XXX"

// Currency describes a currency: its code, display metadata and the number
// of digits after the decimal point used by its minor unit.
// The zero value is not a valid currency; use [NewCurrency],
// [NewNeutralCurrency] or a [CurrencyProvider] to obtain one.
//
// Currency is immutable and safe for concurrent use by multiple goroutines.
// Two currencies are equal, as reported by [Currency.Equal], when they have
// the same code and are of the same variant (neutral or not).
type Currency struct {
	code    string
	name    string
	symbol  string
	scale   int
	neutral bool
}

func newCurrency(code, name, symbol string, scale int, neutral bool) (Currency, error) {
	if code == "" {
		return Currency{}, fmt.Errorf("%w: empty currency code", ErrInvalidConfiguration)
	}
	if scale < 0 || scale > decimal.MaxScale {
		return Currency{}, fmt.Errorf("%w: currency %v scale %v is out of range [0, %v]", ErrInvalidConfiguration, code, scale, decimal.MaxScale)
	}
	return Currency{code: code, name: name, symbol: symbol, scale: scale, neutral: neutral}, nil
}

// NewCurrency returns a currency that can only be combined with itself and
// with neutral currencies.
//
// NewCurrency returns an error if the code is empty or the scale is negative
// or greater than [decimal.MaxScale].
func NewCurrency(code, name, symbol string, scale int) (Currency, error) {
	return newCurrency(code, name, symbol, scale, false)
}

// MustNewCurrency is like [NewCurrency] but panics if the currency cannot be
// constructed.
// It simplifies safe initialization of tables of currencies.
func MustNewCurrency(code, name, symbol string, scale int) Currency {
	c, err := NewCurrency(code, name, symbol, scale)
	if err != nil {
		panic(fmt.Sprintf("NewCurrency(%q, %q, %q, %v) failed: %v", code, name, symbol, scale, err))
	}
	return c
}

// NewNeutralCurrency returns an undefined "XXX" currency with the given scale.
// A neutral currency can be combined with any other currency.
func NewNeutralCurrency(scale int) (Currency, error) {
	return newCurrency(undefinedCode, "No Currency", "¤", scale, true)
}

// Undefined returns the neutral "XXX" currency with [DefaultNeutralScale]
// digits after the decimal point.
// It is the default currency of a [Context].
func Undefined() Currency {
	return Currency{code: undefinedCode, name: "No Currency", symbol: "¤", scale: DefaultNeutralScale, neutral: true}
}

// USD returns the US Dollar.
func USD() Currency { return MustNewCurrency("USD", "Dollar", "$", 2) }

// EUR returns the Euro.
func EUR() Currency { return MustNewCurrency("EUR", "Euro", "€", 2) }

// GBP returns the Pound Sterling.
func GBP() Currency { return MustNewCurrency("GBP", "Pound Sterling", "£", 2) }

// JPY returns the Japanese Yen.
func JPY() Currency { return MustNewCurrency("JPY", "Yen", "¥", 0) }

// CNY returns the Chinese Yuan.
func CNY() Currency { return MustNewCurrency("CNY", "Yuan", "¥", 2) }

// Code returns the identifier of the currency, usually an ISO 4217 code.
func (c Currency) Code() string {
	return c.code
}

// Name returns the international name of the currency.
func (c Currency) Name() string {
	return c.name
}

// Symbol returns the display symbol of the currency.
func (c Currency) Symbol() string {
	return c.symbol
}

// Scale returns the number of digits after the decimal point required for
// representing the minor unit of a currency.
// For example, the scale of the US Dollar is 2 because its minor unit,
// 1 cent, is represented as 0.01 dollars.
func (c Currency) Scale() int {
	return c.scale
}

// IsNeutral returns true if the currency can be combined with any other currency.
func (c Currency) IsNeutral() bool {
	return c.neutral
}

// Equal returns true if currencies c and d have the same code and are of the
// same variant.
// The scale is not compared: two neutral currencies are equal regardless of
// their scale.
func (c Currency) Equal(d Currency) bool {
	return c.code == d.code && c.neutral == d.neutral
}

// String implements the [fmt.Stringer] interface and returns the code of
// the currency.
func (c Currency) String() string {
	return c.code
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb       | Example | Description     |
//	| ---------- | ------- | --------------- |
//	| %c, %s, %v | USD     | Currency        |
//	| %q         | "USD"   | Quoted currency |
//
// The '-' format flag can be used with all verbs.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
func (c Currency) Format(state fmt.State, verb rune) {
	text := c.code
	switch verb {
	case 'q', 'Q':
		text = `"` + text + `"`
	case 's', 'S', 'v', 'V', 'c', 'C':
	default:
		fmt.Fprintf(state, "%%!%c(moneta.Currency=%s)", verb, text)
		return
	}
	writePadded(state, text)
}

// writePadded writes text honouring the width and the '-' flag of the state.
func writePadded(state fmt.State, text string) {
	pad := ""
	if w, ok := state.Width(); ok && w > len(text) {
		pad = strings.Repeat(" ", w-len(text))
	}
	//nolint:errcheck
	if state.Flag('-') {
		state.Write([]byte(text + pad))
	} else {
		state.Write([]byte(pad + text))
	}
}
