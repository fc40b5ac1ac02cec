package moneta

import (
	"fmt"
	"strings"
)

// CurrencyProvider resolves currency codes to currencies.
// Implementations must be safe for concurrent use if the contexts that
// share them are used from multiple goroutines.
type CurrencyProvider interface {
	// Currency returns the currency with the given code, or false if the
	// code is unknown.
	Currency(code string) (Currency, bool)
}

// Lookup resolves a code with provider p.
// Lookup returns an error wrapping [ErrCurrencyNotFound] if p does not know
// the code.
func Lookup(p CurrencyProvider, code string) (Currency, error) {
	c, ok := p.Currency(code)
	if !ok {
		return Currency{}, fmt.Errorf("looking up %q: %w", code, ErrCurrencyNotFound)
	}
	return c, nil
}

// NullProvider is a [CurrencyProvider] that knows no currency.
// It is the provider of a [Context] created without [WithCurrencyProvider].
type NullProvider struct{}

// Currency always returns false.
func (NullProvider) Currency(string) (Currency, bool) {
	return Currency{}, false
}

// Table is an immutable in-memory [CurrencyProvider].
// Lookups are case-insensitive.
// The zero value is an empty table.
type Table struct {
	currs map[string]Currency
}

// NewTable returns a table holding the given currencies.
// NewTable returns an error if two currencies share a code.
func NewTable(currs ...Currency) (Table, error) {
	m := make(map[string]Currency, len(currs))
	for _, c := range currs {
		key := strings.ToUpper(c.Code())
		if _, ok := m[key]; ok {
			return Table{}, fmt.Errorf("%w: duplicate currency code %q", ErrInvalidConfiguration, c.Code())
		}
		m[key] = c
	}
	return Table{currs: m}, nil
}

// MustNewTable is like [NewTable] but panics if the table cannot be constructed.
func MustNewTable(currs ...Currency) Table {
	t, err := NewTable(currs...)
	if err != nil {
		panic(fmt.Sprintf("NewTable(%v) failed: %v", currs, err))
	}
	return t
}

// Currency implements the [CurrencyProvider] interface.
func (t Table) Currency(code string) (Currency, bool) {
	c, ok := t.currs[strings.ToUpper(code)]
	return c, ok
}

// Len returns the number of currencies in the table.
func (t Table) Len() int {
	return len(t.currs)
}
