package moneta

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompatibleCurrency is returned when two currencies cannot be
	// combined in one operation. See [IncompatibleCurrencyError].
	ErrIncompatibleCurrency = errors.New("incompatible currencies")

	// ErrInvalidConfiguration is returned for programmer mistakes in the
	// setup of currencies and contexts, such as a currency scale exceeding
	// the error detection scale of a context.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput is returned when an argument of an operation is out of
	// its domain: a non-positive divisor, split count, weight or round-off unit.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConversion is returned when a number cannot be represented as a decimal.
	ErrConversion = errors.New("conversion failed")

	// ErrCurrencyNotFound is returned when a currency provider does not know a code.
	ErrCurrencyNotFound = errors.New("currency not found")

	// ErrRoundingErrors is returned when a context is checked while its
	// ledger is not empty. See [RoundingErrorsError].
	ErrRoundingErrors = errors.New("unhandled rounding errors")

	// ErrAmountOverflow is returned when a result does not fit the decimal
	// representation.
	ErrAmountOverflow = errors.New("amount overflow")
)

// IncompatibleCurrencyError reports the two currencies of a failed
// compatibility check.
// It matches [ErrIncompatibleCurrency] with [errors.Is].
type IncompatibleCurrencyError struct {
	Left, Right Currency
}

func (e *IncompatibleCurrencyError) Error() string {
	return fmt.Sprintf("currencies %v and %v are not compatible", e.Left.Code(), e.Right.Code())
}

func (e *IncompatibleCurrencyError) Unwrap() error {
	return ErrIncompatibleCurrency
}

// RoundingErrorsError carries a snapshot of the ledger of a context that
// was checked with [Context.EnsureNoErrors] while holding rounding errors.
// It matches [ErrRoundingErrors] with [errors.Is].
type RoundingErrorsError struct {
	Errors []RoundingError
}

func (e *RoundingErrorsError) Error() string {
	var b strings.Builder
	b.WriteString(ErrRoundingErrors.Error())
	fmt.Fprintf(&b, " (%d):", len(e.Errors))
	for i, r := range e.Errors {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte(' ')
		b.WriteString(r.String())
	}
	return b.String()
}

func (e *RoundingErrorsError) Unwrap() error {
	return ErrRoundingErrors
}
