package moneta

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Operation identifies the kind of operation that produced a rounding error.
type Operation uint8

const (
	OpCreate Operation = iota
	OpAdd
	OpSub
	OpMul
	OpQuo
	OpSplit
	OpRoundOff
	OpMap
)

var opNames = [...]string{
	OpCreate:   "create",
	OpAdd:      "add",
	OpSub:      "subtract",
	OpMul:      "multiply",
	OpQuo:      "divide",
	OpSplit:    "split",
	OpRoundOff: "round-off",
	OpMap:      "map",
}

func (op Operation) String() string {
	if int(op) >= len(opNames) {
		return fmt.Sprintf("Operation(%d)", uint8(op))
	}
	return opNames[op]
}

// RoundingError is an entry of the ledger of a [Context]: the residue left
// by an operation that rounded its result.
// For [OpSplit] and [OpRoundOff] the residue is also available as the
// unallocated [Money] returned by [RoundingError.Unallocated].
type RoundingError struct {
	op          Operation
	residue     decimal.Decimal
	curr        Currency
	unallocated Money
	hasMoney    bool
}

// NewRoundingError returns a ledger entry for a residue denominated in
// currency curr.
// It lets callers of the explicit operations record residues they decided
// not to handle with [Context.Record].
func NewRoundingError(op Operation, residue decimal.Decimal, curr Currency) RoundingError {
	return RoundingError{op: op, residue: residue, curr: curr}
}

// newUnallocatedError returns a ledger entry carrying the unallocated part
// of a split or round-off.
func newUnallocatedError(op Operation, unallocated Money) RoundingError {
	return RoundingError{
		op:          op,
		residue:     unallocated.Decimal(),
		curr:        unallocated.Curr(),
		unallocated: unallocated,
		hasMoney:    true,
	}
}

// Op returns the kind of operation that produced the entry.
func (e RoundingError) Op() Operation {
	return e.op
}

// Residue returns the amount lost or gained by rounding.
// It can be positive or negative depending on the rounding mode.
func (e RoundingError) Residue() decimal.Decimal {
	return e.residue
}

// Curr returns the currency of the residue.
func (e RoundingError) Curr() Currency {
	return e.curr
}

// Unallocated returns the residue of a split or round-off as money.
// It returns false for other operations.
func (e RoundingError) Unallocated() (Money, bool) {
	return e.unallocated, e.hasMoney
}

// String implements the [fmt.Stringer] interface.
func (e RoundingError) String() string {
	return fmt.Sprintf("%v: %v %v", e.op, e.curr.Code(), e.residue)
}
