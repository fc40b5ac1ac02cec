/*
Package moneta implements monetary values that never lose money silently.
It builds on the [decimal] package for exact decimal arithmetic and adds
currencies, rounding contexts and an auditable record of every amount lost
or gained by rounding.

# Features

  - Immutable monetary values bound to the [Context] that created them
  - Neutral currencies that combine with any other currency and promote
    the precision of the result
  - Two forms of every operation: one returning the residue of rounding,
    one recording it in the ledger of the context
  - Seven rounding modes, including banker's rounding and cash rounding
    to an arbitrary unit
  - Splitting by count or by weights with an exact unallocated remainder

# Representation

A [Money] value consists of a [Currency], a [decimal.Decimal] amount and a
pointer to its [Context].
The amount always has exactly as many digits after the decimal point as the
scale of the currency.
A Currency is a small immutable struct holding a code, a name, a symbol and
a scale.
The neutral currency "XXX" returned by [Undefined] is compatible with every
currency.

# Rounding

Operations first compute an exact result, round it to the error detection
scale of the context and then to the scale of the result currency.
The residue is the difference between the two roundings.
Choosing an error detection scale of 8 means that a loss of less than
0.000000005 is not considered a loss at all.

# Errors

Incompatible currencies, invalid arguments and invalid configuration are
reported immediately as errors.
Rounding residues of the implicit operations are deferred: they are recorded
in the ledger of the context and become an error only when the ledger is
checked with [Context.EnsureNoErrors], [Context.Close] or [Run].
Must-prefixed constructors panic, and so does arithmetic on a zero [Money]
value.
*/
package moneta
