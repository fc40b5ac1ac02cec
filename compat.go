package moneta

// AreCompatible returns true if currencies a and b can be combined in one
// operation: either of them is neutral, or they are equal.
// AreCompatible is symmetric.
func AreCompatible(a, b Currency) bool {
	return a.IsNeutral() || b.IsNeutral() || a.Equal(b)
}

// CheckCompatible returns an [*IncompatibleCurrencyError] if currencies a and b
// cannot be combined.
// See also [AreCompatible].
func CheckCompatible(a, b Currency) error {
	if !AreCompatible(a, b) {
		return &IncompatibleCurrencyError{Left: a, Right: b}
	}
	return nil
}

// MostSpecific orders two compatible currencies by specificity.
// The more specific currency is the one used for the result of a binary
// operation:
//
//   - if neither currency is neutral they are equal and a is returned as more specific;
//   - if exactly one is neutral, the other one is more specific;
//   - if both are neutral, the one with the larger scale is more specific,
//     and a wins a tie.
//
// MostSpecific returns an error if the currencies are not compatible.
func MostSpecific(a, b Currency) (less, more Currency, err error) {
	if err := CheckCompatible(a, b); err != nil {
		return Currency{}, Currency{}, err
	}
	switch {
	case !a.IsNeutral():
		return b, a, nil
	case !b.IsNeutral():
		return a, b, nil
	case b.Scale() > a.Scale():
		return a, b, nil
	default:
		return b, a, nil
	}
}
