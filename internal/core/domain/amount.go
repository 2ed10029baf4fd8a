package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Column precision of balances and amounts: NUMERIC(30,18).
const (
	MaxDigits     = 30
	DecimalPlaces = 18
	IntegerDigits = MaxDigits - DecimalPlaces
)

var maxMagnitude = decimal.New(1, IntegerDigits)

// ValidateAmount checks that d fits NUMERIC(30,18) without rounding.
func ValidateAmount(d decimal.Decimal) error {
	if d.Exponent() < -DecimalPlaces && !d.Equal(d.Truncate(DecimalPlaces)) {
		return fmt.Errorf("%w: more than %d decimal places", ErrAmountOutOfRange, DecimalPlaces)
	}
	if d.Abs().GreaterThanOrEqual(maxMagnitude) {
		return fmt.Errorf("%w: more than %d digits before the decimal point", ErrAmountOutOfRange, IntegerDigits)
	}
	return nil
}

// ParseAmount parses a decimal string and validates its precision.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal", ErrAmountOutOfRange, s)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}
