// Package units converts TON minor-unit (nano) amounts into display strings.
package units

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fraction digits of the native token's smallest unit.
const Decimals = 9

// ZeroMajor is the display string for an absent or zero amount.
const ZeroMajor = "0.00"

var (
	// ErrEmptyAmount is returned when converting an amount that was never set.
	ErrEmptyAmount = errors.New("empty amount")
	// ErrInvalidAmount is returned for amounts that are not integers.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Nano is an integer amount in minor units. Providers send it either as a
// JSON string or as a JSON number, so it decodes from both.
type Nano string

// UnmarshalJSON accepts "123", 123 and null.
func (n *Nano) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	*n = Nano(bytes.Trim(data, `"`))
	return nil
}

// IsSet reports whether the amount carried any value.
func (n Nano) IsSet() bool {
	return n != ""
}

// Decimal parses the amount. The value must be an integer.
func (n Nano) Decimal() (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, string(n), err)
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("%w: %q is not an integer", ErrInvalidAmount, string(n))
	}
	return d, nil
}

// ToMajor divides the amount by 10^9 and formats it with two fraction digits.
// Negative amounts are clamped to zero.
func ToMajor(n Nano) (string, error) {
	d, err := n.Decimal()
	if err != nil {
		return "", err
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	return d.Shift(-Decimals).StringFixed(2), nil
}
