// Package money holds currency amounts as fixed-point decimals. Amounts are
// persisted as integer cents and rendered in JSON as plain numbers with two
// decimal places.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Amount struct {
	d decimal.Decimal
}

var Zero = Amount{}

func FromCents(cents int64) Amount {
	return Amount{d: decimal.New(cents, -2)}
}

// Parse accepts a decimal string such as "29.99". More than two fractional
// digits is rejected.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if !d.Equal(d.Round(2)) {
		return Zero, fmt.Errorf("parse amount %q: more than two decimal places", s)
	}
	return Amount{d: d}, nil
}

func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Cents() int64 {
	return a.d.Shift(2).IntPart()
}

func (a Amount) Mul(qty int) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(qty)))}
}

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) String() string { return a.d.StringFixed(2) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	a.d = d.Round(2)
	return nil
}
