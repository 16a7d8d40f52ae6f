package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Paisa is a monetary amount in integer minor units (1/100 rupee). It is the
// only representation used for storage, arithmetic and comparison.
type Paisa int64

var hundred = decimal.NewFromInt(100)

// Rupees is the display projection p/100. Never feed it back into arithmetic.
func (p Paisa) Rupees() decimal.Decimal {
	return PaisaToRupees(p)
}

func (p Paisa) String() string {
	return p.Rupees().StringFixed(2)
}

func (p Paisa) IsNegative() bool { return p < 0 }

func PaisaToRupees(p Paisa) decimal.Decimal {
	return decimal.NewFromInt(int64(p)).Div(hundred)
}

// RupeesToPaisa rounds half-up to the nearest paisa. Negative values round
// half away from zero and are only accepted when allowNegative is set.
func RupeesToPaisa(x decimal.Decimal, allowNegative bool) (Paisa, error) {
	if x.IsNegative() && !allowNegative {
		return 0, fmt.Errorf("RupeesToPaisa: %s: %w", x, ErrInvalidAmount)
	}
	p := x.Mul(hundred).Round(0)
	if p.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || p.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("RupeesToPaisa: %s out of range: %w", x, ErrInvalidAmount)
	}
	return Paisa(p.IntPart()), nil
}

// RupeesFloatToPaisa converts a legacy float rupee value.
func RupeesFloatToPaisa(f float64, allowNegative bool) (Paisa, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("RupeesFloatToPaisa: non-finite value: %w", ErrInvalidAmount)
	}
	p, err := RupeesToPaisa(decimal.NewFromFloat(f), allowNegative)
	if err != nil {
		return 0, fmt.Errorf("RupeesFloatToPaisa: %w", err)
	}
	return p, nil
}

// PaisaFromDecimal accepts an explicit paisa value. Fractional paisa is a
// defect upstream and is rejected rather than rounded.
func PaisaFromDecimal(d decimal.Decimal) (Paisa, error) {
	if !d.IsInteger() {
		return 0, fmt.Errorf("PaisaFromDecimal: fractional paisa %s: %w", d, ErrInvalidAmount)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("PaisaFromDecimal: negative paisa %s: %w", d, ErrInvalidAmount)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("PaisaFromDecimal: %s out of range: %w", d, ErrInvalidAmount)
	}
	return Paisa(d.IntPart()), nil
}

// MoneyInput is an amount as it arrives from the API layer, which may still
// send the legacy rupee field instead of paisa.
type MoneyInput struct {
	Paisa  *decimal.Decimal `json:"amountPaisa,omitempty"`
	Rupees *decimal.Decimal `json:"amount,omitempty"`
}

func PaisaInput(p int64) MoneyInput {
	d := decimal.NewFromInt(p)
	return MoneyInput{Paisa: &d}
}

func RupeeInput(s string) MoneyInput {
	d := decimal.RequireFromString(s)
	return MoneyInput{Rupees: &d}
}

func (m MoneyInput) IsSet() bool {
	return m.Paisa != nil || m.Rupees != nil
}

// Resolve prefers the paisa field, falls back to the rupee field and yields 0
// only when neither is present.
func (m MoneyInput) Resolve() (Paisa, error) {
	switch {
	case m.Paisa != nil:
		return PaisaFromDecimal(*m.Paisa)
	case m.Rupees != nil:
		return RupeesToPaisa(*m.Rupees, false)
	default:
		return 0, nil
	}
}

// Amount is the serialized form of a Paisa value: the canonical integer plus
// the rupee view regenerated on every encode.
type Amount struct {
	Paisa Paisa
}

func NewAmount(p Paisa) Amount {
	return Amount{Paisa: p}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Paisa  int64  `json:"paisa"`
		Rupees string `json:"rupees"`
	}{
		Paisa:  int64(a.Paisa),
		Rupees: a.Paisa.Rupees().StringFixed(2),
	})
}
