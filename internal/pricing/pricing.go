// Package pricing implements VAT-inclusive/exclusive price derivation and
// proportional expense allocation for calculation and receipt lines.
//
// Every helper rounds its result to 2 decimals with round-half-away-from-zero
// before returning. Stored fields are always computed from already-rounded
// predecessors, never from an algebraically simplified chain, so that values
// re-read from the database reproduce the same successors.
package pricing

import "github.com/shopspring/decimal"

// InputMode selects which of the net/gross pair is authoritative for a document.
const (
	InputModeNetFirst   = "NET_FIRST"
	InputModeGrossFirst = "GROSS_FIRST"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// GrossFromNet derives the VAT-inclusive (MP) value from a net (VP) value.
func GrossFromNet(net, taxPercent decimal.Decimal) decimal.Decimal {
	return Round2(net.Mul(hundred.Add(taxPercent)).Div(hundred))
}

// NetFromGross derives the net (VP) value from a VAT-inclusive (MP) value.
func NetFromGross(gross, taxPercent decimal.Decimal) decimal.Decimal {
	return Round2(gross.Mul(hundred).Div(hundred.Add(taxPercent)))
}

// TaxFinance returns the VAT portion of a gross amount. It subtracts the
// rounded net rather than multiplying by T/(100+T) so the parts always sum
// back to the gross exactly.
func TaxFinance(gross, taxPercent decimal.Decimal) decimal.Decimal {
	return Round2(gross.Sub(NetFromGross(gross, taxPercent)))
}

// ApplyDiscount applies an optional percent or fixed discount to a gross
// amount. Percent takes precedence when both are present, matching the
// historical behavior of receipt inserts. Nil for both returns gross as-is.
func ApplyDiscount(gross decimal.Decimal, discountPercent, discountValue *decimal.Decimal) decimal.Decimal {
	switch {
	case discountPercent != nil:
		return Round2(gross.Mul(hundred.Sub(*discountPercent)).Div(hundred))
	case discountValue != nil:
		return Round2(gross.Sub(*discountValue))
	default:
		return gross
	}
}

// PricePair holds the two sides of one priced line.
type PricePair struct {
	Net   decimal.Decimal
	Gross decimal.Decimal
}

// DerivePair completes a net/gross pair from the authoritative side according
// to the input mode. The supplied value is rounded before derivation.
func DerivePair(mode string, value, taxPercent decimal.Decimal) PricePair {
	value = Round2(value)
	if mode == InputModeGrossFirst {
		return PricePair{Net: NetFromGross(value, taxPercent), Gross: value}
	}
	return PricePair{Net: value, Gross: GrossFromNet(value, taxPercent)}
}
