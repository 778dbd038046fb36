package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"-1.005", "-1.01"},
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"0.001", "0.00"},
		{"10", "10"},
	}
	for _, tt := range tests {
		assert.True(t, Round2(dec(tt.in)).Equal(dec(tt.want)), "Round2(%s)", tt.in)
	}
}

func TestGrossFromNet(t *testing.T) {
	tests := []struct {
		name       string
		net        string
		taxPercent string
		want       string
	}{
		{"plain 20 percent", "100.00", "20", "120.00"},
		{"fractional net", "166.67", "20", "200.00"},
		{"zero rate", "55.55", "0", "55.55"},
		{"odd rate rounds", "99.99", "8.875", "108.86"}, // 99.99 * 1.08875 = 108.8641...
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrossFromNet(dec(tt.net), dec(tt.taxPercent))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestNetFromGross(t *testing.T) {
	tests := []struct {
		name       string
		gross      string
		taxPercent string
		want       string
	}{
		{"receipt scenario", "200.00", "20", "166.67"},
		{"ten percent", "110.00", "10", "100.00"},
		{"zero rate", "42.00", "0", "42.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetFromGross(dec(tt.gross), dec(tt.taxPercent))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestTaxFinance_DerivedFromRoundedNet(t *testing.T) {
	// 200 @ 20%: net rounds to 166.67, so tax must be 33.33 and the parts
	// sum back to the gross exactly.
	gross := dec("200.00")
	net := NetFromGross(gross, dec("20"))
	tax := TaxFinance(gross, dec("20"))
	assert.True(t, net.Equal(dec("166.67")))
	assert.True(t, tax.Equal(dec("33.33")))
	assert.True(t, net.Add(tax).Equal(gross))
}

// Round-tripping net -> gross -> net must land within one cent despite the
// intentional intermediate rounding.
func TestPricePair_RoundTrip(t *testing.T) {
	tolerance := dec("0.01")
	nets := []string{"0.01", "0.99", "1.00", "166.67", "1234.56", "99999.99"}
	rates := []string{"0", "5", "10", "20", "25.5"}
	for _, n := range nets {
		for _, r := range rates {
			net := dec(n)
			rate := dec(r)
			back := NetFromGross(GrossFromNet(net, rate), rate)
			diff := back.Sub(net).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"net=%s rate=%s round-trip drifted by %s", n, r, diff)
		}
	}
}

func TestDerivePair(t *testing.T) {
	pair := DerivePair(InputModeNetFirst, dec("100.00"), dec("20"))
	assert.True(t, pair.Net.Equal(dec("100.00")))
	assert.True(t, pair.Gross.Equal(dec("120.00")))

	pair = DerivePair(InputModeGrossFirst, dec("120.00"), dec("20"))
	assert.True(t, pair.Gross.Equal(dec("120.00")))
	assert.True(t, pair.Net.Equal(dec("100.00")))
}

func TestApplyDiscount(t *testing.T) {
	pct := dec("10")
	val := dec("15.50")

	tests := []struct {
		name    string
		gross   string
		percent *decimal.Decimal
		value   *decimal.Decimal
		want    string
	}{
		{"percent discount", "200.00", &pct, nil, "180.00"},
		{"fixed discount", "200.00", nil, &val, "184.50"},
		{"no discount", "200.00", nil, nil, "200.00"},
		// Both set: percent wins. This pins the historical precedence and
		// must not change without a product decision.
		{"percent wins over value", "200.00", &pct, &val, "180.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDiscount(dec(tt.gross), tt.percent, tt.value)
			require.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}
