package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestComputeSettlement_TwoMinutesFiveSeconds(t *testing.T) {
	// 125s at 10/min: gross = round(125/60*10, 2) = 20.83
	b := ComputeSettlement(125, dec("10"), dec("0.20"))

	assert.True(t, dec("20.83").Equal(b.Gross), "gross = %s", b.Gross)
	assert.True(t, dec("4.17").Equal(b.Commission), "commission = %s", b.Commission)
	assert.True(t, dec("16.66").Equal(b.CreatorNet), "creator net = %s", b.CreatorNet)
}

func TestComputeSettlement_ExactMinutes(t *testing.T) {
	b := ComputeSettlement(600, dec("25"), dec("0.20"))

	assert.True(t, dec("250").Equal(b.Gross))
	assert.True(t, dec("50").Equal(b.Commission))
	assert.True(t, dec("200").Equal(b.CreatorNet))
}

func TestComputeSettlement_ZeroCommission(t *testing.T) {
	// Full pass-through: creator receives the entire gross
	b := ComputeSettlement(125, dec("10"), decimal.Zero)

	assert.True(t, dec("20.83").Equal(b.Gross))
	assert.True(t, b.Commission.IsZero())
	assert.True(t, b.Gross.Equal(b.CreatorNet))
}

func TestComputeSettlement_ZeroDuration(t *testing.T) {
	b := ComputeSettlement(0, dec("40"), dec("0.20"))

	assert.True(t, b.Gross.IsZero())
	assert.True(t, b.Commission.IsZero())
	assert.True(t, b.CreatorNet.IsZero())
}

func TestComputeSettlement_NegativeDurationClampsToZero(t *testing.T) {
	b := ComputeSettlement(-300, dec("40"), dec("0.20"))

	assert.True(t, b.Gross.IsZero())
	assert.True(t, b.CreatorNet.IsZero())
}

func TestComputeSettlement_NegativeRateClampsToZero(t *testing.T) {
	b := ComputeSettlement(600, dec("-5"), dec("0.20"))

	assert.True(t, b.Gross.IsZero())
}

func TestComputeSettlement_CommissionNeverExceedsGross(t *testing.T) {
	// A misconfigured commission rate above 100% must not drive the
	// creator's share negative
	b := ComputeSettlement(60, dec("10"), dec("1.50"))

	assert.True(t, b.Commission.Equal(b.Gross))
	assert.True(t, b.CreatorNet.IsZero())
}

func TestComputeSettlement_RelationsHold(t *testing.T) {
	cases := []struct {
		seconds int
		rate    string
	}{
		{1, "10"},
		{59, "3.33"},
		{61, "7.25"},
		{3600, "99.99"},
		{87, "0.01"},
	}

	for _, tc := range cases {
		b := ComputeSettlement(tc.seconds, dec(tc.rate), dec("0.20"))

		assert.False(t, b.Gross.IsNegative())
		assert.False(t, b.Commission.IsNegative())
		assert.True(t, b.CreatorNet.LessThanOrEqual(b.Gross))
		assert.True(t, b.Gross.Equal(b.Commission.Add(b.CreatorNet)),
			"%ds at %s: %s != %s + %s", tc.seconds, tc.rate, b.Gross, b.Commission, b.CreatorNet)
	}
}

func TestComputeSettlement_HalfUpRounding(t *testing.T) {
	// 30s at 1/min = 0.5 * 1 = 0.50; 45s at 0.01/min = 0.0075 -> 0.01
	b := ComputeSettlement(45, dec("0.01"), decimal.Zero)
	assert.True(t, dec("0.01").Equal(b.Gross), "gross = %s", b.Gross)
}
