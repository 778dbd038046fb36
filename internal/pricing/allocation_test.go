package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPool(t *testing.T) {
	pool := BuildPool([]PoolEntry{
		{Amount: dec("40"), TaxPercent: dec("20")},
		{Amount: dec("12.00"), TaxPercent: dec("10")},
	})
	// 40 @ 20% -> tax 6.67; 12 @ 10% -> net 10.91, tax 1.09
	assert.True(t, pool.Total.Equal(dec("52.00")))
	assert.True(t, pool.TaxPortion.Equal(dec("7.76")))
}

func TestAllocate_TwoLineScenario(t *testing.T) {
	// Two lines with gross 100 and 300: shares 0.25 and 0.75 of a 40.00
	// internal pool taxed at 20%.
	lines := []AllocationLine{
		{Net: dec("83.33"), Gross: dec("100.00")},
		{Net: dec("250.00"), Gross: dec("300.00")},
	}
	internal := BuildPool([]PoolEntry{{Amount: dec("40"), TaxPercent: dec("20")}})
	require.True(t, internal.TaxPortion.Equal(dec("6.67")))

	got, err := Allocate(lines, internal, ExpensePool{Total: decimal.Zero, TaxPortion: decimal.Zero})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].GrossInternal.Equal(dec("110.00")), "line 1 gross: %s", got[0].GrossInternal)
	assert.True(t, got[1].GrossInternal.Equal(dec("330.00")), "line 2 gross: %s", got[1].GrossInternal)

	// Net side uses the tax-exclusive part of the pool: 40 - 6.67 = 33.33.
	assert.True(t, got[0].NetInternal.Equal(dec("91.66")), "line 1 net: %s", got[0].NetInternal)
	assert.True(t, got[1].NetInternal.Equal(dec("275.00")), "line 2 net: %s", got[1].NetInternal)

	// No external pool: final values match after-internal values exactly.
	assert.True(t, got[0].GrossFinal.Equal(got[0].GrossInternal))
	assert.True(t, got[1].NetFinal.Equal(got[1].NetInternal))
}

func TestAllocate_Conservation(t *testing.T) {
	lines := []AllocationLine{
		{Net: dec("10.11"), Gross: dec("12.13")},
		{Net: dec("77.77"), Gross: dec("93.32")},
		{Net: dec("5.00"), Gross: dec("6.00")},
		{Net: dec("333.33"), Gross: dec("399.99")},
	}
	internal := BuildPool([]PoolEntry{{Amount: dec("55.55"), TaxPercent: dec("20")}})

	got, err := Allocate(lines, internal, ExpensePool{})
	require.NoError(t, err)

	sumBefore := decimal.Zero
	sumAfter := decimal.Zero
	for i := range lines {
		sumBefore = sumBefore.Add(lines[i].Gross)
		sumAfter = sumAfter.Add(got[i].GrossInternal)
	}
	// Per-line rounding may drift by up to one cent per line.
	drift := sumAfter.Sub(sumBefore).Sub(internal.Total).Abs()
	tolerance := decimal.NewFromInt(int64(len(lines))).Mul(dec("0.01"))
	assert.True(t, drift.LessThanOrEqual(tolerance), "allocation lost %s", drift)
}

func TestAllocate_ZeroPoolsAreVerbatimPassThrough(t *testing.T) {
	lines := []AllocationLine{
		{Net: dec("83.333"), Gross: dec("100.001")}, // deliberately unrounded
		{Net: dec("250.00"), Gross: dec("300.00")},
	}
	got, err := Allocate(lines, ExpensePool{}, ExpensePool{})
	require.NoError(t, err)

	for i := range lines {
		assert.True(t, got[i].NetInternal.Equal(lines[i].Net))
		assert.True(t, got[i].GrossInternal.Equal(lines[i].Gross))
		assert.True(t, got[i].NetFinal.Equal(lines[i].Net))
		assert.True(t, got[i].GrossFinal.Equal(lines[i].Gross))
	}
}

func TestAllocate_ExternalStageUsesInternalAdjustedBase(t *testing.T) {
	lines := []AllocationLine{
		{Net: dec("100.00"), Gross: dec("120.00")},
		{Net: dec("100.00"), Gross: dec("120.00")},
	}
	internal := BuildPool([]PoolEntry{{Amount: dec("24.00"), TaxPercent: dec("20")}})
	external := BuildPool([]PoolEntry{{Amount: dec("26.40"), TaxPercent: dec("20")}})

	got, err := Allocate(lines, internal, external)
	require.NoError(t, err)

	// Equal lines split both pools evenly: 120 + 12 = 132, then 132 + 13.20.
	assert.True(t, got[0].GrossInternal.Equal(dec("132.00")))
	assert.True(t, got[0].GrossFinal.Equal(dec("145.20")), "final gross: %s", got[0].GrossFinal)
	assert.True(t, got[1].GrossFinal.Equal(dec("145.20")))
}

func TestAllocate_ZeroValueLineGetsZeroShare(t *testing.T) {
	lines := []AllocationLine{
		{Net: decimal.Zero, Gross: decimal.Zero},
		{Net: dec("100.00"), Gross: dec("120.00")},
	}
	internal := BuildPool([]PoolEntry{{Amount: dec("12.00"), TaxPercent: dec("20")}})

	got, err := Allocate(lines, internal, ExpensePool{})
	require.NoError(t, err)
	assert.True(t, got[0].GrossInternal.IsZero())
	assert.True(t, got[0].NetInternal.IsZero())
	assert.True(t, got[1].GrossInternal.Equal(dec("132.00")))
}

func TestAllocate_ZeroBaseFails(t *testing.T) {
	lines := []AllocationLine{
		{Net: decimal.Zero, Gross: decimal.Zero},
	}
	internal := BuildPool([]PoolEntry{{Amount: dec("10.00"), TaxPercent: dec("20")}})

	_, err := Allocate(lines, internal, ExpensePool{})
	require.ErrorIs(t, err, ErrZeroAllocationBase)
}
