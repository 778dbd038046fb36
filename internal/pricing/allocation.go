package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrZeroAllocationBase is returned when an expense pool is non-zero but the
// lines it should be distributed over carry no gross value at all.
var ErrZeroAllocationBase = errors.New("allocation base is zero")

// AllocationLine is one calculation line as seen by the allocation engine:
// the original net/gross totals before any expense has been folded in.
type AllocationLine struct {
	Net   decimal.Decimal
	Gross decimal.Decimal
}

// AllocatedLine carries the recomputed values for one line after both
// allocation stages.
type AllocatedLine struct {
	NetInternal   decimal.Decimal
	GrossInternal decimal.Decimal
	NetFinal      decimal.Decimal
	GrossFinal    decimal.Decimal
}

// ExpensePool is the aggregated total of one expense class. Total is the
// gross amount, TaxPortion its VAT part.
type ExpensePool struct {
	Total      decimal.Decimal
	TaxPortion decimal.Decimal
}

// PoolEntry is a single expense row contributing to a pool.
type PoolEntry struct {
	Amount     decimal.Decimal
	TaxPercent decimal.Decimal
}

// BuildPool sums expense entries into a pool. Each entry's tax portion is
// rounded individually before aggregation.
func BuildPool(entries []PoolEntry) ExpensePool {
	pool := ExpensePool{Total: decimal.Zero, TaxPortion: decimal.Zero}
	for _, e := range entries {
		amount := Round2(e.Amount)
		pool.Total = Round2(pool.Total.Add(amount))
		pool.TaxPortion = Round2(pool.TaxPortion.Add(TaxFinance(amount, e.TaxPercent)))
	}
	return pool
}

// Allocate distributes the internal and then the external expense pool across
// the lines, proportionally to each line's share of the stage's total gross.
// The internal stage works off the original values; the external stage works
// off the internal-adjusted ones. Both stages are full recomputes: callers
// must pass original (pre-allocation) line values on every run.
func Allocate(lines []AllocationLine, internal, external ExpensePool) ([]AllocatedLine, error) {
	afterInternal, err := allocateStage(lines, internal)
	if err != nil {
		return nil, err
	}
	afterExternal, err := allocateStage(afterInternal, external)
	if err != nil {
		return nil, err
	}

	out := make([]AllocatedLine, len(lines))
	for i := range lines {
		out[i] = AllocatedLine{
			NetInternal:   afterInternal[i].Net,
			GrossInternal: afterInternal[i].Gross,
			NetFinal:      afterExternal[i].Net,
			GrossFinal:    afterExternal[i].Gross,
		}
	}
	return out, nil
}

func allocateStage(lines []AllocationLine, pool ExpensePool) ([]AllocationLine, error) {
	out := make([]AllocationLine, len(lines))

	// An empty pool passes values through verbatim. This is a distinct case,
	// not an allocation of zero: no rounding may touch the lines.
	if pool.Total.IsZero() {
		copy(out, lines)
		return out, nil
	}

	base := decimal.Zero
	for _, line := range lines {
		base = base.Add(line.Gross)
	}
	if base.IsZero() {
		return nil, ErrZeroAllocationBase
	}

	taxBase := Round2(pool.Total.Sub(pool.TaxPortion))
	for i, line := range lines {
		// A zero-value line yields relation 0 and keeps its values; only the
		// aggregate base is ever divided.
		relation := line.Gross.Div(base)
		out[i] = AllocationLine{
			Gross: Round2(line.Gross.Add(Round2(pool.Total.Mul(relation)))),
			Net:   Round2(line.Net.Add(taxBase.Mul(relation))),
		}
	}
	return out, nil
}
