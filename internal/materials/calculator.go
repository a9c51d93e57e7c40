package materials

import (
	"math"

	"github.com/shopspring/decimal"
)

// LineCost derives quantity × unit price rounded to two decimals. Non-finite
// inputs are coerced to 0 so a bad row yields cost 0 instead of failing the
// whole report.
func LineCost(quantity, unitPrice float64) float64 {
	q := sanitize(quantity)
	p := sanitize(unitPrice)
	cost, _ := decimal.NewFromFloat(q).Mul(decimal.NewFromFloat(p)).Round(2).Float64()
	return cost
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CostBudget returns a fresh slice with the derived cost set on every line.
// Applying it twice yields the same result as applying it once.
func CostBudget(lines []BudgetLine) []BudgetLine {
	out := make([]BudgetLine, len(lines))
	for i, line := range lines {
		line.Cost = LineCost(line.Quantity, line.UnitPrice)
		out[i] = line
	}
	return out
}

// CostPurchases returns a fresh slice with the derived cost set on every row.
func CostPurchases(records []PurchaseRecord) []PurchaseRecord {
	out := make([]PurchaseRecord, len(records))
	for i, rec := range records {
		rec.Cost = LineCost(rec.Quantity, rec.UnitPrice)
		out[i] = rec
	}
	return out
}

// CostAllocations returns a fresh slice with the derived cost set on every
// row.
func CostAllocations(records []AllocationRecord) []AllocationRecord {
	out := make([]AllocationRecord, len(records))
	for i, rec := range records {
		rec.Cost = LineCost(rec.Quantity, rec.UnitPrice)
		out[i] = rec
	}
	return out
}
