package materials

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineCost(t *testing.T) {
	assert.Equal(t, 50.0, LineCost(10, 5))
	assert.Equal(t, 0.0, LineCost(0, 5))
	assert.Equal(t, 0.0, LineCost(10, 0))
	// 3 × 0.145 would be 0.435 in exact arithmetic; keep two decimals.
	assert.Equal(t, 0.44, LineCost(3, 0.145))
}

func TestLineCostCoercesNonFinite(t *testing.T) {
	assert.Equal(t, 0.0, LineCost(math.NaN(), 5))
	assert.Equal(t, 0.0, LineCost(10, math.Inf(1)))
	assert.Equal(t, 0.0, LineCost(math.Inf(-1), math.NaN()))
}

func TestCostBudgetIsIdempotentAndPure(t *testing.T) {
	input := []BudgetLine{
		{ProjectID: "p1", Material: "cement", Quantity: 100, UnitPrice: 12.5},
		{ProjectID: "p1", Material: "sand", Quantity: 30, UnitPrice: 4, Cost: 999},
	}

	once := CostBudget(input)
	twice := CostBudget(once)

	assert.Equal(t, 1250.0, once[0].Cost)
	// A stale stored cost is overwritten, never trusted.
	assert.Equal(t, 120.0, once[1].Cost)
	assert.Equal(t, once, twice)
	// Inputs stay untouched.
	assert.Equal(t, 0.0, input[0].Cost)
	assert.Equal(t, 999.0, input[1].Cost)
}

func TestCostPurchasesAndAllocations(t *testing.T) {
	purchases := CostPurchases([]PurchaseRecord{{Quantity: 7, UnitPrice: 3}})
	assert.Equal(t, 21.0, purchases[0].Cost)

	allocations := CostAllocations([]AllocationRecord{{Quantity: 2.5, UnitPrice: 8}})
	assert.Equal(t, 20.0, allocations[0].Cost)
}
