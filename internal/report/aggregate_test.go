package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/shared"
)

func date(t *testing.T, s string) shared.Date {
	t.Helper()
	d, ok := shared.ParseDate(s)
	if !ok {
		t.Fatalf("bad test date %q", s)
	}
	return d
}

func TestAggregateRejectsInvertedPeriod(t *testing.T) {
	_, err := Aggregate(date(t, "2024-02-01"), date(t, "2024-01-01"), Inputs{})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = Aggregate(shared.Date{}, date(t, "2024-01-01"), Inputs{})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestAggregateFuelCostUsesPriceInEffect(t *testing.T) {
	in := Inputs{
		Consumption: []consumption.Record{
			{Equipment: "EQ-01", Date: date(t, "2024-01-10"), Litres: 100, Hours: 8, Distance: 50},
		},
		Prices: []fuel.PriceRecord{
			{Date: date(t, "2024-01-05"), Price: 10},
			{Date: date(t, "2024-01-09"), Price: 12},
			{Date: date(t, "2024-01-13"), Price: 20},
		},
	}
	rep, err := Aggregate(date(t, "2024-01-01"), date(t, "2024-01-31"), in)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, 1200.0, rep.Rows[0].FuelCost)
	assert.Equal(t, 1200.0, rep.Totals.Fuel)
}

func TestAggregateNoPriorPriceMeansZeroCost(t *testing.T) {
	in := Inputs{
		Consumption: []consumption.Record{
			{Equipment: "EQ-01", Date: date(t, "2024-01-10"), Litres: 100},
		},
		Prices: []fuel.PriceRecord{{Date: date(t, "2024-01-13"), Price: 20}},
	}
	rep, err := Aggregate(date(t, "2024-01-01"), date(t, "2024-01-31"), in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rep.Rows[0].FuelCost)
	assert.Equal(t, 100.0, rep.Rows[0].Litres)
}

func TestAggregateRatiosUseSummedValues(t *testing.T) {
	in := Inputs{
		Consumption: []consumption.Record{
			{Equipment: "EQ-01", Date: date(t, "2024-01-10"), Litres: 10, Hours: 2},
			{Equipment: "EQ-01", Date: date(t, "2024-01-11"), Litres: 5, Hours: 0},
		},
	}
	rep, err := Aggregate(date(t, "2024-01-01"), date(t, "2024-01-31"), in)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	// 15 litres over 2 hours, not the average of 5 and "undefined".
	assert.Equal(t, 7.5, rep.Rows[0].LitresPerHour)
	// Distance summed to zero: ratio reported as 0, not infinity.
	assert.Equal(t, 0.0, rep.Rows[0].LitresPerKm)
}

func TestAggregatePeriodBoundsAreInclusive(t *testing.T) {
	in := Inputs{
		Salary: []costs.Record{
			{Equipment: "ON-START", Date: date(t, "2024-01-10"), Amount: 1},
			{Equipment: "ON-END", Date: date(t, "2024-01-20"), Amount: 2},
			{Equipment: "BEFORE", Date: date(t, "2024-01-09"), Amount: 3},
			{Equipment: "AFTER", Date: date(t, "2024-01-21"), Amount: 4},
		},
	}
	rep, err := Aggregate(date(t, "2024-01-10"), date(t, "2024-01-20"), in)
	require.NoError(t, err)
	codes := make([]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		codes = append(codes, r.Equipment)
	}
	assert.ElementsMatch(t, []string{"ON-START", "ON-END"}, codes)
}

func TestAggregateMaintenanceOnlyEquipmentStillAppears(t *testing.T) {
	in := Inputs{
		Maintenance: []costs.Record{
			{Equipment: "EQ-09", Date: date(t, "2024-01-15"), Amount: 350},
		},
	}
	rep, err := Aggregate(date(t, "2024-01-01"), date(t, "2024-01-31"), in)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	r := rep.Rows[0]
	assert.Equal(t, "EQ-09", r.Equipment)
	assert.Equal(t, 350.0, r.MaintenanceCost)
	assert.Equal(t, 0.0, r.FuelCost)
	assert.Equal(t, 0.0, r.SalaryCost)
	assert.Equal(t, 0.0, r.FixedCost)
	assert.Equal(t, 350.0, r.TotalCost)
}

func TestAggregateLeftJoinsMasterData(t *testing.T) {
	fleetID := "f1"
	in := Inputs{
		Salary: []costs.Record{
			{Equipment: "KNOWN", Date: date(t, "2024-01-15"), Amount: 10},
			{Equipment: "GHOST", Date: date(t, "2024-01-15"), Amount: 20},
		},
		Equipment: []fleet.Equipment{{Code: "KNOWN", Plate: "AB123", FleetID: &fleetID}},
		Fleets:    []fleet.Fleet{{ID: "f1", Name: "Norte"}},
	}
	rep, err := Aggregate(date(t, "2024-01-01"), date(t, "2024-01-31"), in)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)

	byCode := make(map[string]EquipmentRow)
	for _, r := range rep.Rows {
		byCode[r.Equipment] = r
	}
	assert.Equal(t, "AB123", byCode["KNOWN"].Plate)
	assert.Equal(t, "Norte", byCode["KNOWN"].Fleet)
	// No master record: placeholders, never an error.
	assert.Equal(t, UnknownPlate, byCode["GHOST"].Plate)
	assert.Equal(t, NoFleet, byCode["GHOST"].Fleet)
}

func TestAggregateEmptyPeriodProducesNoRows(t *testing.T) {
	in := Inputs{
		Consumption: []consumption.Record{
			{Equipment: "EQ-01", Date: date(t, "2023-06-01"), Litres: 10},
		},
	}
	rep, err := Aggregate(date(t, "2024-01-01"), date(t, "2024-01-31"), in)
	require.NoError(t, err)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, 0.0, rep.Totals.Total)
}

func TestAggregateDoesNotMutateInputs(t *testing.T) {
	recs := []consumption.Record{
		{Equipment: "EQ-01", Date: date(t, "2024-01-10"), Litres: 10, Hours: 1},
	}
	orig := recs[0]
	_, err := Aggregate(date(t, "2024-01-01"), date(t, "2024-01-31"), Inputs{Consumption: recs})
	require.NoError(t, err)
	assert.Equal(t, orig, recs[0])
}

func TestAggregateMaterialsJoinsBothSides(t *testing.T) {
	budget := []materials.BudgetLine{
		{ProjectID: "p1", Material: "cement", Quantity: 100, UnitPrice: 10},
		{ProjectID: "p1", Material: "sand", Quantity: 50, UnitPrice: 2},
		{ProjectID: "other", Material: "cement", Quantity: 999, UnitPrice: 999},
	}
	allocations := []materials.AllocationRecord{
		{ProjectID: "p1", Material: "cement", Quantity: 80, UnitPrice: 12},
		{ProjectID: "p1", Material: "gravel", Quantity: 10, UnitPrice: 5},
	}

	rows := AggregateMaterials("p1", budget, allocations)
	require.Len(t, rows, 3)

	byMaterial := make(map[string]MaterialRow)
	for _, r := range rows {
		byMaterial[r.Material] = r
	}
	assert.Equal(t, 1000.0, byMaterial["cement"].BudgetCost)
	assert.Equal(t, 960.0, byMaterial["cement"].AllocatedCost)
	assert.Equal(t, -40.0, byMaterial["cement"].Delta)
	// Budget-only material.
	assert.Equal(t, 100.0, byMaterial["sand"].BudgetCost)
	assert.Equal(t, 0.0, byMaterial["sand"].AllocatedCost)
	// Allocation-only material.
	assert.Equal(t, 50.0, byMaterial["gravel"].AllocatedCost)
	assert.Equal(t, 0.0, byMaterial["gravel"].BudgetCost)
}

func TestAggregatePurchasesSummarises(t *testing.T) {
	rows := AggregatePurchases(
		[]materials.PurchaseRecord{
			{Material: "cement", Quantity: 100, UnitPrice: 10},
			{Material: "cement", Quantity: 20, UnitPrice: 11},
		},
		[]materials.AllocationRecord{
			{Material: "cement", Quantity: 90, UnitPrice: 10.5},
		},
	)
	require.Len(t, rows, 1)
	assert.Equal(t, 120.0, rows[0].PurchasedQuantity)
	assert.Equal(t, 1220.0, rows[0].PurchasedCost)
	assert.Equal(t, 945.0, rows[0].AllocatedCost)
}
