package report

import (
	"sort"

	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Inputs are the collections the period aggregator consumes. Aggregate never
// mutates them, so loaded collections can be reused across reports.
type Inputs struct {
	Consumption []consumption.Record
	Salary      []costs.Record
	Fixed       []costs.Record
	Maintenance []costs.Record
	Prices      []fuel.PriceRecord
	Equipment   []fleet.Equipment
	Fleets      []fleet.Fleet
}

// Aggregate filters every collection to [from, to] (inclusive on both ends)
// and produces one row per equipment code seen in any of them, plus grand
// totals. Fuel cost uses the price in effect on each consumption date.
func Aggregate(from, to shared.Date, in Inputs) (PeriodReport, error) {
	if err := ValidatePeriod(from, to); err != nil {
		return PeriodReport{}, err
	}

	prices := fuel.NewPriceTable(in.Prices)
	acc := make(map[string]*EquipmentRow)

	row := func(code string) *EquipmentRow {
		r, ok := acc[code]
		if !ok {
			r = &EquipmentRow{Equipment: code}
			acc[code] = r
		}
		return r
	}

	for _, rec := range in.Consumption {
		if rec.Equipment == "" || !rec.Date.InPeriod(from, to) {
			continue
		}
		r := row(rec.Equipment)
		r.Litres += rec.Litres
		r.Hours += rec.Hours
		r.Distance += rec.Distance
		r.FuelCost += rec.Litres * prices.PriceAt(rec.Date)
	}
	for _, rec := range in.Salary {
		if rec.Equipment == "" || !rec.Date.InPeriod(from, to) {
			continue
		}
		row(rec.Equipment).SalaryCost += rec.Amount
	}
	for _, rec := range in.Fixed {
		if rec.Equipment == "" || !rec.Date.InPeriod(from, to) {
			continue
		}
		row(rec.Equipment).FixedCost += rec.Amount
	}
	for _, rec := range in.Maintenance {
		if rec.Equipment == "" || !rec.Date.InPeriod(from, to) {
			continue
		}
		row(rec.Equipment).MaintenanceCost += rec.Amount
	}

	fleetNames := make(map[string]string, len(in.Fleets))
	for _, f := range in.Fleets {
		fleetNames[f.ID] = f.Name
	}
	master := make(map[string]fleet.Equipment, len(in.Equipment))
	for _, e := range in.Equipment {
		master[e.Code] = e
	}

	report := PeriodReport{From: from, To: to}
	for _, r := range acc {
		// Ratios are recomputed from summed values so rows with zero hours
		// or distance do not distort the figure.
		if r.Hours > 0 {
			r.LitresPerHour = round2(r.Litres / r.Hours)
		}
		if r.Distance > 0 {
			r.LitresPerKm = round2(r.Litres / r.Distance)
		}

		r.Plate = UnknownPlate
		r.Fleet = NoFleet
		if e, ok := master[r.Equipment]; ok {
			if e.Plate != "" {
				r.Plate = e.Plate
			}
			if e.FleetID != nil {
				if name, ok := fleetNames[*e.FleetID]; ok {
					r.Fleet = name
				}
			}
		}

		r.FuelCost = round2(r.FuelCost)
		r.SalaryCost = round2(r.SalaryCost)
		r.FixedCost = round2(r.FixedCost)
		r.MaintenanceCost = round2(r.MaintenanceCost)
		r.TotalCost = round2(r.FuelCost + r.SalaryCost + r.FixedCost + r.MaintenanceCost)

		report.Totals.Fuel += r.FuelCost
		report.Totals.Salary += r.SalaryCost
		report.Totals.Fixed += r.FixedCost
		report.Totals.Maintenance += r.MaintenanceCost

		report.Rows = append(report.Rows, *r)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Equipment < report.Rows[j].Equipment
	})

	report.Totals.Fuel = round2(report.Totals.Fuel)
	report.Totals.Salary = round2(report.Totals.Salary)
	report.Totals.Fixed = round2(report.Totals.Fixed)
	report.Totals.Maintenance = round2(report.Totals.Maintenance)
	report.Totals.Total = round2(report.Totals.Fuel + report.Totals.Salary + report.Totals.Fixed + report.Totals.Maintenance)

	return report, nil
}

// AggregateMaterials joins a project's budget lines against its allocations
// by material name. Every material present on either side appears once.
func AggregateMaterials(projectID string, budget []materials.BudgetLine, allocations []materials.AllocationRecord) []MaterialRow {
	acc := make(map[string]*MaterialRow)

	row := func(material string) *MaterialRow {
		r, ok := acc[material]
		if !ok {
			r = &MaterialRow{Material: material}
			acc[material] = r
		}
		return r
	}

	for _, line := range budget {
		if line.ProjectID != projectID || line.Material == "" {
			continue
		}
		r := row(line.Material)
		r.BudgetQuantity += line.Quantity
		r.BudgetCost += materials.LineCost(line.Quantity, line.UnitPrice)
	}
	for _, rec := range allocations {
		if rec.ProjectID != projectID || rec.Material == "" {
			continue
		}
		r := row(rec.Material)
		r.AllocatedQuantity += rec.Quantity
		r.AllocatedCost += materials.LineCost(rec.Quantity, rec.UnitPrice)
	}

	rows := make([]MaterialRow, 0, len(acc))
	for _, r := range acc {
		r.BudgetCost = round2(r.BudgetCost)
		r.AllocatedCost = round2(r.AllocatedCost)
		r.Delta = round2(r.AllocatedCost - r.BudgetCost)
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Material < rows[j].Material })
	return rows
}

// AggregatePurchases summarises purchased against allocated volume per
// material across all projects.
func AggregatePurchases(purchases []materials.PurchaseRecord, allocations []materials.AllocationRecord) []PurchaseRow {
	acc := make(map[string]*PurchaseRow)

	row := func(material string) *PurchaseRow {
		r, ok := acc[material]
		if !ok {
			r = &PurchaseRow{Material: material}
			acc[material] = r
		}
		return r
	}

	for _, rec := range purchases {
		if rec.Material == "" {
			continue
		}
		r := row(rec.Material)
		r.PurchasedQuantity += rec.Quantity
		r.PurchasedCost += materials.LineCost(rec.Quantity, rec.UnitPrice)
	}
	for _, rec := range allocations {
		if rec.Material == "" {
			continue
		}
		r := row(rec.Material)
		r.AllocatedQuantity += rec.Quantity
		r.AllocatedCost += materials.LineCost(rec.Quantity, rec.UnitPrice)
	}

	rows := make([]PurchaseRow, 0, len(acc))
	for _, r := range acc {
		r.PurchasedCost = round2(r.PurchasedCost)
		r.AllocatedCost = round2(r.AllocatedCost)
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Material < rows[j].Material })
	return rows
}
