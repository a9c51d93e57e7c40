package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cantera-ops/cantera/internal/report"
)

var periodHeader = []string{
	"Equipment", "Plate", "Fleet", "Litres", "Hours", "Distance",
	"L/h", "L/km", "Fuel", "Salary", "Fixed", "Maintenance", "Total",
}

// WritePeriodCSV serialises a period report, one row per equipment plus a
// trailing totals row.
func WritePeriodCSV(w io.Writer, rep report.PeriodReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(periodHeader); err != nil {
		return err
	}
	for _, row := range rep.Rows {
		if err := writer.Write([]string{
			row.Equipment,
			row.Plate,
			row.Fleet,
			formatFloat(row.Litres),
			formatFloat(row.Hours),
			formatFloat(row.Distance),
			formatFloat(row.LitresPerHour),
			formatFloat(row.LitresPerKm),
			formatFloat(row.FuelCost),
			formatFloat(row.SalaryCost),
			formatFloat(row.FixedCost),
			formatFloat(row.MaintenanceCost),
			formatFloat(row.TotalCost),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"TOTAL", "", "", "", "", "", "", "",
		formatFloat(rep.Totals.Fuel),
		formatFloat(rep.Totals.Salary),
		formatFloat(rep.Totals.Fixed),
		formatFloat(rep.Totals.Maintenance),
		formatFloat(rep.Totals.Total),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteComparisonCSV emits the category deltas between two periods.
func WriteComparisonCSV(w io.Writer, cmp report.Comparison) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Category", "Base", "Compare", "Delta"}); err != nil {
		return err
	}
	for _, d := range cmp.Deltas {
		if err := writer.Write([]string{
			d.Label,
			formatFloat(d.Base),
			formatFloat(d.Compare),
			formatFloat(d.Delta),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"TOTAL",
		formatFloat(cmp.BaseTotal),
		formatFloat(cmp.CompareTotal),
		formatFloat(cmp.TotalDelta),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteProjectCSV emits the budget versus allocated table for a project.
func WriteProjectCSV(w io.Writer, rep report.ProjectReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Material", "Budget Qty", "Budget Cost", "Allocated Qty", "Allocated Cost", "Delta"}); err != nil {
		return err
	}
	for _, row := range rep.Rows {
		if err := writer.Write([]string{
			row.Material,
			formatFloat(row.BudgetQuantity),
			formatFloat(row.BudgetCost),
			formatFloat(row.AllocatedQuantity),
			formatFloat(row.AllocatedCost),
			formatFloat(row.Delta),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"TOTAL", "",
		formatFloat(rep.BudgetTotal), "",
		formatFloat(rep.AllocatedTotal),
		formatFloat(rep.AllocatedTotal - rep.BudgetTotal),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WritePurchasesCSV emits the purchase summary table.
func WritePurchasesCSV(w io.Writer, rows []report.PurchaseRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Material", "Purchased Qty", "Purchased Cost", "Allocated Qty", "Allocated Cost"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Material,
			formatFloat(row.PurchasedQuantity),
			formatFloat(row.PurchasedCost),
			formatFloat(row.AllocatedQuantity),
			formatFloat(row.AllocatedCost),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
