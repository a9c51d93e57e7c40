package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cantera-ops/cantera/internal/report"
)

// WritePeriodXLSX serialises a period report to a spreadsheet with one
// equipment sheet and a totals row.
func WritePeriodXLSX(w io.Writer, rep report.PeriodReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Equipment"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, header := range periodHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, row := range rep.Rows {
		values := []interface{}{
			row.Equipment, row.Plate, row.Fleet,
			row.Litres, row.Hours, row.Distance,
			row.LitresPerHour, row.LitresPerKm,
			row.FuelCost, row.SalaryCost, row.FixedCost, row.MaintenanceCost, row.TotalCost,
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	totalsRow := len(rep.Rows) + 2
	totals := []interface{}{
		"TOTAL", "", "", "", "", "", "", "",
		rep.Totals.Fuel, rep.Totals.Salary, rep.Totals.Fixed, rep.Totals.Maintenance, rep.Totals.Total,
	}
	if err := setRow(f, sheet, totalsRow, totals); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteProjectXLSX serialises a project materials report.
func WriteProjectXLSX(w io.Writer, rep report.ProjectReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Materials"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := setRow(f, sheet, 1, []interface{}{"Project", rep.ProjectName}); err != nil {
		return err
	}
	if err := setRow(f, sheet, 2, []interface{}{"Responsible", rep.Responsible}); err != nil {
		return err
	}
	header := []interface{}{"Material", "Budget Qty", "Budget Cost", "Allocated Qty", "Allocated Cost", "Delta"}
	if err := setRow(f, sheet, 4, header); err != nil {
		return err
	}
	for i, row := range rep.Rows {
		values := []interface{}{
			row.Material,
			row.BudgetQuantity, row.BudgetCost,
			row.AllocatedQuantity, row.AllocatedCost,
			row.Delta,
		}
		if err := setRow(f, sheet, i+5, values); err != nil {
			return err
		}
	}
	totalsRow := len(rep.Rows) + 5
	totals := []interface{}{
		"TOTAL", "", rep.BudgetTotal, "", rep.AllocatedTotal, rep.AllocatedTotal - rep.BudgetTotal,
	}
	if err := setRow(f, sheet, totalsRow, totals); err != nil {
		return err
	}

	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("export: set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
