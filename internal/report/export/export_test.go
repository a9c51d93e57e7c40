package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/cantera-ops/cantera/internal/report"
)

func samplePeriod() report.PeriodReport {
	return report.PeriodReport{
		Rows: []report.EquipmentRow{
			{Equipment: "EQ-01", Plate: "AB123", Fleet: "Norte", Litres: 100, Hours: 8, FuelCost: 1200, TotalCost: 1200},
			{Equipment: "EQ-02", Plate: report.UnknownPlate, Fleet: report.NoFleet, MaintenanceCost: 350, TotalCost: 350},
		},
		Totals: report.Totals{Fuel: 1200, Maintenance: 350, Total: 1550},
	}
}

func TestWritePeriodCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WritePeriodCSV(buf, samplePeriod()); err != nil {
		t.Fatalf("period csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	// Header, two equipment rows and the totals row.
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
	last := records[len(records)-1]
	if last[0] != "TOTAL" {
		t.Fatalf("expected totals row, got %v", last)
	}
	if last[len(last)-1] != "1550.00" {
		t.Fatalf("expected grand total 1550.00, got %s", last[len(last)-1])
	}
}

func TestWriteComparisonCSV(t *testing.T) {
	cmp := report.Comparison{
		BaseTotal:    100,
		CompareTotal: 150,
		TotalDelta:   50,
		Deltas: []report.Delta{
			{Label: "Fuel", Base: 60, Compare: 90, Delta: 30},
			{Label: "Salaries", Base: 40, Compare: 60, Delta: 20},
		},
	}
	buf := &bytes.Buffer{}
	if err := WriteComparisonCSV(buf, cmp); err != nil {
		t.Fatalf("comparison csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
}

func TestWritePeriodXLSX(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WritePeriodXLSX(buf, samplePeriod()); err != nil {
		t.Fatalf("period xlsx error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("xlsx open error: %v", err)
	}
	defer func() { _ = f.Close() }()
	value, err := f.GetCellValue("Equipment", "A2")
	if err != nil {
		t.Fatalf("cell read error: %v", err)
	}
	if value != "EQ-01" {
		t.Fatalf("expected first equipment row, got %q", value)
	}
}

func TestWriteProjectXLSX(t *testing.T) {
	rep := report.ProjectReport{
		ProjectID:   "p1",
		ProjectName: "North bypass",
		Responsible: "R. Ortega",
		Rows: []report.MaterialRow{
			{Material: "cement", BudgetQuantity: 100, BudgetCost: 1000, AllocatedQuantity: 80, AllocatedCost: 960, Delta: -40},
		},
		BudgetTotal:    1000,
		AllocatedTotal: 960,
	}
	buf := &bytes.Buffer{}
	if err := WriteProjectXLSX(buf, rep); err != nil {
		t.Fatalf("project xlsx error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("xlsx open error: %v", err)
	}
	defer func() { _ = f.Close() }()
	value, err := f.GetCellValue("Materials", "B1")
	if err != nil {
		t.Fatalf("cell read error: %v", err)
	}
	if value != "North bypass" {
		t.Fatalf("expected project name, got %q", value)
	}
}
