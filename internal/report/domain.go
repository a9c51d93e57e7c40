// Package report computes the cost aggregation and period comparison
// reports: per-equipment cost tables, budget versus actual material spend,
// and waterfall decompositions of the variance between two periods.
package report

import (
	"errors"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cantera-ops/cantera/internal/shared"
)

// MaterialityThreshold is the minimum absolute delta, in currency units, for
// a variance to earn its own waterfall bar. Smaller deltas are rolled into
// the "Other" bucket so the chart always reconciles step by step.
const MaterialityThreshold = 0.01

var (
	// ErrInvalidPeriod signals a caller-supplied range whose start is after
	// its end, or with absent bounds. The engine never swaps or clamps.
	ErrInvalidPeriod = errors.New("report: invalid period")
	// ErrUnknownSnapshot signals a snapshot id that does not exist.
	ErrUnknownSnapshot = errors.New("report: snapshot not found")
)

// Placeholder attributes for equipment rows whose master data is missing.
const (
	UnknownPlate = "unknown"
	NoFleet      = "no fleet"
)

// EquipmentRow is one line of the period cost table.
type EquipmentRow struct {
	Equipment       string  `json:"equipment"`
	Plate           string  `json:"plate"`
	Fleet           string  `json:"fleet"`
	Litres          float64 `json:"litres"`
	Hours           float64 `json:"hours"`
	Distance        float64 `json:"distance"`
	LitresPerHour   float64 `json:"litres_per_hour"`
	LitresPerKm     float64 `json:"litres_per_km"`
	FuelCost        float64 `json:"fuel_cost"`
	SalaryCost      float64 `json:"salary_cost"`
	FixedCost       float64 `json:"fixed_cost"`
	MaintenanceCost float64 `json:"maintenance_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// Totals are the per-category sums over a period.
type Totals struct {
	Fuel        float64 `json:"fuel"`
	Salary      float64 `json:"salary"`
	Fixed       float64 `json:"fixed"`
	Maintenance float64 `json:"maintenance"`
	Total       float64 `json:"total"`
}

// PeriodReport is the aggregate output for one date range.
type PeriodReport struct {
	From   shared.Date    `json:"from"`
	To     shared.Date    `json:"to"`
	Rows   []EquipmentRow `json:"rows"`
	Totals Totals         `json:"totals"`
}

// MaterialRow compares budgeted against allocated spend for one material.
type MaterialRow struct {
	Material          string  `json:"material"`
	BudgetQuantity    float64 `json:"budget_quantity"`
	BudgetCost        float64 `json:"budget_cost"`
	AllocatedQuantity float64 `json:"allocated_quantity"`
	AllocatedCost     float64 `json:"allocated_cost"`
	Delta             float64 `json:"delta"`
}

// ProjectReport is the budget versus actual table for one project.
type ProjectReport struct {
	ProjectID      string        `json:"project_id"`
	ProjectName    string        `json:"project_name"`
	Responsible    string        `json:"responsible"`
	Rows           []MaterialRow `json:"rows"`
	BudgetTotal    float64       `json:"budget_total"`
	AllocatedTotal float64       `json:"allocated_total"`
}

// PurchaseRow summarises purchased against allocated volume per material.
type PurchaseRow struct {
	Material          string  `json:"material"`
	PurchasedQuantity float64 `json:"purchased_quantity"`
	PurchasedCost     float64 `json:"purchased_cost"`
	AllocatedQuantity float64 `json:"allocated_quantity"`
	AllocatedCost     float64 `json:"allocated_cost"`
}

// StepKind tags a waterfall bar.
type StepKind string

const (
	// StepAbsolute is a fixed starting value.
	StepAbsolute StepKind = "absolute"
	// StepRelative is a signed delta bar.
	StepRelative StepKind = "relative"
	// StepTotal is the closing total bar.
	StepTotal StepKind = "total"
)

// Step is one bar of a waterfall chart, ready for rendering.
type Step struct {
	Label       string   `json:"label"`
	Kind        StepKind `json:"kind"`
	Value       float64  `json:"value"`
	DisplayText string   `json:"display_text"`
}

// Delta is the movement of one category between two aggregates.
type Delta struct {
	Label   string  `json:"label"`
	Base    float64 `json:"base"`
	Compare float64 `json:"compare"`
	Delta   float64 `json:"delta"`
}

// Comparison is the full variance output between two aggregates.
type Comparison struct {
	BaseTotal    float64 `json:"base_total"`
	CompareTotal float64 `json:"compare_total"`
	Deltas       []Delta `json:"deltas"`
	TotalDelta   float64 `json:"total_delta"`
	Waterfall    []Step  `json:"waterfall,omitempty"`
	Significant  bool    `json:"significant"`
}

// PeriodComparison pairs the variance with the two underlying tables.
type PeriodComparison struct {
	Base       PeriodReport `json:"base"`
	Compare    PeriodReport `json:"compare"`
	Comparison Comparison   `json:"comparison"`
}

// ProjectComparison pairs a project table with its variance decomposition.
type ProjectComparison struct {
	Report     ProjectReport `json:"report"`
	Comparison Comparison    `json:"comparison"`
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders a currency value with grouping and two decimals.
func FormatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// FormatDelta renders a signed currency value.
func FormatDelta(v float64) string {
	return printer.Sprintf("%+.2f", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SnapshotStatus enumerates the snapshot job lifecycle.
type SnapshotStatus string

const (
	// SnapshotPending indicates waiting to be processed.
	SnapshotPending SnapshotStatus = "PENDING"
	// SnapshotInProgress indicates the job is executing.
	SnapshotInProgress SnapshotStatus = "IN_PROGRESS"
	// SnapshotReady indicates the payload is ready for consumption.
	SnapshotReady SnapshotStatus = "READY"
	// SnapshotFailed indicates an error occurred.
	SnapshotFailed SnapshotStatus = "FAILED"
)

// SnapshotKind enumerates the supported snapshot reports.
type SnapshotKind string

const (
	// SnapshotEquipmentCompare compares equipment costs across two periods.
	SnapshotEquipmentCompare SnapshotKind = "EQUIPMENT_COMPARE"
	// SnapshotProjectMaterials compares budgeted and allocated material
	// spend for one project.
	SnapshotProjectMaterials SnapshotKind = "PROJECT_MATERIALS"
)

// SnapshotParams configure a snapshot computation.
type SnapshotParams struct {
	BaseFrom    shared.Date `json:"base_from"`
	BaseTo      shared.Date `json:"base_to"`
	CompareFrom shared.Date `json:"compare_from"`
	CompareTo   shared.Date `json:"compare_to"`
	ProjectID   string      `json:"project_id,omitempty"`
}

// Snapshot stores metadata and payload for one computed report.
type Snapshot struct {
	ID        int64          `json:"id"`
	Kind      SnapshotKind   `json:"kind"`
	Params    SnapshotParams `json:"params"`
	Status    SnapshotStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Validate checks snapshot parameters for the given kind.
func (p SnapshotParams) Validate(kind SnapshotKind) error {
	switch kind {
	case SnapshotEquipmentCompare:
		if err := ValidatePeriod(p.BaseFrom, p.BaseTo); err != nil {
			return err
		}
		return ValidatePeriod(p.CompareFrom, p.CompareTo)
	case SnapshotProjectMaterials:
		if p.ProjectID == "" {
			return errors.New("report: project id required")
		}
		return nil
	default:
		return errors.New("report: unknown snapshot kind")
	}
}

// ValidatePeriod rejects absent bounds and inverted ranges.
func ValidatePeriod(from, to shared.Date) error {
	if from.IsZero() || to.IsZero() {
		return ErrInvalidPeriod
	}
	if from.After(to.Time) {
		return ErrInvalidPeriod
	}
	return nil
}
