// Package materials tracks construction projects and their material budgets,
// purchases and allocations.
package materials

import "github.com/cantera-ops/cantera/internal/shared"

// Project is a construction project materials are budgeted and allocated to.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Responsible string `json:"responsible"`
}

// BudgetLine is the planned quantity and unit price of one material for a
// project. Cost is always derived as Quantity × UnitPrice and recomputed on
// every load; it is never trusted from storage.
type BudgetLine struct {
	ProjectID string  `json:"project_id"`
	Material  string  `json:"material"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Cost      float64 `json:"cost"`
}

// PurchaseRecord is one material purchase. Cost is derived.
type PurchaseRecord struct {
	ID        string      `json:"id"`
	Date      shared.Date `json:"date"`
	Material  string      `json:"material"`
	Quantity  float64     `json:"quantity"`
	UnitPrice float64     `json:"unit_price"`
	Cost      float64     `json:"cost"`
}

// AllocationRecord assigns purchased material to a project at the realized
// unit cost, which may differ from the purchase price. Cost is derived.
type AllocationRecord struct {
	ID        string      `json:"id"`
	Date      shared.Date `json:"date"`
	ProjectID string      `json:"project_id"`
	Material  string      `json:"material"`
	Quantity  float64     `json:"quantity"`
	UnitPrice float64     `json:"unit_price"`
	Cost      float64     `json:"cost"`
}
