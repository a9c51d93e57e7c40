// Package costs tracks the per-equipment expense collections: salaries,
// fixed expenses and maintenance.
package costs

import "github.com/cantera-ops/cantera/internal/shared"

// Kind names one of the three expense collections.
type Kind string

const (
	// KindSalary is the salary cost collection.
	KindSalary Kind = "salary"
	// KindFixed is the fixed expense collection.
	KindFixed Kind = "fixed"
	// KindMaintenance is the maintenance cost collection.
	KindMaintenance Kind = "maintenance"
)

// Kinds lists every expense collection.
var Kinds = []Kind{KindSalary, KindFixed, KindMaintenance}

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	return k == KindSalary || k == KindFixed || k == KindMaintenance
}

// Record is one expense row. Type and Description are only meaningful for
// fixed and maintenance costs; salary rows keep them empty.
type Record struct {
	Equipment   string      `json:"equipment"`
	Date        shared.Date `json:"date"`
	Amount      float64     `json:"amount"`
	Type        string      `json:"type,omitempty"`
	Description string      `json:"description,omitempty"`
}
