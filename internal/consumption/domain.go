// Package consumption tracks fuel and usage readings per equipment unit.
package consumption

import "github.com/cantera-ops/cantera/internal/shared"

// Record is one consumption reading. Several records may exist for the same
// equipment and date.
type Record struct {
	Equipment string      `json:"equipment"`
	Date      shared.Date `json:"date"`
	Litres    float64     `json:"litres"`
	Hours     float64     `json:"hours"`
	Distance  float64     `json:"distance"`
}
