// Package fuel tracks the fuel price history and resolves the price in
// effect on any given date.
package fuel

import "github.com/cantera-ops/cantera/internal/shared"

// PriceRecord is the price per litre that took effect on Date.
type PriceRecord struct {
	Date  shared.Date `json:"date"`
	Price float64     `json:"price"`
}
