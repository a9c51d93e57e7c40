package fuel

import (
	"sort"

	"github.com/cantera-ops/cantera/internal/shared"
)

// PriceTable answers "what was the fuel price on this date" with backward
// (asof) semantics: the matching price is the one with the latest date on or
// before the queried date.
type PriceTable struct {
	dates  []shared.Date
	prices []float64
}

// NewPriceTable builds a lookup table from raw price records. Records with
// absent dates are dropped. When several records share a date the last one
// listed wins; earlier duplicates are discarded (last-write-wins, matching
// how edits to the price grid are applied).
func NewPriceTable(records []PriceRecord) PriceTable {
	byDate := make(map[shared.Date]float64, len(records))
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		byDate[rec.Date] = rec.Price
	}

	dates := make([]shared.Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j].Time) })

	prices := make([]float64, len(dates))
	for i, d := range dates {
		prices[i] = byDate[d]
	}
	return PriceTable{dates: dates, prices: prices}
}

// PriceAt returns the price in effect on the given date, 0 when no price
// record dated on or before it exists. A missing price is a data-quality
// gap, never an error: the resulting fuel cost is simply 0.
func (t PriceTable) PriceAt(date shared.Date) float64 {
	if date.IsZero() || len(t.dates) == 0 {
		return 0
	}
	// First index whose date is after the query; the match sits just before.
	idx := sort.Search(len(t.dates), func(i int) bool {
		return t.dates[i].After(date.Time)
	})
	if idx == 0 {
		return 0
	}
	return t.prices[idx-1]
}

// Len reports the number of distinct price dates.
func (t PriceTable) Len() int {
	return len(t.dates)
}
