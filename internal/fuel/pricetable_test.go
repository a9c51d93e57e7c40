package fuel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cantera-ops/cantera/internal/shared"
)

func date(t *testing.T, s string) shared.Date {
	t.Helper()
	d, ok := shared.ParseDate(s)
	if !ok {
		t.Fatalf("bad test date %q", s)
	}
	return d
}

func TestPriceAtBackwardMatch(t *testing.T) {
	table := NewPriceTable([]PriceRecord{
		{Date: date(t, "2024-01-05"), Price: 10},
		{Date: date(t, "2024-01-09"), Price: 12},
		{Date: date(t, "2024-01-13"), Price: 20},
	})

	// Most recent price on or before 2024-01-10 is the one from the 9th.
	assert.Equal(t, 12.0, table.PriceAt(date(t, "2024-01-10")))
	// Exact date match.
	assert.Equal(t, 10.0, table.PriceAt(date(t, "2024-01-05")))
	// All prices are in the future: no match, cost falls back to 0.
	assert.Equal(t, 0.0, table.PriceAt(date(t, "2024-01-04")))
	// Query after the last change keeps the latest price.
	assert.Equal(t, 20.0, table.PriceAt(date(t, "2024-06-01")))
}

func TestPriceAtEmptyTable(t *testing.T) {
	table := NewPriceTable(nil)
	assert.Equal(t, 0.0, table.PriceAt(date(t, "2024-01-10")))
}

func TestPriceAtAbsentDate(t *testing.T) {
	table := NewPriceTable([]PriceRecord{{Date: date(t, "2024-01-05"), Price: 10}})
	assert.Equal(t, 0.0, table.PriceAt(shared.Date{}))
}

func TestDuplicateDatesLastListedWins(t *testing.T) {
	table := NewPriceTable([]PriceRecord{
		{Date: date(t, "2024-01-01"), Price: 10},
		{Date: date(t, "2024-01-01"), Price: 11},
	})
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 11.0, table.PriceAt(date(t, "2024-01-01")))
}

func TestRecordsWithAbsentDatesAreDropped(t *testing.T) {
	table := NewPriceTable([]PriceRecord{
		{Price: 99},
		{Date: date(t, "2024-01-05"), Price: 10},
	})
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 10.0, table.PriceAt(date(t, "2024-02-01")))
}
