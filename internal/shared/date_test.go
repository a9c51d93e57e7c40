package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-03-15")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d.Time)

	for _, bad := range []string{"", "15/03/2024", "2024-13-01", "not a date"} {
		d, ok := ParseDate(bad)
		assert.False(t, ok, bad)
		assert.True(t, d.IsZero(), bad)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-03-15")
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)
}

func TestDateJSONInvalidBecomesAbsent(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"31/12/2024"`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestInPeriodInclusiveBounds(t *testing.T) {
	from, _ := ParseDate("2024-01-10")
	to, _ := ParseDate("2024-01-20")

	onStart, _ := ParseDate("2024-01-10")
	onEnd, _ := ParseDate("2024-01-20")
	dayBefore, _ := ParseDate("2024-01-09")
	dayAfter, _ := ParseDate("2024-01-21")

	assert.True(t, onStart.InPeriod(from, to))
	assert.True(t, onEnd.InPeriod(from, to))
	assert.False(t, dayBefore.InPeriod(from, to))
	assert.False(t, dayAfter.InPeriod(from, to))
	assert.False(t, Date{}.InPeriod(from, to))
}
