package shared

import (
	"bytes"
	"time"
)

// DateLayout is the wire format for calendar dates at every storage and API
// boundary.
const DateLayout = "2006-01-02"

// Date is a logical calendar day with no time-of-day component. The zero
// value means "absent": records whose date failed to parse keep a zero Date
// and are excluded from period filters rather than pinned to an epoch.
type Date struct {
	time.Time
}

// DateOf normalises an arbitrary timestamp to a UTC calendar day.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate converts a YYYY-MM-DD string into a Date. The second return
// value reports whether the input was a valid date; invalid or empty input
// yields an absent Date.
func ParseDate(value string) (Date, bool) {
	if value == "" {
		return Date{}, false
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return Date{}, false
	}
	return Date{t}, true
}

// String renders the date in wire format, empty when absent.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string, "" when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string. Invalid input becomes an
// absent date, never an error: imperfect operational records stay loadable.
func (d *Date) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(data, `"`)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = Date{}
		return nil
	}
	parsed, _ := ParseDate(string(trimmed))
	*d = parsed
	return nil
}

// InPeriod reports whether the date falls within [from, to], inclusive on
// both ends. Absent dates never match.
func (d Date) InPeriod(from, to Date) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(from.Time) && !d.After(to.Time)
}
