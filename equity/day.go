package equity

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayFormat is the wire format for calendar days ("2006-01-02").
const DayFormat = "2006-01-02"

// Day is a calendar day with no time-of-day or timezone component.
// It is the uniqueness key for points in a Series.
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay returns a normalized Day for the given year, month and day.
// Out-of-range components roll over the way time.Date rolls them over.
func NewDay(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.year, d.month, d.day = d.time().Date()
	return d
}

// DayOf truncates a time.Time to its calendar day in the time's location.
func DayOf(t time.Time) Day {
	return NewDay(t.Date())
}

// Today returns the current calendar day in local time.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a "2006-01-02" string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return NewDay(t.Date()), nil
}

// MustParseDay is like ParseDay but panics on error. For tests and constants.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Day) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Time returns the canonical representation of the day: midnight UTC.
func (d Day) Time() time.Time { return d.time() }

// Before reports whether d falls before x.
func (d Day) Before(x Day) bool { return d.time().Before(x.time()) }

// After reports whether d falls after x.
func (d Day) After(x Day) bool { return d.time().After(x.time()) }

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d == Day{} }

func (d Day) String() string { return d.time().Format(DayFormat) }

// Compare returns -1, 0 or 1 ordering d against x chronologically.
func (d Day) Compare(x Day) int {
	return d.time().Compare(x.time())
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Day{}
	_ json.Unmarshaler = (*Day)(nil)
)
