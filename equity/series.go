// Package equity holds the chart-ready daily equity series and the calendar
// day type that keys it.
package equity

import (
	"math"
	"sort"
)

// RawPoint is one row of the backend equity-history payload, before any
// validation. Date stays a string because malformed rows are dropped rather
// than failing the whole load.
type RawPoint struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}

// Point is a validated (day, equity) pair.
type Point struct {
	Day    Day     `json:"date"`
	Equity float64 `json:"equity"`
}

// Series is an ordered, day-deduplicated sequence of equity points: strictly
// increasing by day, at most one point per calendar day. The zero value is an
// empty series ready for use.
//
// Series does no locking. The sync controller owns the one instance backing
// the chart and serializes access to it.
type Series struct {
	points []Point
}

// Load replaces the series content with the given rows. Rows with an
// unparsable date or a non-finite equity are dropped. When several rows share
// a calendar day the last one in input order wins. The result is sorted
// ascending by day.
//
// The new content is built on the side and swapped in at the end, so a prior
// good series is never left half-overwritten.
func (s *Series) Load(raw []RawPoint) int {
	next := make([]Point, 0, len(raw))
	index := make(map[Day]int, len(raw))

	for _, r := range raw {
		if !finite(r.Equity) {
			continue
		}
		day, err := ParseDay(r.Date)
		if err != nil {
			continue
		}
		if i, ok := index[day]; ok {
			next[i].Equity = r.Equity
			continue
		}
		index[day] = len(next)
		next = append(next, Point{Day: day, Equity: r.Equity})
	}

	sort.Slice(next, func(i, j int) bool { return next[i].Day.Before(next[j].Day) })
	s.points = next
	return len(next)
}

// Upsert inserts a point, or replaces the value of an existing point on the
// same calendar day. A non-finite equity is silently ignored. Order is
// restored after every insert.
func (s *Series) Upsert(day Day, value float64) {
	if !finite(value) {
		return
	}
	for i := range s.points {
		if s.points[i].Day == day {
			s.points[i].Equity = value
			return
		}
	}
	s.points = append(s.points, Point{Day: day, Equity: value})
	sort.Slice(s.points, func(i, j int) bool { return s.points[i].Day.Before(s.points[j].Day) })
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.points) }

// IsEmpty reports whether the series has no points.
func (s *Series) IsEmpty() bool { return len(s.points) == 0 }

// Points returns a copy of the series content in chronological order.
func (s *Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Latest returns the most recent point, or false on an empty series.
func (s *Series) Latest() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// Get returns the value recorded for a day, or false if none exists.
func (s *Series) Get(day Day) (float64, bool) {
	for _, p := range s.points {
		if p.Day == day {
			return p.Equity, true
		}
	}
	return 0, false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
