package timetricks

import (
	"time"
)

const (
	dayFormat = "20060102"
	isoFormat = "2006-01-02"
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// TrimClock returns midnight at the start of t's calendar day in t's zone.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CompactDay formats t as YYYYMMDD, the form NOAA expects for begin_date.
func CompactDay(t time.Time) string {
	return t.Format(dayFormat)
}

// ISODay formats t as YYYY-MM-DD for display.
func ISODay(t time.Time) string {
	return t.Format(isoFormat)
}

// ParseISODay parses a YYYY-MM-DD date at midnight in loc.
func ParseISODay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(isoFormat, s, loc)
}

// Rezone returns the instant in loc that has the same wall clock as t.
// NOAA reports lst_ldt times without an offset, so a prediction decoded in one
// zone has to be re-anchored in the station's zone before comparing it to a
// forecast period.
func Rezone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), loc)
}
