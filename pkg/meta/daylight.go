package meta

import (
	"sort"
	"time"

	"github.com/spencer-p/tidetemp/pkg/sunset"
)

// InDaylight reports whether t falls after a sunrise and before the sunset that
// follows it. events must be ordered by time.
func InDaylight(t time.Time, events sunset.SunEvents) bool {
	i, ok := indexOfLastEventBefore(t, events)
	if !ok {
		return false
	}
	return events[i].Event == sunset.Sunrise
}

// Returns the last event at or before time t, if there is one.
func indexOfLastEventBefore(t time.Time, events sunset.SunEvents) (int, bool) {
	// sort.Search finds the first event after t; the one before it is ours.
	i := sort.Search(len(events), func(i int) bool {
		return events[i].Time.After(t)
	})
	if i == 0 {
		return -1, false
	}
	return i - 1, true
}
