package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/tidetemp/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// GetSunEvents returns a list of ordered sun events from the starting day for
// the given duration in the given place. The first result will always be a
// sunrise on the calendar day of start, in place's time zone.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	start = start.In(place.Location)

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// Around may land on the neighboring day. Step toward start, but give up
	// rather than spin at latitudes with no sunrise.
	for i := 0; i < 3 && !timetricks.SameDay(start, s.Sunrise().In(place.Location)); i++ {
		if s.Sunrise().Before(start) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise().In(place.Location), Sunrise}
		ret[i+1] = SunEvent{s.Sunset().In(place.Location), Sunset}
		s.AddDays(1)
	}
	return ret
}
