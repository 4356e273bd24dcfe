package sunset

import (
	"fmt"
	"time"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

// PlaceAt returns the Place for a coordinate. A nil loc means time.Local.
func PlaceAt(lat, long float64, loc *time.Location) Place {
	if loc == nil {
		loc = time.Local
	}
	return Place{lat, long, loc}
}

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s", s.Time.Format(time.RFC822), s.Event)
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset  Event = false
)

func (e Event) String() string {
	if e == Sunrise {
		return "Sunrise"
	}
	return "Sunset"
}

// Window returns the first sunrise and the sunset after it, if present.
func (events SunEvents) Window() (rise, set time.Time, ok bool) {
	for i := 0; i+1 < len(events); i++ {
		if events[i].Event == Sunrise && events[i+1].Event == Sunset {
			return events[i].Time, events[i+1].Time, true
		}
	}
	return time.Time{}, time.Time{}, false
}
