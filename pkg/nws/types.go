package nws

import (
	"errors"
	"fmt"
	"time"

	"github.com/spencer-p/tidetemp/pkg/locations"
)

var (
	// ErrNoPeriod means the hourly forecast does not cover a requested time.
	ErrNoPeriod = errors.New("no forecast period covers time")
	// ErrNoTemperature means the covering period has no temperature.
	ErrNoTemperature = errors.New("forecast period has no temperature")
	// ErrUnavailable means no candidate point produced every temperature.
	ErrUnavailable = errors.New("temperature data not available")
)

// PointResponse is the subset of /points/{lat},{lon} this package reads.
type PointResponse struct {
	Properties struct {
		GridID         string `json:"gridId"`
		GridX          int    `json:"gridX"`
		GridY          int    `json:"gridY"`
		ForecastHourly string `json:"forecastHourly"`
		TimeZone       string `json:"timeZone"`
	} `json:"properties"`
}

// HourlyForecast is the body of a forecastHourly URL.
type HourlyForecast struct {
	Properties struct {
		Periods []Period `json:"periods"`
	} `json:"properties"`
}

// Period is one hour of forecast. Temperature is nil when the service left it
// out.
type Period struct {
	Number          int       `json:"number"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Temperature     *int      `json:"temperature"`
	TemperatureUnit string    `json:"temperatureUnit"`
}

func (p Period) end() time.Time {
	if p.EndTime.IsZero() {
		return p.StartTime.Add(time.Hour)
	}
	return p.EndTime
}

// Contains reports whether t is in [StartTime, EndTime).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.StartTime) && t.Before(p.end())
}

// PeriodAt returns the period whose validity covers t. Periods are matched by
// their own timestamps, never by position in the list.
func (f *HourlyForecast) PeriodAt(t time.Time) (Period, error) {
	for _, p := range f.Properties.Periods {
		if !p.Contains(t) {
			continue
		}
		if p.Temperature == nil {
			return p, fmt.Errorf("%s: %w", p.StartTime.Format(time.RFC3339), ErrNoTemperature)
		}
		return p, nil
	}
	return Period{}, fmt.Errorf("%s: %w", t.Format(time.RFC3339), ErrNoPeriod)
}

// Reading is the temperature found for one requested time. Err is set when no
// candidate had a temperature for that time.
type Reading struct {
	// Time is the requested time in the zone it was matched in.
	Time        time.Time
	PeriodStart time.Time
	Temperature int
	Unit        string
	// Point is the coordinate whose forecast answered and Fallback is true
	// when it was not the first candidate.
	Point    locations.Point
	Fallback bool
	Err      error
}

// OK reports whether the reading has a temperature.
func (r Reading) OK() bool {
	return r.Err == nil
}

func (r Reading) String() string {
	if !r.OK() {
		return "not available"
	}
	unit := r.Unit
	if unit == "" {
		unit = "F"
	}
	return fmt.Sprintf("%d°%s", r.Temperature, unit)
}

// Request asks for temperatures at Times, trying Candidates in order.
type Request struct {
	Candidates []locations.Point
	// Times are wall clock times at the location. Their zone is replaced by
	// Zone, or by the zone the points endpoint reports when Zone is nil.
	Times []time.Time
	Zone  *time.Location
}
