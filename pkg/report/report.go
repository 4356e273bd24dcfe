// Package report runs the tide and temperature lookup for each location and
// renders the results. Every location is processed on its own: a failure is
// recorded on that location's Result and the rest carry on.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spencer-p/tidetemp/pkg/locations"
	"github.com/spencer-p/tidetemp/pkg/meta"
	"github.com/spencer-p/tidetemp/pkg/metrics"
	"github.com/spencer-p/tidetemp/pkg/noaa"
	"github.com/spencer-p/tidetemp/pkg/nws"
	"github.com/spencer-p/tidetemp/pkg/sunset"
	"github.com/spencer-p/tidetemp/pkg/timetricks"
)

const day = 24 * time.Hour

// TideSource is satisfied by *noaa.Client.
type TideSource interface {
	GetPredictions(ctx context.Context, q *noaa.PredictionQuery) (noaa.Predictions, error)
}

// WeatherSource is satisfied by *nws.Client.
type WeatherSource interface {
	LookupTemperatures(ctx context.Context, req nws.Request) ([]nws.Reading, error)
}

// Reporter produces a Result per location.
type Reporter struct {
	Tides   TideSource
	Weather WeatherSource
	Log     *zap.SugaredLogger
	// Concurrency is how many locations run at once. Less than 2 means one
	// at a time.
	Concurrency int
}

// Result is the outcome for one location. When Err is set the other fields
// past Date may be partial.
type Result struct {
	Location locations.Location
	Date     time.Time
	Extrema  meta.Extrema
	// Readings holds the temperature at the low tide then the high tide. It
	// is empty when the weather service had no data at all, and a single
	// reading may be missing when only one time was covered.
	Readings []nws.Reading
	Sun      sunset.SunEvents
	// LowInDaylight is true when the low tide falls between sunrise and
	// sunset.
	LowInDaylight bool
	Err           error
}

// Failed reports whether the location could not be reported.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Fallback reports whether any temperature came from the fallback point.
func (r Result) Fallback() bool {
	for _, reading := range r.Readings {
		if reading.OK() && reading.Fallback {
			return true
		}
	}
	return false
}

// Run reports every location for date. Results are in the order of locs.
func (rep *Reporter) Run(ctx context.Context, locs []locations.Location, date time.Time) []Result {
	results := make([]Result, len(locs))

	var g errgroup.Group
	g.SetLimit(max(1, rep.Concurrency))
	for i := range locs {
		g.Go(func() error {
			results[i] = rep.Report(ctx, locs[i], date)
			return nil
		})
	}
	// Report never returns an error through the group.
	_ = g.Wait()

	return results
}

// Report looks up the tide extremes at loc on date and the temperature at
// each of them.
func (rep *Reporter) Report(ctx context.Context, loc locations.Location, date time.Time) Result {
	log := rep.logger().With("location", loc.Name, "station", loc.Station)
	res := Result{Location: loc, Date: date}

	if err := rep.report(ctx, log, &res); err != nil {
		res.Err = err
		metrics.ObserveFailure(loc.Name)
		log.Errorw("location failed", "error", err)
	}
	return res
}

func (rep *Reporter) report(ctx context.Context, log *zap.SugaredLogger, res *Result) error {
	loc := res.Location

	zone, err := loc.Zone()
	if err != nil {
		return err
	}

	preds, err := rep.Tides.GetPredictions(ctx, &noaa.PredictionQuery{
		Start:    res.Date,
		Duration: day,
		Station:  loc.Station,
	})
	if err != nil {
		return fmt.Errorf("tide predictions: %w", err)
	}

	res.Extrema, err = meta.SelectExtrema(preds)
	if err != nil {
		return fmt.Errorf("station %s: %w", loc.Station, err)
	}
	log.Debugw("tide extremes",
		"low", res.Extrema.Lowest.String(), "high", res.Extrema.Highest.String())
	metrics.ObserveTide(loc.Name, "low", float64(res.Extrema.Lowest.Height))
	metrics.ObserveTide(loc.Name, "high", float64(res.Extrema.Highest.Height))

	res.Readings, err = rep.Weather.LookupTemperatures(ctx, nws.Request{
		Candidates: loc.Candidates(),
		Times:      []time.Time{res.Extrema.Lowest.T(), res.Extrema.Highest.T()},
		Zone:       zone,
	})
	switch {
	case errors.Is(err, nws.ErrUnavailable):
		log.Warnw("no temperatures", "error", err)
		res.Readings = nil
	case err != nil:
		return fmt.Errorf("weather: %w", err)
	case len(res.Readings) != 2:
		return fmt.Errorf("weather: got %d readings, want 2", len(res.Readings))
	default:
		for i, extreme := range []string{"low", "high"} {
			reading := res.Readings[i]
			if !reading.OK() {
				log.Warnw("no temperature", "extreme", extreme, "error", reading.Err)
				continue
			}
			metrics.ObserveTemperature(loc.Name, extreme, reading.Temperature)
			// Without a configured zone, the zone the weather service
			// matched in is the next best thing.
			if zone == nil {
				zone = reading.Time.Location()
			}
		}
	}

	if zone == nil {
		zone = time.Local
	}
	start := timetricks.TrimClock(timetricks.Rezone(res.Date, zone))
	res.Sun = sunset.GetSunEvents(start, day, sunset.PlaceAt(loc.Point.Lat, loc.Point.Long, zone))
	res.LowInDaylight = meta.InDaylight(timetricks.Rezone(res.Extrema.Lowest.T(), zone), res.Sun)

	return nil
}

func (rep *Reporter) logger() *zap.SugaredLogger {
	if rep.Log == nil {
		return zap.NewNop().Sugar()
	}
	return rep.Log
}
