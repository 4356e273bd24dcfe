// Command hourly prints the high and low tides at a location over the next few
// days, then the interpolated tide height each hour with the forecast
// temperature for that hour.
//
//	hourly "Point Loma Tide Pools"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spencer-p/tidetemp/pkg/locations"
	"github.com/spencer-p/tidetemp/pkg/logging"
	"github.com/spencer-p/tidetemp/pkg/noaa"
	"github.com/spencer-p/tidetemp/pkg/noaa/splines"
	"github.com/spencer-p/tidetemp/pkg/nws"
	"github.com/spencer-p/tidetemp/pkg/timetricks"
)

func main() {
	days := flag.Int("days", 3, "days of tides to print")
	file := flag.String("locations", "", "YAML locations file, default is the built-in list")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := logging.New(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	locs := locations.Default
	if *file != "" {
		if locs, err = locations.Load(*file); err != nil {
			logger.Fatalw("load locations", "error", err)
		}
	}

	loc := locs[0]
	if name := flag.Arg(0); name != "" {
		var ok bool
		if loc, ok = find(locs, name); !ok {
			logger.Fatalw("unknown location", "name", name)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := printTides(ctx, logger, loc, *days); err != nil {
		logger.Fatalw("hourly", "location", loc.Name, "error", err)
	}
}

func find(locs []locations.Location, name string) (locations.Location, bool) {
	for _, l := range locs {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return locations.Location{}, false
}

func printTides(ctx context.Context, logger *zap.SugaredLogger, loc locations.Location, days int) error {
	tides := noaa.NewClient(nil, "", "")
	preds, err := tides.GetPredictions(ctx, &noaa.PredictionQuery{
		Start:    timetricks.TrimClock(time.Now()),
		Duration: time.Duration(days) * 24 * time.Hour,
		Station:  loc.Station,
	})
	if err != nil {
		return err
	}

	weather := nws.NewClient(nil, "", "", logger)
	point, err := weather.GetPoint(ctx, loc.Point)
	if err != nil {
		return err
	}
	forecast, err := weather.GetHourlyForecast(ctx, point.Properties.ForecastHourly)
	if err != nil {
		return err
	}
	zone, err := loc.Zone()
	if err != nil {
		return err
	}
	if zone == nil {
		if zone, err = time.LoadLocation(point.Properties.TimeZone); err != nil {
			return err
		}
	}

	spline, err := splines.Between(preds)
	if err != nil {
		return err
	}

	fmt.Printf("%s (station %s)\n", loc.Name, loc.Station)
	for _, p := range preds {
		fmt.Println(tideLine(p))
	}
	fmt.Println()
	for _, sample := range spline.Every(time.Hour) {
		// The hourly forecast only reaches about a week out.
		temp := "-"
		if period, err := forecast.PeriodAt(timetricks.Rezone(sample.Time, zone)); err == nil {
			temp = fmt.Sprintf("%d°%s", *period.Temperature, period.TemperatureUnit)
		}
		fmt.Printf("%s %6.2f ft %s\n", sample.Time.Format("2006-01-02 15:04"), sample.Height, temp)
	}
	return nil
}

// tideLine formats one hilo event. Predictions without a type get a dash.
func tideLine(p noaa.Prediction) string {
	kind := "-"
	if p.Type.Valid() {
		kind = p.Type.String()
	}
	return fmt.Sprintf("%s %s %s %6.3f ft", timetricks.ISODay(p.T()), p.Clock(), kind, float64(p.Height))
}
