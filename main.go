package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/spencer-p/tidetemp/pkg/locations"
	"github.com/spencer-p/tidetemp/pkg/logging"
	"github.com/spencer-p/tidetemp/pkg/metrics"
	"github.com/spencer-p/tidetemp/pkg/noaa"
	"github.com/spencer-p/tidetemp/pkg/nws"
	"github.com/spencer-p/tidetemp/pkg/report"
	"github.com/spencer-p/tidetemp/pkg/timetricks"
)

// Config is read from TIDETEMP_* environment variables.
type Config struct {
	// Locations is a YAML file of locations. Empty means the built-in list.
	Locations string
	// Date is the report day as YYYY-MM-DD. Empty means today.
	Date           string
	Concurrency    int           `default:"1"`
	Timeout        time.Duration `default:"30s"`
	TideURL        string        `split_words:"true" default:"https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"`
	WeatherURL     string        `split_words:"true" default:"https://api.weather.gov"`
	Application    string        `default:"TidePool"`
	UserAgent      string        `split_words:"true" default:"tidetemp (github.com/spencer-p/tidetemp)"`
	PushgatewayURL string        `split_words:"true"`
	LogLevel       string        `split_words:"true" default:"info"`
}

func main() {
	var env Config
	if err := envconfig.Process("tidetemp", &env); err != nil {
		log.Fatal(err.Error())
	}

	logger, err := logging.New(env.LogLevel)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, env, logger, os.Stdout); err != nil {
		logger.Errorw("report incomplete", "error", err)
		logger.Sync()
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, env Config, logger *zap.SugaredLogger, out io.Writer) error {
	locs := locations.Default
	if env.Locations != "" {
		var err error
		if locs, err = locations.Load(env.Locations); err != nil {
			return err
		}
	}

	date := timetricks.TrimClock(time.Now())
	if env.Date != "" {
		var err error
		if date, err = timetricks.ParseISODay(env.Date, time.Local); err != nil {
			return fmt.Errorf("TIDETEMP_DATE: %w", err)
		}
	}

	httpClient := &http.Client{
		Timeout:   env.Timeout,
		Transport: metrics.LatencyTransport(nil),
	}
	rep := &report.Reporter{
		Tides:       noaa.NewClient(httpClient, env.TideURL, env.Application),
		Weather:     nws.NewClient(httpClient, env.WeatherURL, env.UserAgent, logger),
		Log:         logger,
		Concurrency: env.Concurrency,
	}

	logger.Infow("starting report", "locations", len(locs), "date", timetricks.ISODay(date))
	results := rep.Run(ctx, locs, date)

	if err := report.RenderAll(out, results); err != nil {
		return err
	}
	fmt.Fprintln(out)
	summaryErr := report.Summarize(out, results)

	if env.PushgatewayURL != "" {
		if err := metrics.Push(ctx, env.PushgatewayURL, "tidetemp"); err != nil {
			logger.Warnw("metrics push failed", "url", env.PushgatewayURL, "error", err)
		} else {
			logger.Infow("pushed metrics", "url", env.PushgatewayURL)
		}
	}

	return summaryErr
}
