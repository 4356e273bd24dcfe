package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spencer-p/tidetemp/pkg/cache"
	"github.com/spencer-p/tidetemp/pkg/locations"
	"github.com/spencer-p/tidetemp/pkg/timetricks"
)

// API Docs: https://www.weather.gov/documentation/services-web-api
// Sample requests:
// - https://api.weather.gov/points/32.6731,-117.2425
// - https://api.weather.gov/gridpoints/SGX/53,13/forecast/hourly
const (
	BaseURL          = "https://api.weather.gov"
	DefaultUserAgent = "tidetemp (github.com/spencer-p/tidetemp)"

	// dedupeTTL outlives any single lookup. The cache only keeps one lookup
	// from fetching the same grid cell twice and is dropped when it returns.
	dedupeTTL = 10 * time.Minute
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        *zap.SugaredLogger
}

// NewClient returns a weather.gov client. Empty or nil arguments take
// BaseURL, DefaultUserAgent, http.DefaultClient and a no-op logger.
func NewClient(httpClient *http.Client, baseURL, userAgent string, log *zap.SugaredLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		log:        log,
	}
}

// GetPoint resolves a coordinate to its forecast grid cell.
func (c *Client) GetPoint(ctx context.Context, p locations.Point) (*PointResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path += fmt.Sprintf("/points/%.4f,%.4f", p.Lat, p.Long)

	var resp PointResponse
	if err := c.get(ctx, u.String(), &resp); err != nil {
		return nil, err
	}
	if resp.Properties.ForecastHourly == "" {
		return nil, fmt.Errorf("point %s has no hourly forecast", p)
	}
	return &resp, nil
}

// GetHourlyForecast fetches the hourly forecast at forecastURL, normally a
// PointResponse's forecastHourly.
func (c *Client) GetHourlyForecast(ctx context.Context, forecastURL string) (*HourlyForecast, error) {
	var resp HourlyForecast
	if err := c.get(ctx, forecastURL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LookupTemperatures returns one Reading per requested time. Each time is
// answered by the first candidate point whose forecast covers it, so a gap in
// the primary's forecast only sends the uncovered times to the fallback. Any
// failure on a candidate moves on to the next. A time no candidate covers gets
// a Reading with Err wrapping ErrUnavailable. When no time is covered at all
// the error wraps ErrUnavailable along with each candidate's failure.
func (c *Client) LookupTemperatures(ctx context.Context, req Request) ([]Reading, error) {
	if len(req.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no coordinates", ErrUnavailable)
	}

	forecasts := cache.NewTimed[*HourlyForecast](dedupeTTL)
	readings := make([]Reading, len(req.Times))
	missing := make([][]error, len(req.Times))
	pending := make([]int, len(req.Times))
	for j := range pending {
		pending[j] = j
	}

	var failures []error
	for i, p := range req.Candidates {
		if len(pending) == 0 {
			break
		}
		got, err := c.lookup(ctx, p, req, forecasts)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			failures = append(failures, fmt.Errorf("point %s: %w", p, err))
		}

		var still []int
		for _, j := range pending {
			terr := err
			if terr == nil {
				terr = got[j].Err
				if terr != nil {
					failures = append(failures, fmt.Errorf("point %s: %w", p, terr))
				}
			}
			if terr != nil {
				missing[j] = append(missing[j], fmt.Errorf("point %s: %w", p, terr))
				still = append(still, j)
				continue
			}
			readings[j] = got[j]
			readings[j].Fallback = i > 0
		}
		pending = still

		if len(pending) > 0 && i+1 < len(req.Candidates) {
			c.log.Infow("weather lookup failed, trying nearby location",
				"point", p.String(), "next", req.Candidates[i+1].String(),
				"missing", len(pending), "error", errors.Join(failures...))
		}
	}

	if len(pending) > 0 && len(pending) == len(readings) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(failures...))
	}
	for _, j := range pending {
		readings[j] = Reading{
			Time: timetricks.Rezone(req.Times[j], req.Zone),
			Err:  fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(missing[j]...)),
		}
	}
	return readings, nil
}

// lookup reads every requested time from p's forecast. The error is for
// failures that sink the whole point. A time the forecast cannot answer has
// its Reading.Err set instead.
func (c *Client) lookup(ctx context.Context, p locations.Point, req Request, forecasts *cache.Timed[*HourlyForecast]) ([]Reading, error) {
	point, err := c.GetPoint(ctx, p)
	if err != nil {
		return nil, err
	}

	zone := req.Zone
	if zone == nil && point.Properties.TimeZone != "" {
		zone, err = time.LoadLocation(point.Properties.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("point time zone: %w", err)
		}
	}

	forecastURL := point.Properties.ForecastHourly
	forecast, ok := forecasts.Get(forecastURL)
	if !ok {
		forecast, err = c.GetHourlyForecast(ctx, forecastURL)
		if err != nil {
			return nil, err
		}
		forecasts.Set(forecastURL, forecast)
	} else {
		c.log.Debugw("reusing hourly forecast", "url", forecastURL)
	}

	readings := make([]Reading, len(req.Times))
	for j, t := range req.Times {
		t = timetricks.Rezone(t, zone)
		readings[j] = Reading{Time: t, Point: p}
		period, err := forecast.PeriodAt(t)
		if err != nil {
			readings[j].Err = err
			continue
		}
		readings[j].PeriodStart = period.StartTime
		readings[j].Temperature = *period.Temperature
		readings[j].Unit = period.TemperatureUnit
	}
	return readings, nil
}

func (c *Client) get(ctx context.Context, addr string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	// weather.gov refuses requests without a User-Agent.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s returned status %d: %s", addr, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", addr, err)
	}
	return nil
}
