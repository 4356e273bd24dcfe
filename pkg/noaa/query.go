package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/spencer-p/tidetemp/pkg/timetricks"
)

const (
	NOAA_URL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

	DefaultApplication = "TidePool"
	DefaultDuration    = 24 * time.Hour
)

// ErrNoPredictions is returned when NOAA answers without a predictions list.
var ErrNoPredictions = errors.New("no predictions in response")

// Client fetches tide predictions from NOAA.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	application string
}

// NewClient returns a Client for baseURL. An empty baseURL means NOAA_URL, an
// empty application means DefaultApplication and a nil httpClient means
// http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL, application string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = NOAA_URL
	}
	if application == "" {
		application = DefaultApplication
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		application: application,
	}
}

// GetPredictions fetches the high and low tide events for q.
func (c *Client) GetPredictions(ctx context.Context, q *PredictionQuery) (Predictions, error) {
	if q.Station == "" {
		return nil, errors.New("station id is required")
	}

	addr, err := c.url(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return nil, err
	}

	// Make the request to NOAA
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", q.Station, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("station %s: status %d: %s", q.Station, resp.StatusCode, body)
	}

	var result NOAAResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("station %s: decode predictions: %w", q.Station, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("station %s: %w", q.Station, result.Error)
	}
	if result.Predictions == nil {
		return nil, fmt.Errorf("station %s: %w", q.Station, ErrNoPredictions)
	}

	return *result.Predictions, nil
}

func (c *Client) url(q *PredictionQuery) (*url.URL, error) {
	addr, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	addr.RawQuery = c.build(q).Encode()
	return addr, nil
}

func (c *Client) build(q *PredictionQuery) url.Values {
	dur := q.Duration
	if dur <= 0 {
		dur = DefaultDuration
	}

	vals := make(url.Values)
	vals.Add("begin_date", timetricks.CompactDay(q.Start))
	vals.Add("range", fmt.Sprintf("%d", int(math.Ceil(dur.Hours()))))
	vals.Add("station", q.Station)
	vals.Add("product", "predictions")
	vals.Add("datum", "MLLW")
	vals.Add("time_zone", "lst_ldt")
	vals.Add("interval", "hilo")
	vals.Add("units", "english")
	vals.Add("application", c.application)
	vals.Add("format", "json")
	return vals
}
