package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const subsystem = "tidetemp"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "Outbound HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"host", "code"},
	)

	tideHeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:      "tide_height_feet",
			Subsystem: subsystem,
			Help:      "Predicted tide height above MLLW at the day's extremes.",
		},
		[]string{"location", "extreme"},
	)

	temperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:      "temperature",
			Subsystem: subsystem,
			Help:      "Forecast air temperature at the time of each tide extreme.",
		},
		[]string{"location", "extreme"},
	)

	locationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "location_failures_total",
			Subsystem: subsystem,
			Help:      "Locations whose report could not be produced.",
		},
		[]string{"location"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		tideHeight,
		temperature,
		locationFailures,
	)
}

func ObserveRequestLatency(host, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"host": host,
		"code": code,
	}).Observe(latency)
}

// ObserveTide records the height of a tide extreme, "low" or "high".
func ObserveTide(location, extreme string, feet float64) {
	tideHeight.WithLabelValues(location, extreme).Set(feet)
}

// ObserveTemperature records the temperature at a tide extreme.
func ObserveTemperature(location, extreme string, degrees int) {
	temperature.WithLabelValues(location, extreme).Set(float64(degrees))
}

func ObserveFailure(location string) {
	locationFailures.WithLabelValues(location).Inc()
}

// LatencyTransport wraps next, recording every round trip in the request
// latency histogram. A nil next means http.DefaultTransport.
func LatencyTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		t := time.Now()
		resp, err := next.RoundTrip(r)

		code := "error"
		if err == nil {
			code = strconv.Itoa(resp.StatusCode)
		}
		ObserveRequestLatency(r.URL.Host, code, time.Since(t).Seconds())
		return resp, err
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Push sends everything in the default registry to a Prometheus Pushgateway
// under job.
func Push(ctx context.Context, gatewayURL, job string) error {
	return push.New(gatewayURL, job).
		Gatherer(prometheus.DefaultGatherer).
		PushContext(ctx)
}
