package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/tidetemp/pkg/locations"
	"github.com/spencer-p/tidetemp/pkg/noaa"
	"github.com/spencer-p/tidetemp/pkg/nws"
)

var (
	june1     = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	pointLoma = locations.Location{
		Name:     "Point Loma Tide Pools",
		City:     "San Diego",
		State:    "CA",
		Point:    locations.Point{Lat: 32.6731, Long: -117.2425},
		Station:  "9410170",
		Fallback: &locations.Point{Lat: 32.7157, Long: -117.1611},
	}
)

func at(clock string, height float64) noaa.Prediction {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2024-06-01 "+clock, time.Local)
	if err != nil {
		panic(err)
	}
	return noaa.Prediction{Time: noaa.Time(t), Height: noaa.Height(height)}
}

type fakeTides map[string]noaa.Predictions

func (f fakeTides) GetPredictions(_ context.Context, q *noaa.PredictionQuery) (noaa.Predictions, error) {
	preds, ok := f[q.Station]
	if !ok {
		return nil, fmt.Errorf("unknown station %s", q.Station)
	}
	return preds, nil
}

type fakeWeather func(req nws.Request) ([]nws.Reading, error)

func (f fakeWeather) LookupTemperatures(_ context.Context, req nws.Request) ([]nws.Reading, error) {
	return f(req)
}

// constantWeather answers every time with temp, tagging readings as fallback
// when asked.
func constantWeather(temp int, fallback bool) fakeWeather {
	return func(req nws.Request) ([]nws.Reading, error) {
		var out []nws.Reading
		for _, t := range req.Times {
			out = append(out, nws.Reading{Time: t, Temperature: temp, Unit: "F", Fallback: fallback})
		}
		return out, nil
	}
}

func named(name, station string) locations.Location {
	l := pointLoma
	l.Name = name
	l.Station = station
	return l
}

func TestReport(t *testing.T) {
	rep := &Reporter{
		Tides:   fakeTides{"9410170": {at("03:00", -0.5), at("09:15", 4.2)}},
		Weather: constantWeather(64, false),
	}

	res := rep.Report(context.Background(), pointLoma, june1)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Extrema.LowHour() != 3 || res.Extrema.HighHour() != 9 {
		t.Errorf("got hours %d and %d, want 3 and 9", res.Extrema.LowHour(), res.Extrema.HighHour())
	}
	if len(res.Readings) != 2 {
		t.Fatalf("got %d readings, want 2", len(res.Readings))
	}
	if len(res.Sun) != 2 {
		t.Errorf("got %d sun events, want 2", len(res.Sun))
	}
}

func TestReportRequestsBothCandidates(t *testing.T) {
	var got nws.Request
	rep := &Reporter{
		Tides: fakeTides{"9410170": {at("03:00", -0.5), at("09:15", 4.2)}},
		Weather: fakeWeather(func(req nws.Request) ([]nws.Reading, error) {
			got = req
			return constantWeather(60, false)(req)
		}),
	}
	rep.Report(context.Background(), pointLoma, june1)

	if diff := cmp.Diff(pointLoma.Candidates(), got.Candidates); diff != "" {
		t.Errorf("wrong candidates (-want,+got):\n%s", diff)
	}
	wantTimes := []time.Time{at("03:00", 0).T(), at("09:15", 0).T()}
	if diff := cmp.Diff(wantTimes, got.Times); diff != "" {
		t.Errorf("wrong times (-want,+got):\n%s", diff)
	}
}

func TestReportWeatherUnavailable(t *testing.T) {
	rep := &Reporter{
		Tides: fakeTides{"9410170": {at("03:00", -0.5), at("09:15", 4.2)}},
		Weather: fakeWeather(func(nws.Request) ([]nws.Reading, error) {
			return nil, fmt.Errorf("%w: point 32.6731,-117.2425: out of range", nws.ErrUnavailable)
		}),
	}

	res := rep.Report(context.Background(), pointLoma, june1)
	if res.Err != nil {
		t.Fatalf("unavailable weather should not fail the location: %v", res.Err)
	}

	var b bytes.Buffer
	if err := Render(&b, res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "Temperature data not available.\n") {
		t.Errorf("missing unavailable line in:\n%s", b.String())
	}
}

func TestReportPartialWeather(t *testing.T) {
	rep := &Reporter{
		Tides: fakeTides{"9410170": {at("03:00", -0.5), at("09:15", 4.2)}},
		Weather: fakeWeather(func(req nws.Request) ([]nws.Reading, error) {
			return []nws.Reading{
				{Time: req.Times[0], Err: fmt.Errorf("%w: forecast starts at 06:00", nws.ErrUnavailable)},
				{Time: req.Times[1], Temperature: 68, Unit: "F"},
			}, nil
		}),
	}

	res := rep.Report(context.Background(), pointLoma, june1)
	if res.Err != nil {
		t.Fatalf("a missing low tide temperature should not fail the location: %v", res.Err)
	}
	if res.Fallback() {
		t.Errorf("no reading came from the fallback point")
	}

	var b bytes.Buffer
	if err := Render(&b, res); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Temperature at low tide: not available\n",
		"Temperature at high tide: 68°F\n",
	} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("missing %q in:\n%s", want, b.String())
		}
	}
}

func TestReportFailures(t *testing.T) {
	table := []struct {
		name    string
		tides   fakeTides
		weather fakeWeather
	}{{
		name:    "tide fetch fails",
		tides:   fakeTides{},
		weather: constantWeather(60, false),
	}, {
		name:    "no predictions",
		tides:   fakeTides{"9410170": {}},
		weather: constantWeather(60, false),
	}, {
		name:  "weather transport error",
		tides: fakeTides{"9410170": {at("03:00", -0.5)}},
		weather: func(nws.Request) ([]nws.Reading, error) {
			return nil, context.DeadlineExceeded
		},
	}, {
		name:  "short readings",
		tides: fakeTides{"9410170": {at("03:00", -0.5)}},
		weather: func(nws.Request) ([]nws.Reading, error) {
			return []nws.Reading{{Temperature: 60}}, nil
		},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			rep := &Reporter{Tides: tc.tides, Weather: tc.weather}
			res := rep.Report(context.Background(), pointLoma, june1)
			if !res.Failed() {
				t.Errorf("expected failure, got %+v", res)
			}
		})
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	locs := []locations.Location{
		named("First", "1"),
		named("Broken", "2"),
		named("Third", "3"),
		named("Fourth", "4"),
	}
	tides := fakeTides{
		"1": {at("03:00", -0.5), at("09:15", 4.2)},
		"3": {at("04:00", 0.1), at("10:00", 5.0)},
		"4": {at("05:00", 0.2), at("11:00", 5.5)},
	}

	for _, concurrency := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			rep := &Reporter{
				Tides:       tides,
				Weather:     constantWeather(60, false),
				Concurrency: concurrency,
			}
			results := rep.Run(context.Background(), locs, june1)

			var names []string
			var failed []bool
			for _, r := range results {
				names = append(names, r.Location.Name)
				failed = append(failed, r.Failed())
			}
			if diff := cmp.Diff([]string{"First", "Broken", "Third", "Fourth"}, names); diff != "" {
				t.Errorf("results out of order (-want,+got):\n%s", diff)
			}
			if diff := cmp.Diff([]bool{false, true, false, false}, failed); diff != "" {
				t.Errorf("wrong failures (-want,+got):\n%s", diff)
			}

			var b bytes.Buffer
			err := Summarize(&b, results)
			if err == nil || !strings.Contains(err.Error(), "Broken") {
				t.Errorf("got summary error %v, want one naming Broken", err)
			}
			if got := b.String(); got != "4 locations, 1 failed\n" {
				t.Errorf("got summary %q", got)
			}
		})
	}
}

func TestSummarizeClean(t *testing.T) {
	var b bytes.Buffer
	if err := Summarize(&b, []Result{{}, {}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := b.String(); got != "2 locations, 0 failed\n" {
		t.Errorf("got summary %q", got)
	}
}

// TestEndToEnd drives the real NOAA and NWS clients against one fake server.
func TestEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/datagetter", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("station") != "9410170" || q.Get("begin_date") != "20240601" || q.Get("range") != "24" {
			t.Errorf("unexpected tide query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"predictions":[{"t":"2024-06-01 03:00","v":"-0.5"},{"t":"2024-06-01 09:15","v":"4.2"}]}`)
	})
	mux.HandleFunc("/points/32.6731,-117.2425", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"properties":{"forecastHourly":"%s/gridpoints/SGX/53,13/forecast/hourly","timeZone":"UTC"}}`, srv.URL)
	})
	mux.HandleFunc("/gridpoints/SGX/53,13/forecast/hourly", func(w http.ResponseWriter, r *http.Request) {
		var periods []string
		for i := 0; i < 24; i++ {
			temp := 55 + i
			switch i {
			case 3:
				temp = 61
			case 9:
				temp = 68
			}
			start := time.Date(2024, time.June, 1, i, 0, 0, 0, time.UTC)
			periods = append(periods, fmt.Sprintf(`{"number":%d,"startTime":%q,"endTime":%q,"temperature":%d,"temperatureUnit":"F"}`,
				i+1, start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339), temp))
		}
		fmt.Fprintf(w, `{"properties":{"periods":[%s]}}`, strings.Join(periods, ","))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	rep := &Reporter{
		Tides:   noaa.NewClient(srv.Client(), srv.URL+"/datagetter", ""),
		Weather: nws.NewClient(srv.Client(), srv.URL, "", nil),
	}
	loc := pointLoma
	loc.Fallback = nil

	results := rep.Run(context.Background(), []locations.Location{loc}, june1)
	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}

	var b bytes.Buffer
	if err := RenderAll(&b, results); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Fetching tide details for:",
		"Point Loma Tide Pools - 2024-06-01",
		"Lowest tide time: 03:00, Tide number: -0.500",
		"Highest tide time: 09:15, Tide number: 4.200",
		"Temperature at low tide: 61°F",
		"Temperature at high tide: 68°F",
	}, "\n") + "\n"
	if got := b.String(); !strings.HasPrefix(got, want) {
		t.Errorf("wrong report (-want,+got):\n%s", cmp.Diff(want, got))
	}
	if !strings.HasSuffix(b.String(), "Metrics available to be pushed to monitoring service.\n") {
		t.Errorf("missing monitoring line in:\n%s", b.String())
	}
}

func TestEndToEndWeatherDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/datagetter" {
			fmt.Fprint(w, `{"predictions":[{"t":"2024-06-01 03:00","v":"-0.5"},{"t":"2024-06-01 09:15","v":"4.2"}]}`)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	rep := &Reporter{
		Tides:   noaa.NewClient(srv.Client(), srv.URL+"/datagetter", ""),
		Weather: nws.NewClient(srv.Client(), srv.URL, "", nil),
	}
	res := rep.Report(context.Background(), pointLoma, june1)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Readings) != 0 {
		t.Errorf("got readings %v, want none", res.Readings)
	}
}

func TestReportUnknownZone(t *testing.T) {
	loc := pointLoma
	loc.TimeZone = "Pacific/Nowhere"
	rep := &Reporter{
		Tides:   fakeTides{"9410170": {at("03:00", -0.5)}},
		Weather: constantWeather(60, false),
	}
	res := rep.Report(context.Background(), loc, june1)
	if !res.Failed() || errors.Is(res.Err, nws.ErrUnavailable) {
		t.Errorf("got err %v, want a zone error", res.Err)
	}
}
