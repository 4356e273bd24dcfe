package noaa

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const predTimeFormat = "2006-01-02 15:04"

// Prediction holds a single tide event prediction.
type Prediction struct {
	// Local time of tide prediction
	Time Time `json:"t"`
	// Height in feet
	Height Height `json:"v"`
	// High or Low tide, "H" or "L" when encoded. Optional.
	Type Tide `json:"type"`
}

// Verify the custom types can be unmarshaled
var _ json.Unmarshaler = &Time{}
var _ json.Unmarshaler = new(Height)
var _ json.Unmarshaler = new(Tide)
var _ json.Unmarshaler = new(Prediction)

// Predictions is a time series of Prediction.
type Predictions []Prediction

// NOAAResult is the data type returned by the NOAA API. Predictions is a
// pointer so a missing key can be told apart from an empty list.
type NOAAResult struct {
	Predictions *Predictions `json:"predictions"`
	Error       *NOAAError   `json:"error"`
}

// NOAAError is the body NOAA returns in place of data for a bad query, such
// as an unknown station.
type NOAAError struct {
	Message string `json:"message"`
}

func (e *NOAAError) Error() string {
	return fmt.Sprintf("noaa: %s", e.Message)
}

// PredictionQuery is used to query tide data at a station in a given time
// window; see Client.GetPredictions.
type PredictionQuery struct {
	Start    time.Time
	Duration time.Duration
	Station  string
}

type Time time.Time

func (t *Time) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("prediction time %q not string: %w", buf, err)
	}
	parsed, err := time.ParseInLocation(predTimeFormat, s, time.Local)
	if err != nil {
		return fmt.Errorf("prediction time %q not in fmt %q: %w", s, predTimeFormat, err)
	}
	*t = Time(parsed)
	return nil
}

type Height float64

func (h *Height) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("water height %q not string: %w", buf, err)
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("water height %q not a float: %w", s, err)
	}
	*h = Height(parsed)
	return nil
}

type Tide uint

const (
	UnknownTide Tide = iota
	HighTide
	LowTide
)

func (t Tide) Valid() bool {
	return t == HighTide || t == LowTide
}

func (t *Tide) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide %q not a string: %w", buf, err)
	}
	switch s {
	case "H":
		*t = HighTide
	case "L":
		*t = LowTide
	default:
		return fmt.Errorf("invalid tide type %q", s)
	}
	return nil
}

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "H"
	case LowTide:
		return "L"
	default:
		return "?"
	}
}

// UnmarshalJSON decodes a prediction and rejects one without a time or height.
func (p *Prediction) UnmarshalJSON(buf []byte) error {
	// The alias drops this method so the fields decode normally.
	type plain Prediction
	var raw struct {
		plain
		T json.RawMessage `json:"t"`
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(buf, &raw); err != nil {
		return err
	}
	if raw.T == nil {
		return fmt.Errorf("prediction %s missing time", buf)
	}
	if raw.V == nil {
		return fmt.Errorf("prediction %s missing height", buf)
	}
	if err := raw.plain.Time.UnmarshalJSON(raw.T); err != nil {
		return err
	}
	if err := raw.plain.Height.UnmarshalJSON(raw.V); err != nil {
		return err
	}
	*p = Prediction(raw.plain)
	return nil
}

// T returns the prediction time as a time.Time.
func (p Prediction) T() time.Time {
	return time.Time(p.Time)
}

// Clock returns the prediction's wall clock as HH:MM.
func (p Prediction) Clock() string {
	return p.T().Format("15:04")
}

func (p Prediction) String() string {
	return fmt.Sprintf("{t: %s, v: %f, type: %s}",
		p.T().Format(time.RFC822),
		p.Height,
		p.Type.String())
}
