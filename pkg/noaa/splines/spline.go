// Package splines joins high and low tide events into a continuous height
// curve.
package splines

import (
	"errors"
	"sort"
	"time"

	"github.com/spencer-p/tidetemp/pkg/noaa"
)

var ErrTooFew = errors.New("need at least two predictions")

// Curve eases from one tide event to the next. Its slope is zero at Start and
// End, which is where the tide turns.
type Curve struct {
	Start, End time.Time
	From, To   float64
}

// Spline is a run of curves, each starting where the last one ended.
type Spline []Curve

// Sample is the interpolated height at a time.
type Sample struct {
	Time   time.Time
	Height float64
}

// Between links consecutive predictions. Predictions must be in time order.
func Between(preds noaa.Predictions) (Spline, error) {
	if len(preds) < 2 {
		return nil, ErrTooFew
	}
	s := make(Spline, len(preds)-1)
	for i := range s {
		a, b := preds[i], preds[i+1]
		if !b.T().After(a.T()) {
			return nil, errors.New("predictions out of order at " + b.String())
		}
		s[i] = Curve{
			Start: a.T(),
			End:   b.T(),
			From:  float64(a.Height),
			To:    float64(b.Height),
		}
	}
	return s, nil
}

// At is the height at t, on the cubic 3u²-2u³ where u is the fraction of the
// way from Start to End.
func (c Curve) At(t time.Time) (float64, bool) {
	if t.Before(c.Start) || t.After(c.End) {
		return 0, false
	}
	u := float64(t.Sub(c.Start)) / float64(c.End.Sub(c.Start))
	return c.From + (c.To-c.From)*u*u*(3-2*u), true
}

// At is the height at t. It is false outside the first and last prediction.
func (s Spline) At(t time.Time) (float64, bool) {
	i := sort.Search(len(s), func(i int) bool { return !s[i].End.Before(t) })
	if i == len(s) {
		return 0, false
	}
	return s[i].At(t)
}

// Every samples the spline each step, starting at the first whole step at or
// after the first prediction.
func (s Spline) Every(step time.Duration) []Sample {
	if len(s) == 0 || step <= 0 {
		return nil
	}
	start, end := s[0].Start, s[len(s)-1].End

	var samples []Sample
	for t := start.Truncate(step); !t.After(end); t = t.Add(step) {
		if h, ok := s.At(t); ok {
			samples = append(samples, Sample{Time: t, Height: h})
		}
	}
	return samples
}
