package meta

import (
	"errors"
	"sort"

	"github.com/spencer-p/tidetemp/pkg/noaa"
)

var ErrNoPredictions = errors.New("no tide predictions to select from")

// Extrema is the lowest and highest tide event in a set of predictions.
type Extrema struct {
	Lowest  noaa.Prediction
	Highest noaa.Prediction
}

// SelectExtrema finds the lowest and highest tide in preds. Ties go to the
// event that came first in preds, at both ends. preds is not modified.
func SelectExtrema(preds noaa.Predictions) (Extrema, error) {
	if len(preds) == 0 {
		return Extrema{}, ErrNoPredictions
	}

	sorted := make(noaa.Predictions, len(preds))
	copy(sorted, preds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height < sorted[j].Height
	})

	// The stable sort leaves tied maximums in input order; walk back to the
	// first of them.
	hi := len(sorted) - 1
	for hi > 0 && sorted[hi-1].Height == sorted[hi].Height {
		hi--
	}

	return Extrema{
		Lowest:  sorted[0],
		Highest: sorted[hi],
	}, nil
}

// LowHour is the hour of day, 0 to 23, of the lowest tide.
func (e Extrema) LowHour() int {
	return e.Lowest.T().Hour()
}

// HighHour is the hour of day, 0 to 23, of the highest tide.
func (e Extrema) HighHour() int {
	return e.Highest.T().Hour()
}
