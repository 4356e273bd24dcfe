package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spencer-p/tidetemp/pkg/timetricks"
)

const clockFmt = "3:04 PM"

// Render writes the human readable block for one result. A failed result is a
// single error line.
func Render(w io.Writer, r Result) error {
	var b strings.Builder

	if r.Failed() {
		fmt.Fprintf(&b, "%s: error: %v\n", r.Location.Name, r.Err)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Fetching tide details for:\n%s - %s\n", r.Location.Name, timetricks.ISODay(r.Date))
	fmt.Fprintf(&b, "Lowest tide time: %s, Tide number: %.3f\n", r.Extrema.Lowest.Clock(), r.Extrema.Lowest.Height)
	fmt.Fprintf(&b, "Highest tide time: %s, Tide number: %.3f\n", r.Extrema.Highest.Clock(), r.Extrema.Highest.Height)

	if len(r.Readings) == 2 {
		if r.Fallback() {
			fmt.Fprintf(&b, "Primary location failed, used nearby location.\n")
		}
		fmt.Fprintf(&b, "Temperature at low tide: %s\n", r.Readings[0])
		fmt.Fprintf(&b, "Temperature at high tide: %s\n", r.Readings[1])
	} else {
		fmt.Fprintf(&b, "Temperature data not available.\n")
	}

	if rise, set, ok := r.Sun.Window(); ok {
		when := "before sunrise or after sunset"
		if r.LowInDaylight {
			when = "during daylight"
		}
		fmt.Fprintf(&b, "Low tide is %s (sunrise %s, sunset %s).\n",
			when, rise.Format(clockFmt), set.Format(clockFmt))
	}

	fmt.Fprintf(&b, "Metrics available to be pushed to monitoring service.\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAll renders every result with a blank line between blocks.
func RenderAll(w io.Writer, results []Result) error {
	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Render(w, r); err != nil {
			return err
		}
	}
	return nil
}

// Summarize writes a one line tally and returns an error naming the failed
// locations, if any.
func Summarize(w io.Writer, results []Result) error {
	var failed []string
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r.Location.Name)
		}
	}

	if _, err := fmt.Fprintf(w, "%d locations, %d failed\n", len(results), len(failed)); err != nil {
		return err
	}
	if len(failed) > 0 {
		return errors.New("failed locations: " + strings.Join(failed, ", "))
	}
	return nil
}
