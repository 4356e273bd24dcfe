// Package noaa implements queries to NOAA CO-OPS to retrieve tide predictions.
// Predictions are requested per station for a window starting on a calendar
// day (see PredictionQuery). A successful query returns the high and low tide
// events in that window with their local time and height in feet above MLLW.
package noaa
