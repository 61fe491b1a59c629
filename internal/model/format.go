package model

import "strconv"

// formatFloat renders a confidence/similarity score the way SSSOM TSV
// columns do: the shortest decimal representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
