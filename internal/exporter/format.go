package exporter

import (
	"strconv"
)

// formatFloat formats a value with 4 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// formatOptional renders a missing value as an empty cell
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
