package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"indicators/internal/period"
)

// Canonical timestamp layout for date-keyed series.
const DateLayout = "2006-01-02"

// Excel serial day numbers outside this range are not treated as dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

var missingMarkers = map[string]struct{}{
	"":    {},
	"NA":  {},
	"N/A": {},
	"-":   {},
	"...": {},
	"///": {},
	"s/d": {},
}

// ParseDecimal coerces a locale-formatted number. Whichever of ',' or '.'
// appears last is taken as the decimal separator and the other as a
// thousands separator, so both "1,23" and "1.234,5" parse.
func ParseDecimal(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if _, missing := missingMarkers[s]; missing {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDate parses raw with each layout in turn and falls back to an Excel
// serial day number. The result is formatted with DateLayout.
func ParseDate(raw string, layouts []string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < minExcelSerial || serial > maxExcelSerial {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}

// ParsePeriod parses a YYYYMM month identifier.
func ParsePeriod(raw string) (string, bool) {
	p, err := period.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return p.String(), true
}

// ParseYear parses a four digit year.
func ParseYear(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if len(s) != 4 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 {
		return 0, false
	}
	return year, true
}
