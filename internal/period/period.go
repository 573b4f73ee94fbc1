// Package period implements arithmetic on YYYYMM month identifiers used by
// monthly indicator series.
package period

import (
	"fmt"
	"strconv"
	"time"
)

// Period is a month identifier in YYYYMM form, e.g. "202412".
type Period string

// Parse validates s and returns it as a Period.
func Parse(s string) (Period, error) {
	if len(s) != 6 || !allDigits(s) {
		return "", fmt.Errorf("invalid period %q: expected YYYYMM", s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return "", fmt.Errorf("invalid period %q: bad year", s)
	}
	month, err := strconv.Atoi(s[4:])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("invalid period %q: bad month", s)
	}
	if year < 1 {
		return "", fmt.Errorf("invalid period %q: bad year", s)
	}
	return Period(s), nil
}

// allDigits reports whether s is made of ASCII digits only.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Of returns the period for the given year and month.
func Of(year, month int) Period {
	return Period(fmt.Sprintf("%04d%02d", year, month))
}

// Current returns the period containing t.
func Current(t time.Time) Period {
	return Of(t.Year(), int(t.Month()))
}

// FirstOfYear returns January of the given year.
func FirstOfYear(year int) Period {
	return Of(year, 1)
}

// Split returns the year and month parts of p.
func (p Period) Split() (year, month int, err error) {
	if _, err = Parse(string(p)); err != nil {
		return 0, 0, err
	}
	year, _ = strconv.Atoi(string(p[:4]))
	month, _ = strconv.Atoi(string(p[4:]))
	return year, month, nil
}

// Next returns the month after p, rolling over to January of the next year.
func Next(p Period) (Period, error) {
	year, month, err := p.Split()
	if err != nil {
		return "", err
	}
	month++
	if month > 12 {
		month = 1
		year++
	}
	return Of(year, month), nil
}

// Sequence returns the n periods that follow after, in order.
func Sequence(after Period, n int) ([]Period, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative period count: %d", n)
	}
	out := make([]Period, 0, n)
	cur := after
	for i := 0; i < n; i++ {
		next, err := Next(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		cur = next
	}
	return out, nil
}

// Before reports whether p is strictly earlier than other. Both must be valid
// periods; fixed-width YYYYMM strings order lexically.
func (p Period) Before(other Period) bool {
	return p < other
}

func (p Period) String() string {
	return string(p)
}
