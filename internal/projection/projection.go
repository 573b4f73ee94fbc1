// Package projection extrapolates a monthly series with a straight line
// fitted over its most recent observations.
package projection

import (
	"fmt"

	"indicators/internal/period"
)

// MinWindow is the smallest window with a defined slope.
const MinWindow = 2

// Point is one monthly observation. A nil Value is a missing observation.
type Point struct {
	Period period.Period
	Value  *float64
}

// Request selects the fitting window and how many months to project.
type Request struct {
	Window  int
	Horizon int
}

// Forecast is one projected month.
type Forecast struct {
	Period period.Period
	Value  float64
}

// Result holds the fitted line and the projected months in order.
type Result struct {
	Slope     float64
	Intercept float64
	Points    []Forecast
}

// Project fits value = a*index + b by ordinary least squares over the last
// Window non-null observations of series, indexed 0..Window-1, and returns
// a*(Window-1+i) + b for i = 1..Horizon labelled with the months following
// the last observation. series must be in chronological order.
func Project(series []Point, req Request) (Result, error) {
	if req.Window < MinWindow {
		return Result{}, &InvalidWindowError{Window: req.Window}
	}
	if req.Horizon < 0 {
		return Result{}, fmt.Errorf("negative horizon: %d", req.Horizon)
	}

	observed := make([]Point, 0, len(series))
	for _, p := range series {
		if p.Value != nil {
			observed = append(observed, p)
		}
	}
	if len(observed) < req.Window {
		return Result{}, &InsufficientDataError{Have: len(observed), Need: req.Window}
	}

	tail := observed[len(observed)-req.Window:]
	values := make([]float64, len(tail))
	for i, p := range tail {
		values[i] = *p.Value
	}
	a, b := fitLine(values)

	res := Result{Slope: a, Intercept: b, Points: []Forecast{}}
	if req.Horizon == 0 {
		return res, nil
	}

	labels, err := period.Sequence(tail[len(tail)-1].Period, req.Horizon)
	if err != nil {
		return Result{}, fmt.Errorf("label projected periods: %w", err)
	}
	projected := extrapolate(a, b, req.Window, req.Horizon)
	if len(labels) != len(projected) {
		return Result{}, fmt.Errorf("projection misaligned: %d labels for %d values", len(labels), len(projected))
	}

	res.Points = make([]Forecast, len(projected))
	for i := range projected {
		res.Points[i] = Forecast{Period: labels[i], Value: projected[i]}
	}
	return res, nil
}

// fitLine returns slope and intercept of the least squares line through
// (i, values[i]).
func fitLine(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	// len(values) >= 2 keeps the denominator positive.
	slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func extrapolate(slope, intercept float64, window, horizon int) []float64 {
	out := make([]float64, horizon)
	for i := 1; i <= horizon; i++ {
		out[i-1] = slope*float64(window-1+i) + intercept
	}
	return out
}
