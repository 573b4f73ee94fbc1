package projection

import "math"

// Stats summarizes the non-null values of a series.
type Stats struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

// Summarize returns Stats over the non-null points. ok is false when there
// are none.
func Summarize(series []Point) (s Stats, ok bool) {
	s.Min = math.Inf(1)
	s.Max = math.Inf(-1)
	var sum float64
	for _, p := range series {
		if p.Value == nil {
			continue
		}
		v := *p.Value
		s.Count++
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if s.Count == 0 {
		return Stats{}, false
	}
	s.Mean = sum / float64(s.Count)
	return s, true
}
