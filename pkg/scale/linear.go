// Package scale maps data values onto plot coordinates and the 0-100
// progress range used by the time slider.
package scale

import "math"

// Linear is a continuous linear scale. A degenerate domain maps every input
// to the middle of the range; a degenerate range inverts to the domain start.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
	clamp  bool
}

// NewLinear creates a scale mapping [d0,d1] onto [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Clamp restricts Map and Invert outputs to the range and domain.
func (s *Linear) Clamp(on bool) *Linear {
	s.clamp = on
	return s
}

// Domain returns the input interval.
func (s *Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output interval.
func (s *Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map applies the scale.
func (s *Linear) Map(x float64) float64 {
	return interpolate(s.r0, s.r1, s.normalize(x))
}

// Invert maps a range value back into the domain.
func (s *Linear) Invert(y float64) float64 {
	if s.r0 == s.r1 {
		return s.d0
	}
	t := (y - s.r0) / (s.r1 - s.r0)
	if s.clamp {
		t = clamp01(t)
	}
	return interpolate(s.d0, s.d1, t)
}

// Ticks returns roughly count evenly spaced round values inside the domain.
func (s *Linear) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, count)
}

func (s *Linear) normalize(x float64) float64 {
	if s.d0 == s.d1 {
		return 0.5
	}
	t := (x - s.d0) / (s.d1 - s.d0)
	if s.clamp {
		t = clamp01(t)
	}
	return t
}

func interpolate(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickStep returns a 1, 2 or 5 times power-of-ten step giving about count
// intervals between start and stop.
func tickStep(start, stop float64, count int) float64 {
	if count <= 0 || start == stop {
		return 0
	}
	step0 := math.Abs(stop-start) / float64(count)
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	ratio := step0 / step1
	switch {
	case ratio >= e10:
		step1 *= 10
	case ratio >= e5:
		step1 *= 5
	case ratio >= e2:
		step1 *= 2
	}
	return step1
}

func ticks(start, stop float64, count int) []float64 {
	if start == stop {
		if count > 0 {
			return []float64{start}
		}
		return nil
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	step := tickStep(start, stop, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}

	// Fractional steps are rounded to their own precision to trim binary
	// noise such as 0.30000000000000004.
	precision := 1.0
	if step < 1 {
		precision = math.Pow(10, math.Ceil(-math.Log10(step)))
	}

	first := math.Ceil(start / step)
	last := math.Floor(stop / step)
	out := make([]float64, 0, int(last-first)+1)
	for k := first; k <= last; k++ {
		out = append(out, math.Round(k*step*precision)/precision)
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
