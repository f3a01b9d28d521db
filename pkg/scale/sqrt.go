package scale

import "math"

// Sqrt is a power scale with exponent 0.5, used for point radii so that
// area grows linearly with the value.
type Sqrt struct {
	inner *Linear
}

// NewSqrt creates a square-root scale mapping [d0,d1] onto [r0,r1].
func NewSqrt(d0, d1, r0, r1 float64) *Sqrt {
	return &Sqrt{inner: NewLinear(signedSqrt(d0), signedSqrt(d1), r0, r1)}
}

// Map applies the scale.
func (s *Sqrt) Map(x float64) float64 {
	return s.inner.Map(signedSqrt(x))
}

// Invert maps a range value back into the domain.
func (s *Sqrt) Invert(y float64) float64 {
	v := s.inner.Invert(y)
	if v < 0 {
		return -v * v
	}
	return v * v
}

// Clamp restricts outputs to the range.
func (s *Sqrt) Clamp(on bool) *Sqrt {
	s.inner.Clamp(on)
	return s
}

func signedSqrt(x float64) float64 {
	if x < 0 {
		return -math.Sqrt(-x)
	}
	return math.Sqrt(x)
}
