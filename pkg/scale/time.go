package scale

import (
	"math"
	"sort"
	"time"
)

// Time is a linear scale over instants. Calendar rounding in Nice and Ticks
// uses the location of the domain start.
type Time struct {
	t0, t1 time.Time
	r0, r1 float64
}

// NewTime creates a scale mapping [t0,t1] onto [r0,r1].
func NewTime(t0, t1 time.Time, r0, r1 float64) *Time {
	return &Time{t0: t0, t1: t1, r0: r0, r1: r1}
}

// Domain returns the first and last instant of the scale.
func (s *Time) Domain() (time.Time, time.Time) { return s.t0, s.t1 }

// Range returns the output interval.
func (s *Time) Range() (float64, float64) { return s.r0, s.r1 }

// Map applies the scale.
func (s *Time) Map(t time.Time) float64 {
	span := s.t1.Sub(s.t0)
	if span == 0 {
		return interpolate(s.r0, s.r1, 0.5)
	}
	return interpolate(s.r0, s.r1, float64(t.Sub(s.t0))/float64(span))
}

// Invert maps a range value back to an instant.
func (s *Time) Invert(y float64) time.Time {
	if s.r0 == s.r1 {
		return s.t0
	}
	frac := (y - s.r0) / (s.r1 - s.r0)
	return s.t0.Add(time.Duration(math.Round(frac * float64(s.t1.Sub(s.t0)))))
}

// Nice returns a copy whose domain is widened outward to the calendar
// interval that yields about ten ticks.
func (s *Time) Nice() *Time {
	if !s.t1.After(s.t0) {
		return &Time{t0: s.t0, t1: s.t1, r0: s.r0, r1: s.r1}
	}
	iv := chooseInterval(s.t0, s.t1, 10)
	loc := s.t0.Location()
	return &Time{
		t0: iv.floor(s.t0.In(loc)),
		t1: iv.ceil(s.t1.In(loc)),
		r0: s.r0,
		r1: s.r1,
	}
}

// Ticks returns calendar-aligned instants inside the domain.
func (s *Time) Ticks(count int) []time.Time {
	if count <= 0 {
		return nil
	}
	if !s.t1.After(s.t0) {
		return []time.Time{s.t0}
	}
	iv := chooseInterval(s.t0, s.t1, count)
	loc := s.t0.Location()
	end := s.t1.In(loc)

	var out []time.Time
	for t := iv.ceil(s.t0.In(loc)); !t.After(end); t = iv.next(t) {
		out = append(out, t)
	}
	return out
}

// TickFormat returns the layout suited to the granularity of the tick interval.
func (s *Time) TickFormat(count int) string {
	if !s.t1.After(s.t0) {
		return "Jan 2"
	}
	switch chooseInterval(s.t0, s.t1, count).unit {
	case unitSecond:
		return ":05"
	case unitMinute, unitHour:
		return "15:04"
	case unitDay, unitWeek:
		return "Jan 2"
	case unitMonth:
		return "January"
	default:
		return "2006"
	}
}

type unit int

const (
	unitSecond unit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

const (
	durationDay   = 24 * time.Hour
	durationWeek  = 7 * durationDay
	durationMonth = 30 * durationDay
	durationYear  = 365 * durationDay
)

type interval struct {
	unit unit
	step int
	// approx is the nominal length, used only to pick an interval.
	approx time.Duration
}

var intervals = []interval{
	{unitSecond, 1, time.Second},
	{unitSecond, 5, 5 * time.Second},
	{unitSecond, 15, 15 * time.Second},
	{unitSecond, 30, 30 * time.Second},
	{unitMinute, 1, time.Minute},
	{unitMinute, 5, 5 * time.Minute},
	{unitMinute, 15, 15 * time.Minute},
	{unitMinute, 30, 30 * time.Minute},
	{unitHour, 1, time.Hour},
	{unitHour, 3, 3 * time.Hour},
	{unitHour, 6, 6 * time.Hour},
	{unitHour, 12, 12 * time.Hour},
	{unitDay, 1, durationDay},
	{unitDay, 2, 2 * durationDay},
	{unitWeek, 1, durationWeek},
	{unitMonth, 1, durationMonth},
	{unitMonth, 3, 3 * durationMonth},
	{unitYear, 1, durationYear},
}

func chooseInterval(t0, t1 time.Time, count int) interval {
	target := time.Duration(math.Abs(float64(t1.Sub(t0))) / float64(count))
	i := sort.Search(len(intervals), func(i int) bool { return intervals[i].approx > target })
	switch {
	case i == len(intervals):
		years := tickStep(yearsOf(t0), yearsOf(t1), count)
		step := int(math.Max(1, math.Round(years)))
		return interval{unit: unitYear, step: step, approx: time.Duration(step) * durationYear}
	case i == 0:
		return intervals[0]
	}
	lo, hi := intervals[i-1], intervals[i]
	if float64(target)/float64(lo.approx) < float64(hi.approx)/float64(target) {
		return lo
	}
	return hi
}

func yearsOf(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(durationYear)
}

func (iv interval) truncate(t time.Time) time.Time {
	loc := t.Location()
	y, m, d := t.Date()
	switch iv.unit {
	case unitSecond:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
	case unitMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case unitHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case unitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case unitWeek:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case unitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
}

// add moves t by n units.
func (iv interval) add(t time.Time, n int) time.Time {
	switch iv.unit {
	case unitSecond:
		return t.Add(time.Duration(n) * time.Second)
	case unitMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case unitDay:
		return t.AddDate(0, 0, n)
	case unitWeek:
		return t.AddDate(0, 0, 7*n)
	case unitMonth:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(n, 0, 0)
	}
}

func (iv interval) aligned(t time.Time) bool {
	switch iv.unit {
	case unitSecond:
		return t.Second()%iv.step == 0
	case unitMinute:
		return t.Minute()%iv.step == 0
	case unitHour:
		return t.Hour()%iv.step == 0
	case unitDay:
		return (t.Day()-1)%iv.step == 0
	case unitMonth:
		return int(t.Month()-1)%iv.step == 0
	case unitYear:
		return t.Year()%iv.step == 0
	default:
		return true
	}
}

func (iv interval) floor(t time.Time) time.Time {
	c := iv.truncate(t)
	for !iv.aligned(c) {
		c = iv.add(c, -1)
	}
	return c
}

func (iv interval) ceil(t time.Time) time.Time {
	f := iv.floor(t)
	if f.Equal(t) {
		return f
	}
	return iv.next(f)
}

// next returns the first aligned boundary after an aligned t.
func (iv interval) next(t time.Time) time.Time {
	c := iv.add(t, 1)
	for !iv.aligned(c) {
		c = iv.add(c, 1)
	}
	return c
}
