package model

import (
	"math"
	"strconv"
)

// Epsilon absorbs floating point noise in containment and emptiness checks.
const Epsilon = 1e-9

// Interval is a closed price range.
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewInterval builds [min-tolerance, max+tolerance].
func NewInterval(min, max, tolerance float64) Interval {
	return Interval{Min: min - tolerance, Max: max + tolerance}
}

// Exact is the degenerate interval [v,v].
func Exact(v float64) Interval {
	return Interval{Min: v, Max: v}
}

// Empty reports whether no value fits in the interval.
func (iv Interval) Empty() bool {
	return iv.Min > iv.Max+Epsilon || math.IsNaN(iv.Min) || math.IsNaN(iv.Max)
}

// Contains reports whether v lies within the interval.
func (iv Interval) Contains(v float64) bool {
	return iv.Min-Epsilon <= v && v <= iv.Max+Epsilon
}

// Intersect keeps the overlap of both intervals. The result may be empty.
func (iv Interval) Intersect(o Interval) Interval {
	return Interval{Min: math.Max(iv.Min, o.Min), Max: math.Min(iv.Max, o.Max)}
}

// Union returns the smallest interval covering both.
func (iv Interval) Union(o Interval) Interval {
	return Interval{Min: math.Min(iv.Min, o.Min), Max: math.Max(iv.Max, o.Max)}
}

// Add shifts both ends by the matching ends of o.
func (iv Interval) Add(o Interval) Interval {
	return Interval{Min: iv.Min + o.Min, Max: iv.Max + o.Max}
}

// Width is Max-Min.
func (iv Interval) Width() float64 {
	return iv.Max - iv.Min
}

func (iv Interval) String() string {
	return "(" + strconv.FormatFloat(iv.Min, 'f', -1, 64) + "~" + strconv.FormatFloat(iv.Max, 'f', -1, 64) + ")"
}
