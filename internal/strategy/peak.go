package strategy

import (
	"math"

	"TurnipSentinel/internal/model"
)

// Offsets from the rising start day of the fourth-period peak and its neighbours.
const (
	peakOffset       = 3
	beforePeakOffset = 2
	afterPeakOffset  = 4
)

// ApplyPeak tightens a feasible fourth-period prediction so the peak slot
// dominates its neighbours. An observed peak caps unobserved neighbours; an
// unobserved peak is raised to the highest observed neighbour. It only
// narrows bounds and never empties one.
func ApplyPeak(pred *model.Prediction, obs model.Series, start model.Slot) {
	peak := start + peakOffset
	before := start + beforePeakOffset
	after := start + afterPeakOffset
	if !peak.IsSell() {
		return
	}

	if v, ok := obs.Get(peak); ok {
		for _, s := range []model.Slot{before, after} {
			if !s.IsSell() || obs.Known(s) {
				continue
			}
			b := &pred[s]
			// A neighbour whose min already exceeds the peak keeps max == min
			// rather than emptying.
			b.Max = math.Max(b.Min, math.Min(b.Max, float64(v)))
		}
		return
	}

	floor := math.Inf(-1)
	for _, s := range []model.Slot{before, after} {
		if v, ok := obs.Get(s); ok {
			floor = math.Max(floor, float64(v))
		}
	}
	if math.IsInf(floor, -1) {
		return
	}
	b := &pred[peak]
	b.Min = math.Min(b.Max, math.Max(b.Min, floor))
}
