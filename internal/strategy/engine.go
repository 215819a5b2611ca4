package strategy

import (
	"TurnipSentinel/internal/calculator"
	"TurnipSentinel/internal/model"
)

// Predict evaluates every pattern hypothesis against the observed series.
// It is a pure function of its arguments.
func Predict(params model.Parameters, obs model.Series) model.Result {
	tolerance := float64(params.Tolerance)
	if tolerance < 0 {
		tolerance = 0
	}

	var result model.Result

	for _, h := range WaveHypotheses(params.Wave) {
		if pred, ok := Evaluate(h.Rules, obs, tolerance); ok {
			result.AddWave(h.Key, pred)
		}
	}

	for _, h := range FallingHypotheses(params.Falling) {
		if pred, ok := Evaluate(h.Rules, obs, tolerance); ok {
			result.Falling = &pred
		}
	}

	result.ThirdPeriod = predictPeriod(params.ThirdPeriod, obs, tolerance)
	result.FourthPeriod = predictPeriod(params.FourthPeriod, obs, tolerance)

	return result
}

func predictPeriod(p model.PeriodParams, obs model.Series, tolerance float64) model.StartDayPredictions {
	var out model.StartDayPredictions
	for _, h := range PeriodHypotheses(p) {
		pred, ok := Evaluate(h.Rules, obs, tolerance)
		if !ok {
			continue
		}
		if p.HasPeak {
			ApplyPeak(&pred, obs, h.StartDay)
		}
		out[h.StartDay] = &pred
	}
	return out
}

// Evaluate propagates one assignment at every purchase price candidate and
// merges the feasible runs slot by slot. Observed slots are re-checked
// against the merged bounds and collapse to their observed value.
func Evaluate(rules model.Assignment, obs model.Series, tolerance float64) (model.Prediction, bool) {
	candidates := obs.PurchaseCandidates()

	var (
		merged   model.Prediction
		feasible bool
	)
	for _, purchase := range candidates {
		pred, ok := calculator.Propagate(rules, obs, purchase, tolerance)
		if !ok {
			continue
		}
		if !feasible {
			merged = pred
			feasible = true
			continue
		}
		for s := model.FirstSellSlot; s < model.SlotCount; s++ {
			merged[s] = merged[s].Union(pred[s])
		}
	}
	if !feasible {
		return model.Prediction{}, false
	}

	merged[model.SlotSun] = model.Interval{Min: candidates[0], Max: candidates[len(candidates)-1]}
	if p, ok := obs.Get(model.SlotSun); ok {
		merged[model.SlotSun] = model.Exact(float64(p))
	}

	for s := model.FirstSellSlot; s < model.SlotCount; s++ {
		v, ok := obs.Get(s)
		if !ok {
			continue
		}
		if !merged[s].Contains(float64(v)) {
			return model.Prediction{}, false
		}
		merged[s] = model.Exact(float64(v))
	}
	return merged, true
}
