package calculator

import (
	"math"

	"TurnipSentinel/internal/model"
)

// MinPrice is the floor applied to every reconciled lower bound.
const MinPrice = 1

// propagation holds the per-slot state of one Propagate call.
type propagation struct {
	rules     *model.Assignment
	obs       model.Series
	purchase  float64
	tolerance float64
	bounds    model.Prediction
}

// known treats the purchase slot as observed: it carries the hypothesised
// purchase price for the whole run.
func (p *propagation) known(slot model.Slot) (float64, bool) {
	if slot == model.SlotSun {
		return p.purchase, true
	}
	v, ok := p.obs.Get(slot)
	return float64(v), ok
}

// reference is the observed price at slot as an exact interval, or the
// current bound when the slot is unobserved.
func (p *propagation) reference(slot model.Slot) model.Interval {
	if v, ok := p.known(slot); ok {
		return model.Exact(v)
	}
	return p.bounds[slot]
}

func (p *propagation) interval(min, max float64) model.Interval {
	return model.NewInterval(min, max, p.tolerance)
}

func (p *propagation) purchaseShare(r model.Rule) model.Interval {
	return model.Interval{Min: p.purchase * r.Min / 100, Max: p.purchase * r.Max / 100}
}

// Propagate computes the reconciled ranges of slots 1..12 for one rule
// assignment at one purchase price. It returns false when the assignment
// cannot explain the observations or is malformed. The purchase slot of the
// returned prediction is [purchase,purchase].
func Propagate(rules model.Assignment, obs model.Series, purchase float64, tolerance float64) (model.Prediction, bool) {
	for s := model.FirstSellSlot; s < model.SlotCount; s++ {
		if !rules[s].Valid() {
			return model.Prediction{}, false
		}
	}

	p := &propagation{rules: &rules, obs: obs, purchase: purchase, tolerance: tolerance}
	p.bounds[model.SlotSun] = model.Exact(purchase)

	if !p.forward() {
		return model.Prediction{}, false
	}
	p.backward()

	for s := model.FirstSellSlot; s < model.SlotCount; s++ {
		b := &p.bounds[s]
		b.Min = math.Max(MinPrice, b.Min)
		if b.Empty() {
			return model.Prediction{}, false
		}
		if v, ok := p.known(s); ok && !b.Contains(v) {
			return model.Prediction{}, false
		}
	}
	return p.bounds, true
}

// forward derives each slot from its rule in increasing slot order. An
// observed price outside its own forward bound fails the run immediately.
func (p *propagation) forward() bool {
	for s := model.FirstSellSlot; s < model.SlotCount; s++ {
		r := p.rules[s]
		switch r.Method {
		case model.MethodFixed:
			p.bounds[s] = p.interval(r.Min, r.Max)

		case model.MethodPurchaseRatio:
			share := p.purchaseShare(r)
			p.bounds[s] = p.interval(share.Min, share.Max)

		case model.MethodPrevDiff:
			prev := p.reference(s - 1)
			p.bounds[s] = p.interval(prev.Min+r.Min, prev.Max+r.Max)

		case model.MethodPrevRatio:
			prev := p.reference(s - 1)
			p.bounds[s] = p.interval(prev.Min*r.Min/100, prev.Max*r.Max/100)

		case model.MethodPrevRatioDiffChain:
			b, ok := p.chainForward(s)
			if !ok {
				return false
			}
			p.bounds[s] = b
		}

		if v, ok := p.known(s); ok && !p.bounds[s].Contains(v) {
			return false
		}
	}
	return true
}

// chainForward scans back from slot, summing each chain slot's share of the
// purchase price until it reaches an anchor: an observed slot, a slot with
// its own absolute bound, or a purchase-ratio slot.
func (p *propagation) chainForward(slot model.Slot) (model.Interval, bool) {
	sum := p.interval(0, 0)
	for j := slot; j >= model.SlotSun; j-- {
		if v, ok := p.known(j); ok && j != slot {
			return sum.Add(model.Exact(v)), true
		}
		r := p.rules[j]
		switch {
		case r.Method.Anchors():
			return sum.Add(p.bounds[j]), true
		case r.Method == model.MethodPurchaseRatio:
			return sum.Add(p.purchaseShare(r)), true
		case r.Method == model.MethodPrevRatioDiffChain:
			sum = sum.Add(p.purchaseShare(r))
		}
	}
	// Unreachable while the purchase slot counts as known.
	return model.Interval{}, false
}

// backward walks slots 12..2 and narrows each slot's predecessor with the
// inverse of the slot's rule. Bounds tightened here feed the next step.
func (p *propagation) backward() {
	for s := model.Slot(model.SlotCount - 1); s > model.FirstSellSlot; s-- {
		var (
			back model.Interval
			ok   bool
		)
		r := p.rules[s]
		switch r.Method {
		case model.MethodPrevDiff:
			cur := p.reference(s)
			back, ok = p.interval(cur.Min-r.Max, cur.Max-r.Min), true

		case model.MethodPrevRatio:
			cur := p.reference(s)
			back, ok = p.interval(cur.Min*100/r.Max, cur.Max*100/r.Min), true

		case model.MethodPrevRatioDiffChain:
			back, ok = p.chainBackward(s)
		}
		if ok {
			p.bounds[s-1] = p.bounds[s-1].Intersect(back)
		}
	}
}

// chainBackward walks forward from slot through consecutive chain slots,
// summing their percentages, until it finds a price to subtract the sum
// from: an observed chain slot, or the slot just before a PREV_DIFF or
// PREV_RATIO slot. FIXED and PURCHASE_RATIO slots end the walk without a
// bound, as does reaching the end of the week.
func (p *propagation) chainBackward(slot model.Slot) (model.Interval, bool) {
	var sumMin, sumMax float64
	for j := slot; j < model.SlotCount; j++ {
		r := p.rules[j]
		switch r.Method {
		case model.MethodFixed, model.MethodPurchaseRatio:
			return model.Interval{}, false

		case model.MethodPrevDiff, model.MethodPrevRatio:
			base := p.reference(j - 1)
			return p.interval(base.Min-p.purchase*sumMax/100, base.Max-p.purchase*sumMin/100), true

		case model.MethodPrevRatioDiffChain:
			sumMin += r.Min
			sumMax += r.Max
			if v, ok := p.known(j); ok {
				return p.interval(v-p.purchase*sumMax/100, v-p.purchase*sumMin/100), true
			}

		default:
			return model.Interval{}, false
		}
	}
	return model.Interval{}, false
}
