package strategy

import "TurnipSentinel/internal/model"

// Hypothesis is one complete rule assignment that might explain a week.
type Hypothesis struct {
	// Key identifies wave hypotheses by their slot signature.
	Key string
	// StartDay is the rising start day of period hypotheses.
	StartDay model.Slot
	Rules    model.Assignment
}

// FallingHypotheses returns the single steady-decline assignment.
func FallingHypotheses(p model.FallingParams) []Hypothesis {
	var rules model.Assignment
	rules[model.SlotMon1] = p.Mon1
	for s := model.SlotMon2; s < model.SlotCount; s++ {
		rules[s] = p.OtherDays
	}
	return []Hypothesis{{Rules: rules}}
}

// PeriodHypotheses builds one assignment per configured rising start day.
// Start days outside MON1..SAT2 and malformed rising sequences are skipped.
func PeriodHypotheses(p model.PeriodParams) []Hypothesis {
	if len(p.Rising) != model.RisingSequenceLength {
		return nil
	}
	hyps := make([]Hypothesis, 0, len(p.RisingStartDays))
	for _, start := range p.RisingStartDays {
		if !start.IsSell() {
			continue
		}
		hyps = append(hyps, Hypothesis{StartDay: start, Rules: periodRules(p, start)})
	}
	return hyps
}

func periodRules(p model.PeriodParams, start model.Slot) model.Assignment {
	var rules model.Assignment
	rules[model.SlotMon1] = p.Mon1
	for s := model.SlotMon2; s < start; s++ {
		rules[s] = p.BeforeRising
	}
	for s := start; s < model.SlotCount; s++ {
		offset := int(s - start)
		if offset < len(p.Rising) {
			rules[s] = p.Rising[offset]
		} else {
			rules[s] = p.AfterRising
		}
	}
	return rules
}

// waveMargin is the number of slots that must separate the two falling runs.
const waveMargin = 1

// WavesOverlap reports whether a two-slot run starting at two and a
// three-slot run starting at three are too close to coexist.
func WavesOverlap(two, three model.Slot) bool {
	if two <= three {
		return two+model.TwoTimesFallingLength+waveMargin > three
	}
	return three+model.ThreeTimesFallingLength+waveMargin > two
}

// WaveType classifies slot given the start days of both falling runs.
func WaveType(slot, two, three model.Slot) model.WaveTransitionType {
	switch {
	case slot >= two && slot < two+model.TwoTimesFallingLength:
		return model.WaveTwoTimesFalling
	case slot >= three && slot < three+model.ThreeTimesFallingLength:
		return model.WaveThreeTimesFalling
	default:
		return model.WaveRising
	}
}

// WaveRule picks the configured rule for slot.
func WaveRule(slot, two, three model.Slot, p model.WaveParams) model.Rule {
	switch WaveType(slot, two, three) {
	case model.WaveTwoTimesFalling:
		return p.TwoTimesFalling[slot-two]
	case model.WaveThreeTimesFalling:
		return p.ThreeTimesFalling[slot-three]
	default:
		return p.Rising
	}
}

// WaveHypotheses enumerates every accepted pair of falling-run start days.
// Pairs whose runs overlap or touch are rejected. Each hypothesis is keyed by
// the concatenated per-slot classification of MON1..SAT2.
func WaveHypotheses(p model.WaveParams) []Hypothesis {
	if len(p.TwoTimesFalling) != model.TwoTimesFallingLength || len(p.ThreeTimesFalling) != model.ThreeTimesFallingLength {
		return nil
	}
	var hyps []Hypothesis
	for _, two := range p.TwoTimesFallingStartDays {
		if !two.IsSell() {
			continue
		}
		for _, three := range p.ThreeTimesFallingStartDays {
			if !three.IsSell() || WavesOverlap(two, three) {
				continue
			}
			var (
				rules model.Assignment
				key   = make([]byte, 0, model.SlotCount-1)
			)
			for s := model.FirstSellSlot; s < model.SlotCount; s++ {
				rules[s] = WaveRule(s, two, three, p)
				key = append(key, byte(WaveType(s, two, three)))
			}
			hyps = append(hyps, Hypothesis{Key: string(key), Rules: rules})
		}
	}
	return hyps
}
