package model

import "encoding/json"

// Prediction is a feasible 13-slot range vector for one hypothesis.
type Prediction [SlotCount]Interval

// StartDayPredictions is indexed by rising start day. Entries are nil for
// start days that were not configured or could not explain the observations.
type StartDayPredictions [SlotCount]*Prediction

// Len counts the feasible start days.
func (p StartDayPredictions) Len() int {
	n := 0
	for _, pred := range p {
		if pred != nil {
			n++
		}
	}
	return n
}

// StartDays lists the feasible start days in slot order.
func (p StartDayPredictions) StartDays() []Slot {
	var days []Slot
	for i, pred := range p {
		if pred != nil {
			days = append(days, Slot(i))
		}
	}
	return days
}

// MarshalJSON emits an object keyed by start-day name.
func (p StartDayPredictions) MarshalJSON() ([]byte, error) {
	out := make(map[string]*Prediction, p.Len())
	for i, pred := range p {
		if pred != nil {
			out[Slot(i).String()] = pred
		}
	}
	return json.Marshal(out)
}

// Result is the outcome of predicting every pattern for one week.
type Result struct {
	Falling      *Prediction           `json:"falling"`
	Wave         map[string]Prediction `json:"wave"`
	ThirdPeriod  StartDayPredictions   `json:"third_period"`
	FourthPeriod StartDayPredictions   `json:"fourth_period"`

	waveOrder []string
}

// AddWave stores a wave prediction, keeping first-seen key order.
func (r *Result) AddWave(key string, pred Prediction) {
	if r.Wave == nil {
		r.Wave = make(map[string]Prediction)
	}
	if _, ok := r.Wave[key]; !ok {
		r.waveOrder = append(r.waveOrder, key)
	}
	r.Wave[key] = pred
}

// WaveKeys returns wave signatures in the order they were enumerated.
func (r *Result) WaveKeys() []string {
	keys := make([]string, len(r.waveOrder))
	copy(keys, r.waveOrder)
	return keys
}

// Empty reports whether no pattern explains the observations.
func (r *Result) Empty() bool {
	return r.Falling == nil && len(r.Wave) == 0 && r.ThirdPeriod.Len() == 0 && r.FourthPeriod.Len() == 0
}

// Feasible counts every feasible hypothesis across patterns.
func (r *Result) Feasible() int {
	n := len(r.Wave) + r.ThirdPeriod.Len() + r.FourthPeriod.Len()
	if r.Falling != nil {
		n++
	}
	return n
}
