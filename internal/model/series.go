package model

import (
	"encoding/json"
	"fmt"
)

const (
	// PurchaseMin and PurchaseMax bound the purchase price when it is not observed.
	PurchaseMin = 90
	PurchaseMax = 110

	// MinPrice and MaxPrice bound what the input layer accepts as an observation.
	MinPrice = 0
	MaxPrice = 2000
)

// Series is the sparse set of observed prices for one week.
type Series struct {
	values [SlotCount]int
	known  [SlotCount]bool
}

// NewSeries builds a series from positional values; nil entries are unknown.
func NewSeries(prices ...*int) Series {
	var s Series
	for i, p := range prices {
		if i >= SlotCount {
			break
		}
		if p != nil {
			s.Set(Slot(i), *p)
		}
	}
	return s
}

// Get returns the observed price at slot and whether one exists.
func (s Series) Get(slot Slot) (int, bool) {
	if !slot.Valid() || !s.known[slot] {
		return 0, false
	}
	return s.values[slot], true
}

// Known reports whether slot has an observation.
func (s Series) Known(slot Slot) bool {
	return slot.Valid() && s.known[slot]
}

// Set records an observation. Out-of-range slots are ignored.
func (s *Series) Set(slot Slot, price int) {
	if !slot.Valid() {
		return
	}
	s.values[slot] = price
	s.known[slot] = true
}

// Clear forgets the observation at slot.
func (s *Series) Clear(slot Slot) {
	if !slot.Valid() {
		return
	}
	s.values[slot] = 0
	s.known[slot] = false
}

// Count is the number of observed slots.
func (s Series) Count() int {
	n := 0
	for _, k := range s.known {
		if k {
			n++
		}
	}
	return n
}

// PurchaseCandidates lists the purchase prices a prediction must consider: the
// observed purchase price when it lies in the default range, otherwise both
// ends of that range.
func (s Series) PurchaseCandidates() []float64 {
	if p, ok := s.Get(SlotSun); ok && p >= PurchaseMin && p <= PurchaseMax {
		return []float64{float64(p)}
	}
	return []float64{PurchaseMin, PurchaseMax}
}

// Values returns the series as 13 optional prices.
func (s Series) Values() []*int {
	out := make([]*int, SlotCount)
	for i := range out {
		if s.known[i] {
			v := s.values[i]
			out[i] = &v
		}
	}
	return out
}

func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *Series) UnmarshalJSON(b []byte) error {
	var raw []*int
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) > SlotCount {
		return fmt.Errorf("series has %d entries, want at most %d", len(raw), SlotCount)
	}
	*s = NewSeries(raw...)
	return nil
}
