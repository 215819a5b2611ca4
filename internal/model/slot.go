package model

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Slot is a position in the weekly window: the purchase slot followed by
// twelve half-day sell slots.
type Slot int

const (
	SlotSun Slot = iota
	SlotMon1
	SlotMon2
	SlotTue1
	SlotTue2
	SlotWed1
	SlotWed2
	SlotThu1
	SlotThu2
	SlotFri1
	SlotFri2
	SlotSat1
	SlotSat2
)

// SlotCount is the number of slots in a week.
const SlotCount = 13

// FirstSellSlot is the first slot a price can be sold at.
const FirstSellSlot = SlotMon1

var slotNames = [SlotCount]string{
	"SUN",
	"MON1", "MON2",
	"TUE1", "TUE2",
	"WED1", "WED2",
	"THU1", "THU2",
	"FRI1", "FRI2",
	"SAT1", "SAT2",
}

// Valid reports whether s is within 0..12.
func (s Slot) Valid() bool {
	return s >= SlotSun && s < SlotCount
}

// IsSell reports whether s is one of the twelve sell slots.
func (s Slot) IsSell() bool {
	return s >= FirstSellSlot && s < SlotCount
}

func (s Slot) String() string {
	if !s.Valid() {
		return "Slot(" + strconv.Itoa(int(s)) + ")"
	}
	return slotNames[s]
}

// ParseSlot accepts a slot name (case-insensitive) or its index.
func ParseSlot(v string) (Slot, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		s := Slot(n)
		if !s.Valid() {
			return 0, fmt.Errorf("slot %d out of range", n)
		}
		return s, nil
	}
	upper := strings.ToUpper(v)
	for i, name := range slotNames {
		if name == upper {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", v)
}

func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("slot %d out of range", int(s))
	}
	return []byte(slotNames[s]), nil
}

func (s *Slot) UnmarshalText(b []byte) error {
	parsed, err := ParseSlot(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML accepts both names and integer indices.
func (s *Slot) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: slot must be a scalar", node.Line)
	}
	parsed, err := ParseSlot(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = parsed
	return nil
}

func (s Slot) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// SellSlots returns MON1..SAT2 in order.
func SellSlots() []Slot {
	slots := make([]Slot, 0, SlotCount-1)
	for s := FirstSellSlot; s < SlotCount; s++ {
		slots = append(slots, s)
	}
	return slots
}
