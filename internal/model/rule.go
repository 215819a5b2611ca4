package model

import "fmt"

// Method says how a slot's price derives from a reference value.
type Method string

const (
	// MethodFixed is an absolute price range.
	MethodFixed Method = "FIXED"
	// MethodPrevDiff adds an offset to the previous slot's price.
	MethodPrevDiff Method = "PREV_DIFF"
	// MethodPrevRatio scales the previous slot's price by a percentage.
	MethodPrevRatio Method = "PREV_RATIO"
	// MethodPrevRatioDiffChain adds a percentage of the purchase price to the
	// nearest anchored slot, accumulated over consecutive chain slots.
	MethodPrevRatioDiffChain Method = "PREV_RATIO_DIFF_CHAIN"
	// MethodPurchaseRatio scales the purchase price by a percentage.
	MethodPurchaseRatio Method = "PURCHASE_RATIO"
)

// Known reports whether m is one of the five supported methods.
func (m Method) Known() bool {
	switch m {
	case MethodFixed, MethodPrevDiff, MethodPrevRatio, MethodPrevRatioDiffChain, MethodPurchaseRatio:
		return true
	}
	return false
}

// Anchors reports whether a slot governed by m ends a chain scan.
func (m Method) Anchors() bool {
	return m == MethodFixed || m == MethodPrevDiff || m == MethodPrevRatio
}

// Rule is one configured transition: a method and its [Min,Max] amount.
type Rule struct {
	Method Method  `yaml:"method" json:"method" validate:"oneof=FIXED PREV_DIFF PREV_RATIO PREV_RATIO_DIFF_CHAIN PURCHASE_RATIO"`
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max" validate:"gtefield=Min"`
}

// NewRule is shorthand for a Rule literal.
func NewRule(method Method, min, max float64) Rule {
	return Rule{Method: method, Min: min, Max: max}
}

// Valid reports whether the rule can take part in propagation.
func (r Rule) Valid() bool {
	if !r.Method.Known() || r.Min > r.Max {
		return false
	}
	// PREV_RATIO is inverted by dividing through its bounds.
	if r.Method == MethodPrevRatio && r.Min <= 0 {
		return false
	}
	return true
}

func (r Rule) String() string {
	return fmt.Sprintf("%s[%g,%g]", r.Method, r.Min, r.Max)
}

// Assignment holds one rule per slot. Index 0 is unused: the purchase slot
// is either observed or bounded by the default purchase range.
type Assignment [SlotCount]Rule
