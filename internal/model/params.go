package model

// WaveTransitionType classifies a slot of the wave pattern.
type WaveTransitionType byte

const (
	WaveRising            WaveTransitionType = 'R'
	WaveTwoTimesFalling   WaveTransitionType = '2'
	WaveThreeTimesFalling WaveTransitionType = '3'
)

// Run lengths of the two falling runs in the wave pattern.
const (
	TwoTimesFallingLength   = 2
	ThreeTimesFallingLength = 3
)

// RisingSequenceLength is the number of rules in a period pattern's rise.
const RisingSequenceLength = 6

// WaveParams configures the wave pattern: a rising week with one falling
// run of two slots and one of three.
type WaveParams struct {
	Rising                     Rule   `yaml:"rising" json:"rising"`
	TwoTimesFalling            []Rule `yaml:"two_times_falling" json:"two_times_falling" validate:"len=2,dive"`
	ThreeTimesFalling          []Rule `yaml:"three_times_falling" json:"three_times_falling" validate:"len=3,dive"`
	TwoTimesFallingStartDays   []Slot `yaml:"two_times_falling_start_days" json:"two_times_falling_start_days"`
	ThreeTimesFallingStartDays []Slot `yaml:"three_times_falling_start_days" json:"three_times_falling_start_days"`
}

// FallingParams configures the steady decline pattern.
type FallingParams struct {
	Mon1      Rule `yaml:"mon1" json:"mon1"`
	OtherDays Rule `yaml:"other_days" json:"other_days"`
}

// PeriodParams configures the third- and fourth-period rising patterns.
type PeriodParams struct {
	Mon1            Rule   `yaml:"mon1" json:"mon1"`
	BeforeRising    Rule   `yaml:"before_rising" json:"before_rising"`
	Rising          []Rule `yaml:"rising" json:"rising" validate:"len=6,dive"`
	AfterRising     Rule   `yaml:"after_rising" json:"after_rising"`
	RisingStartDays []Slot `yaml:"rising_start_days" json:"rising_start_days"`
	HasPeak         bool   `yaml:"has_peak" json:"has_peak"`
}

// Parameters is the full configuration of one prediction run.
type Parameters struct {
	Tolerance    int           `yaml:"tolerance" json:"tolerance" validate:"gte=0"`
	Wave         WaveParams    `yaml:"wave" json:"wave"`
	Falling      FallingParams `yaml:"falling" json:"falling"`
	ThirdPeriod  PeriodParams  `yaml:"third_period" json:"third_period"`
	FourthPeriod PeriodParams  `yaml:"fourth_period" json:"fourth_period"`
}

// Clone returns a deep copy so callers can adjust a shared preset.
func (p Parameters) Clone() Parameters {
	out := p
	out.Wave.TwoTimesFalling = append([]Rule(nil), p.Wave.TwoTimesFalling...)
	out.Wave.ThreeTimesFalling = append([]Rule(nil), p.Wave.ThreeTimesFalling...)
	out.Wave.TwoTimesFallingStartDays = append([]Slot(nil), p.Wave.TwoTimesFallingStartDays...)
	out.Wave.ThreeTimesFallingStartDays = append([]Slot(nil), p.Wave.ThreeTimesFallingStartDays...)
	out.ThirdPeriod = p.ThirdPeriod.clone()
	out.FourthPeriod = p.FourthPeriod.clone()
	return out
}

func (p PeriodParams) clone() PeriodParams {
	out := p
	out.Rising = append([]Rule(nil), p.Rising...)
	out.RisingStartDays = append([]Slot(nil), p.RisingStartDays...)
	return out
}
