package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func intPtr(v int) *int { return &v }

func TestNewInterval_Tolerance(t *testing.T) {
	iv := NewInterval(100, 110, 5)
	assert.Equal(t, Interval{Min: 95, Max: 115}, iv)

	assert.Equal(t, Interval{Min: 100, Max: 110}, NewInterval(100, 110, 0))
}

func TestInterval_Ops(t *testing.T) {
	a := Interval{Min: 10, Max: 20}
	b := Interval{Min: 15, Max: 30}

	assert.Equal(t, Interval{Min: 15, Max: 20}, a.Intersect(b))
	assert.Equal(t, Interval{Min: 10, Max: 30}, a.Union(b))
	assert.Equal(t, Interval{Min: 25, Max: 50}, a.Add(b))
	assert.True(t, a.Contains(10))
	assert.True(t, a.Contains(20))
	assert.False(t, a.Contains(20.5))
	assert.True(t, a.Intersect(Interval{Min: 21, Max: 25}).Empty())
	assert.False(t, Exact(7).Empty())
	assert.Equal(t, "(10~20)", a.String())
}

func TestRule_Valid(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"fixed", NewRule(MethodFixed, 10, 20), true},
		{"chain negative", NewRule(MethodPrevRatioDiffChain, -4, -1), true},
		{"inverted bounds", NewRule(MethodPurchaseRatio, 80, 70), false},
		{"unknown method", NewRule("SOMETHING", 1, 2), false},
		{"empty method", Rule{}, false},
		{"ratio through zero", NewRule(MethodPrevRatio, 0, 120), false},
		{"ratio", NewRule(MethodPrevRatio, 90, 120), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Valid())
		})
	}
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot("thu2")
	require.NoError(t, err)
	assert.Equal(t, SlotThu2, s)

	s, err = ParseSlot("12")
	require.NoError(t, err)
	assert.Equal(t, SlotSat2, s)

	_, err = ParseSlot("13")
	assert.Error(t, err)
	_, err = ParseSlot("SUN3")
	assert.Error(t, err)

	assert.Equal(t, "Slot(14)", Slot(14).String())
	assert.Len(t, SellSlots(), 12)
}

func TestSlot_YAML(t *testing.T) {
	var days []Slot
	require.NoError(t, yaml.Unmarshal([]byte("[MON1, 4, wed2]"), &days))
	assert.Equal(t, []Slot{SlotMon1, SlotTue2, SlotWed2}, days)

	out, err := yaml.Marshal(days)
	require.NoError(t, err)
	assert.Equal(t, "- MON1\n- TUE2\n- WED2\n", string(out))
}

func TestSeries(t *testing.T) {
	s := NewSeries(intPtr(95), nil, intPtr(80))
	assert.Equal(t, 2, s.Count())

	v, ok := s.Get(SlotSun)
	assert.True(t, ok)
	assert.Equal(t, 95, v)
	assert.False(t, s.Known(SlotMon1))

	s.Set(SlotMon1, 0)
	assert.True(t, s.Known(SlotMon1))
	s.Clear(SlotMon1)
	assert.False(t, s.Known(SlotMon1))

	s.Set(Slot(20), 5)
	assert.Equal(t, 2, s.Count())
}

func TestSeries_PurchaseCandidates(t *testing.T) {
	assert.Equal(t, []float64{95}, NewSeries(intPtr(95)).PurchaseCandidates())
	assert.Equal(t, []float64{90, 110}, NewSeries().PurchaseCandidates())
	assert.Equal(t, []float64{90, 110}, NewSeries(intPtr(120)).PurchaseCandidates())
	assert.Equal(t, []float64{90}, NewSeries(intPtr(90)).PurchaseCandidates())
}

func TestSeries_JSON(t *testing.T) {
	s := NewSeries(intPtr(100), nil, intPtr(85))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[100,null,85,null,null,null,null,null,null,null,null,null,null]`, string(b))

	var back Series
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)

	assert.Error(t, json.Unmarshal([]byte(`[1,2,3,4,5,6,7,8,9,10,11,12,13,14]`), &back))
}

func TestResult(t *testing.T) {
	var r Result
	assert.True(t, r.Empty())

	r.AddWave("R333RRR22RRR", Prediction{})
	r.AddWave("R22RRR333RRR", Prediction{})
	r.AddWave("R333RRR22RRR", Prediction{})
	assert.Equal(t, []string{"R333RRR22RRR", "R22RRR333RRR"}, r.WaveKeys())

	r.ThirdPeriod[SlotWed1] = &Prediction{}
	assert.Equal(t, []Slot{SlotWed1}, r.ThirdPeriod.StartDays())
	assert.Equal(t, 3, r.Feasible())
	assert.False(t, r.Empty())

	b, err := json.Marshal(r.ThirdPeriod)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"WED1"`)
}
