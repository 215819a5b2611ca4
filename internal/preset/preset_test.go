package preset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TurnipSentinel/internal/model"
	"TurnipSentinel/internal/strategy"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"accf", "acnl", "acww"}, Keys())
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("acgc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestGet_Shapes(t *testing.T) {
	for _, key := range Keys() {
		t.Run(key, func(t *testing.T) {
			p, err := Get(key)
			require.NoError(t, err)

			assert.Len(t, p.Wave.TwoTimesFalling, model.TwoTimesFallingLength)
			assert.Len(t, p.Wave.ThreeTimesFalling, model.ThreeTimesFallingLength)
			assert.Len(t, p.ThirdPeriod.Rising, model.RisingSequenceLength)
			assert.Len(t, p.FourthPeriod.Rising, model.RisingSequenceLength)
			assert.False(t, p.ThirdPeriod.HasPeak)
			assert.True(t, p.FourthPeriod.HasPeak)

			rules := append([]model.Rule{p.Wave.Rising, p.Falling.Mon1, p.Falling.OtherDays}, p.Wave.TwoTimesFalling...)
			rules = append(rules, p.Wave.ThreeTimesFalling...)
			rules = append(rules, p.ThirdPeriod.Rising...)
			rules = append(rules, p.FourthPeriod.Rising...)
			for _, r := range rules {
				assert.True(t, r.Valid(), r.String())
			}
		})
	}
}

func TestGet_ACNL(t *testing.T) {
	p, err := Get("acnl")
	require.NoError(t, err)

	assert.Equal(t, model.NewRule(model.MethodPurchaseRatio, 85, 90), p.Falling.Mon1)
	assert.Equal(t, model.NewRule(model.MethodPrevRatioDiffChain, -6, -2), p.Falling.OtherDays)
	assert.Equal(t, model.NewRule(model.MethodPurchaseRatio, 40, 90), p.ThirdPeriod.AfterRising)
	assert.Equal(t, model.NewRule(model.MethodPurchaseRatio, 140, 190), p.FourthPeriod.Rising[2])
	assert.Len(t, p.Wave.TwoTimesFallingStartDays, 11)
	assert.Equal(t, model.SlotSat1, p.Wave.TwoTimesFallingStartDays[10])
	assert.Equal(t, []model.Slot{
		model.SlotMon1, model.SlotMon2, model.SlotTue1, model.SlotTue2,
		model.SlotWed1, model.SlotWed2, model.SlotThu1, model.SlotThu2,
	}, p.FourthPeriod.RisingStartDays)
}

func TestGet_ACWW(t *testing.T) {
	p, err := Get("acww")
	require.NoError(t, err)

	assert.Equal(t, []model.Slot{model.SlotThu2}, p.Wave.TwoTimesFallingStartDays)
	assert.Equal(t, []model.Slot{model.SlotMon2}, p.Wave.ThreeTimesFallingStartDays)
	for _, r := range p.Wave.ThreeTimesFalling {
		assert.Equal(t, model.NewRule(model.MethodPurchaseRatio, 40, 80), r)
	}
	assert.Equal(t, model.NewRule(model.MethodPurchaseRatio, 170, 200), p.FourthPeriod.Rising[3])
}

func TestGet_ReturnsCopy(t *testing.T) {
	p, err := Get("accf")
	require.NoError(t, err)
	p.ThirdPeriod.Rising[0] = model.Rule{}
	p.Wave.TwoTimesFallingStartDays[0] = model.SlotSat2

	q, err := Get("accf")
	require.NoError(t, err)
	assert.Equal(t, model.NewRule(model.MethodPurchaseRatio, 80, 140), q.ThirdPeriod.Rising[0])
	assert.Equal(t, model.SlotMon1, q.Wave.TwoTimesFallingStartDays[0])
}

func TestPresets_FallingWeek(t *testing.T) {
	p, err := Get("acww")
	require.NoError(t, err)

	var obs model.Series
	obs.Set(model.SlotSun, 95)
	obs.Set(model.SlotMon1, 75)
	obs.Set(model.SlotMon2, 72)

	result := strategy.Predict(p, obs)
	require.NotNil(t, result.Falling)
	assert.InDelta(t, 68.2, result.Falling[model.SlotTue1].Min, 1e-9)
	assert.InDelta(t, 71.05, result.Falling[model.SlotTue1].Max, 1e-9)
}
