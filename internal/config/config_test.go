package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TurnipSentinel/internal/model"
	"TurnipSentinel/internal/preset"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "acnl", cfg.Prediction.Preset)
	assert.Equal(t, 0, cfg.Prediction.Tolerance)
	assert.Equal(t, "0 0 0 * * 0", cfg.Schedule.ResetCron)
	assert.Equal(t, "0 0 12,22 * * 1-6", cfg.Schedule.ReportCron)
	assert.Equal(t, "data/week_state.json", cfg.Week.StateFile)
	assert.Equal(t, "data/turnip_sentinel.db", cfg.Database.SQLitePath)
	assert.Equal(t, ":8080", cfg.API.Listen)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: file-token
  chat_id: "42"
prediction:
  preset: acww
  tolerance: 2
api:
  listen: ":9000"
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TOLERANCE", "3")
	t.Setenv("CRON_REPORT", "0 30 21 * * *")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, "acww", cfg.Prediction.Preset)
	assert.Equal(t, 3, cfg.Prediction.Tolerance)
	assert.Equal(t, "0 30 21 * * *", cfg.Schedule.ReportCron)
	assert.Equal(t, ":9000", cfg.API.Listen)

	params, err := cfg.Parameters()
	require.NoError(t, err)
	assert.Equal(t, 3, params.Tolerance)
	assert.Equal(t, []model.Slot{model.SlotThu2}, params.Wave.TwoTimesFallingStartDays)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, false},
		{"negative tolerance", func(c *Config) { c.Prediction.Tolerance = -1 }, false},
		{"bad cron", func(c *Config) { c.Schedule.ResetCron = "every sunday" }, false},
		{"unknown preset", func(c *Config) { c.Prediction.Preset = "acgc" }, false},
		{"empty state file", func(c *Config) { c.Week.StateFile = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_UnknownPresetIsSentinel(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	cfg.Prediction.Preset = "acgc"
	assert.True(t, errors.Is(cfg.Validate(), preset.ErrUnknownPreset))
}

func TestParameters_Override(t *testing.T) {
	path := writeConfig(t, `
prediction:
  tolerance: 1
  parameters:
    wave:
      rising: {method: PURCHASE_RATIO, min: 90, max: 140}
      two_times_falling:
        - {method: PURCHASE_RATIO, min: 60, max: 80}
        - {method: PREV_RATIO_DIFF_CHAIN, min: -10, max: -4}
      three_times_falling:
        - {method: PURCHASE_RATIO, min: 60, max: 80}
        - {method: PREV_RATIO_DIFF_CHAIN, min: -10, max: -4}
        - {method: PREV_RATIO_DIFF_CHAIN, min: -10, max: -4}
      two_times_falling_start_days: [MON1]
      three_times_falling_start_days: [FRI1]
    falling:
      mon1: {method: PURCHASE_RATIO, min: 85, max: 90}
      other_days: {method: PREV_RATIO_DIFF_CHAIN, min: -6, max: -2}
    third_period:
      mon1: {method: PURCHASE_RATIO, min: 85, max: 90}
      before_rising: {method: PREV_RATIO_DIFF_CHAIN, min: -6, max: -2}
      rising:
        - {method: PURCHASE_RATIO, min: 90, max: 140}
        - {method: PURCHASE_RATIO, min: 140, max: 200}
        - {method: PURCHASE_RATIO, min: 200, max: 600}
        - {method: PURCHASE_RATIO, min: 140, max: 200}
        - {method: PURCHASE_RATIO, min: 90, max: 140}
        - {method: PURCHASE_RATIO, min: 40, max: 90}
      after_rising: {method: PURCHASE_RATIO, min: 40, max: 90}
      rising_start_days: [WED1]
    fourth_period:
      mon1: {method: PURCHASE_RATIO, min: 40, max: 90}
      before_rising: {method: PREV_RATIO_DIFF_CHAIN, min: -6, max: -2}
      rising:
        - {method: PURCHASE_RATIO, min: 90, max: 140}
        - {method: PURCHASE_RATIO, min: 90, max: 140}
        - {method: PURCHASE_RATIO, min: 140, max: 190}
        - {method: PURCHASE_RATIO, min: 140, max: 200}
        - {method: PURCHASE_RATIO, min: 140, max: 190}
        - {method: PURCHASE_RATIO, min: 40, max: 90}
      after_rising: {method: PREV_RATIO_DIFF_CHAIN, min: -6, max: -2}
      rising_start_days: [TUE1]
      has_peak: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	params, err := cfg.Parameters()
	require.NoError(t, err)
	assert.Equal(t, 1, params.Tolerance)
	assert.Equal(t, []model.Slot{model.SlotWed1}, params.ThirdPeriod.RisingStartDays)
	assert.True(t, params.FourthPeriod.HasPeak)
}

func TestValidateParameters(t *testing.T) {
	good, err := preset.Get("accf")
	require.NoError(t, err)
	require.NoError(t, ValidateParameters(good))

	short := good.Clone()
	short.ThirdPeriod.Rising = short.ThirdPeriod.Rising[:5]
	assert.Error(t, ValidateParameters(short))

	inverted := good.Clone()
	inverted.Falling.Mon1 = model.NewRule(model.MethodPurchaseRatio, 90, 80)
	assert.Error(t, ValidateParameters(inverted))

	ratio := good.Clone()
	ratio.Falling.OtherDays = model.NewRule(model.MethodPrevRatio, 0, 10)
	err = ValidateParameters(ratio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "falling.other_days")

	sunday := good.Clone()
	sunday.FourthPeriod.RisingStartDays = append(sunday.FourthPeriod.RisingStartDays, model.SlotSun)
	err = ValidateParameters(sunday)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fourth_period.rising_start_days")
}

func TestNewValidator_Cronspec(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = newValidator() })

	type job struct {
		Spec string `validate:"cronspec"`
	}
	assert.NoError(t, v.Struct(job{Spec: "0 0 12,22 * * 1-6"}))
	assert.NoError(t, v.Struct(job{}))
	assert.Error(t, v.Struct(job{Spec: "0 0 12 * *"}))
}
