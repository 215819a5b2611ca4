package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"TurnipSentinel/internal/model"
	"TurnipSentinel/internal/preset"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Prediction struct {
		Preset    string `yaml:"preset"`
		Tolerance int    `yaml:"tolerance" validate:"gte=0"`
		// Parameters replaces the preset tables when set.
		Parameters *model.Parameters `yaml:"parameters" validate:"omitempty"`
	} `yaml:"prediction"`
	Schedule struct {
		ResetCron  string `yaml:"reset_cron" validate:"cronspec"`
		ReportCron string `yaml:"report_cron" validate:"cronspec"`
	} `yaml:"schedule"`
	Week struct {
		StateFile string `yaml:"state_file" validate:"required"`
	} `yaml:"week"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		Listen    string  `yaml:"listen"`
		RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
		Burst     int     `yaml:"burst" validate:"gte=0"`
	} `yaml:"api"`
	Proxy string `yaml:"proxy"`
}

// cronParser accepts the six-field specs the scheduler registers.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		spec := fl.Field().String()
		if spec == "" {
			return true
		}
		_, err := cronParser.Parse(spec)
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("register cronspec validation: %v", err))
	}
	return v
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("PRESET"); v != "" {
		cfg.Prediction.Preset = v
	}
	if v := os.Getenv("TOLERANCE"); v != "" {
		if tol, err := strconv.Atoi(v); err == nil {
			cfg.Prediction.Tolerance = tol
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("API_LISTEN"); v != "" {
		cfg.API.Listen = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_RESET"); v != "" {
		cfg.Schedule.ResetCron = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.ReportCron = v
	}

	// Defaults
	if cfg.Prediction.Preset == "" {
		cfg.Prediction.Preset = preset.Default
	}
	if cfg.Schedule.ResetCron == "" {
		cfg.Schedule.ResetCron = "0 0 0 * * 0"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 12,22 * * 1-6"
	}
	if cfg.Week.StateFile == "" {
		cfg.Week.StateFile = "data/week_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/turnip_sentinel.db"
	}
	if cfg.API.Listen == "" {
		cfg.API.Listen = ":8080"
	}
	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = 10
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = 20
	}

	return cfg, nil
}

// Validate checks field constraints and that the prediction parameters resolve.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Parameters(); err != nil {
		return err
	}
	return nil
}

// Parameters resolves the configured preset, or the inline override, with
// the configured tolerance applied.
func (c *Config) Parameters() (model.Parameters, error) {
	var params model.Parameters
	if c.Prediction.Parameters != nil {
		params = c.Prediction.Parameters.Clone()
	} else {
		p, err := preset.Get(c.Prediction.Preset)
		if err != nil {
			return model.Parameters{}, fmt.Errorf("prediction.preset: %w", err)
		}
		params = p
	}
	params.Tolerance = c.Prediction.Tolerance
	if err := ValidateParameters(params); err != nil {
		return model.Parameters{}, err
	}
	return params, nil
}

// ValidateParameters rejects parameter sets the engine would silently treat
// as infeasible: malformed rules and start days outside MON1..SAT2.
func ValidateParameters(p model.Parameters) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("prediction.parameters: %w", err)
	}

	var errs []error
	checkRule := func(name string, r model.Rule) {
		if !r.Valid() {
			errs = append(errs, fmt.Errorf("%s: malformed rule %s", name, r))
		}
	}
	checkDays := func(name string, days []model.Slot) {
		for _, d := range days {
			if !d.IsSell() {
				errs = append(errs, fmt.Errorf("%s: %s is not a selling slot", name, d))
			}
		}
	}

	checkRule("wave.rising", p.Wave.Rising)
	for i, r := range p.Wave.TwoTimesFalling {
		checkRule(fmt.Sprintf("wave.two_times_falling[%d]", i), r)
	}
	for i, r := range p.Wave.ThreeTimesFalling {
		checkRule(fmt.Sprintf("wave.three_times_falling[%d]", i), r)
	}
	checkDays("wave.two_times_falling_start_days", p.Wave.TwoTimesFallingStartDays)
	checkDays("wave.three_times_falling_start_days", p.Wave.ThreeTimesFallingStartDays)

	checkRule("falling.mon1", p.Falling.Mon1)
	checkRule("falling.other_days", p.Falling.OtherDays)

	for _, pp := range []struct {
		name   string
		period model.PeriodParams
	}{
		{"third_period", p.ThirdPeriod},
		{"fourth_period", p.FourthPeriod},
	} {
		name, period := pp.name, pp.period
		checkRule(name+".mon1", period.Mon1)
		checkRule(name+".before_rising", period.BeforeRising)
		checkRule(name+".after_rising", period.AfterRising)
		for i, r := range period.Rising {
			checkRule(fmt.Sprintf("%s.rising[%d]", name, i), r)
		}
		checkDays(name+".rising_start_days", period.RisingStartDays)
	}

	return errors.Join(errs...)
}
